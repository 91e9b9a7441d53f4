// Package profile reports host uptime, load averages and logged-in users by
// running platform shell utilities and parsing their output.
//
// The command and pattern used for each query come from a per-family table
// (see commands.yaml). A Profile is bound to one family for its lifetime.
package profile

import (
	"context"
	"errors"
	"log"
	"runtime"
	"strings"
	"time"

	"sysprofile/internal/hostinfo"
	"sysprofile/internal/store"
)

// HostKey is the store key holding the HostProperties snapshot.
const HostKey = "SystemProfile"

var (
	// ErrUnavailable is returned when a query could not produce a value.
	ErrUnavailable = errors.New("unavailable")
	// ErrUnparseableOutput is returned when command output does not match
	// the expected pattern.
	ErrUnparseableOutput = errors.New("unparseable command output")
)

// Config configures a Profile. Zero fields take defaults.
type Config struct {
	RawOS    string                   // OS identifier; defaults to runtime.GOOS
	Runner   Runner                   // Defaults to a ShellRunner for the detected family
	Store    store.Store              // Defaults to a new in-memory store
	Tables   *Tables                  // Defaults to the embedded command tables
	Host     *hostinfo.HostProperties // Defaults to hostinfo.Capture
	Now      func() time.Time         // Defaults to time.Now
	Location *time.Location           // Zone for Windows timestamps; defaults to time.Local
	Debug    bool
}

// Profile answers host health queries.
type Profile struct {
	runner Runner
	store  store.Store
	tables *Tables
	now    func() time.Time
	loc    *time.Location
	rawOS  string
	family Family
	debug  bool
}

// New creates a Profile, captures the host properties and records them in
// the store.
func New(ctx context.Context, cfg Config) (*Profile, error) {
	p := &Profile{
		rawOS:  cfg.RawOS,
		runner: cfg.Runner,
		store:  cfg.Store,
		tables: cfg.Tables,
		now:    cfg.Now,
		loc:    cfg.Location,
		debug:  cfg.Debug,
	}
	if p.rawOS == "" {
		p.rawOS = runtime.GOOS
	}
	p.family = DetectFamily(p.rawOS)
	p.checkOS()

	if p.tables == nil {
		tables, err := DefaultTables()
		if err != nil {
			return nil, err
		}
		p.tables = tables
	}
	if p.runner == nil {
		p.runner = &ShellRunner{Family: p.family, Debug: cfg.Debug}
	}
	if p.store == nil {
		p.store = store.NewMemory()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.loc == nil {
		p.loc = time.Local
	}

	var props hostinfo.HostProperties
	if cfg.Host != nil {
		props = *cfg.Host
	} else {
		props = hostinfo.Capture(ctx)
	}
	p.store.Set(HostKey, props)

	if p.debug {
		log.Printf("[DEBUG] Profile ready: os=%s family=%s hostname=%s", p.rawOS, p.family, props.Hostname)
	}
	return p, nil
}

// Family returns the OS family the profile was built for.
func (p *Profile) Family() Family {
	return p.family
}

// Hostname returns the hostname captured at startup.
func (p *Profile) Hostname() string {
	p.checkOS()
	v, ok := p.store.Get(HostKey + ".hostname")
	if !ok {
		return ""
	}
	hostname, _ := v.(string)
	return hostname
}

// ServerInfo returns the host properties captured at startup.
func (p *Profile) ServerInfo() hostinfo.HostProperties {
	p.checkOS()
	v, _ := p.store.Get(HostKey)
	props, _ := v.(hostinfo.HostProperties)
	return props
}

// checkOS logs a warning when running on an untested platform.
func (p *Profile) checkOS() {
	if err := CheckOS(p.rawOS); err != nil {
		log.Printf("[WARN] %v (os: %s)", err, p.rawOS)
	}
}

// execute runs a table command and returns its trimmed output. Failures are
// logged; whatever output was captured is still returned for parsing.
func (p *Profile) execute(ctx context.Context, command string) string {
	out, err := p.runner.Execute(ctx, command)
	if err != nil {
		log.Printf("[WARN] Command failed: %v", err)
	}
	return strings.TrimSpace(out)
}
