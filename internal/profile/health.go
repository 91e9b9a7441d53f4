package profile

import (
	"context"
	"log"
)

// OverloadThreshold is the load average at or above which the system is
// considered overloaded.
const OverloadThreshold = 2.0

// DefaultPeriod is the load average period SystemIsOkay checks by default.
const DefaultPeriod = 5

// Verdict is the outcome of a health check.
type Verdict int

// Health verdicts.
const (
	Unknown Verdict = iota
	Okay
	Overloaded
)

// Nagios plugin exit statuses.
const (
	nagiosOK       = 0
	nagiosCritical = 2
	nagiosUnknown  = 3
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Okay:
		return "okay"
	case Overloaded:
		return "overloaded"
	default:
		return "unknown"
	}
}

// MarshalText encodes the verdict by name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// NagiosStatus maps the verdict to a Nagios plugin exit status.
func (v Verdict) NagiosStatus() int {
	switch v {
	case Okay:
		return nagiosOK
	case Overloaded:
		return nagiosCritical
	default:
		return nagiosUnknown
	}
}

// LoadLevels returns the 1, 5 and 15 minute load averages. On failure the
// error wraps ErrUnavailable.
func (p *Profile) LoadLevels(ctx context.Context) (map[int]float64, error) {
	p.checkOS()
	report, err := p.UptimeReport(ctx)
	if err != nil {
		return nil, err
	}
	return report.Load, nil
}

// SystemIsOkay compares the load average for period minutes (1, 5 or 15)
// against OverloadThreshold. Windows only reports a 1 minute figure, so the
// period is always 1 there.
func (p *Profile) SystemIsOkay(ctx context.Context, period int) Verdict {
	if p.family == Windows {
		period = 1
	}
	load, err := p.LoadLevels(ctx)
	if err != nil {
		log.Printf("[WARN] Load levels unavailable: %v", err)
		return Unknown
	}
	return Evaluate(load, period)
}

// Evaluate compares the load average for period minutes against
// OverloadThreshold. A missing period yields Unknown.
func Evaluate(load map[int]float64, period int) Verdict {
	value, ok := load[period]
	if !ok {
		log.Printf("[WARN] No load average for a %d minute period", period)
		return Unknown
	}
	if value >= OverloadThreshold {
		return Overloaded
	}
	return Okay
}
