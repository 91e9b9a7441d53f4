// Package main implements sysprofile, a command that reports host uptime,
// load and logged-in users. With -nagios it acts as a Nagios plugin.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"sysprofile/internal/profile"
)

var (
	runQuery = flag.String("run", "okay", "Query to run: hostname, info, uptime, users, load, okay")
	details  = flag.Bool("details", false, "Report the full uptime record instead of the uptime text")
	period   = flag.Int("period", profile.DefaultPeriod, "Load average period in minutes for okay (1, 5 or 15)")
	format   = flag.String("format", "text", "Output format: text, json, yaml")
	nagios   = flag.Bool("nagios", false, "Print a Nagios status line for okay and exit with its status code")
	commands = flag.String("commands", "", "YAML file overriding the built-in command tables")
	debug    = flag.Bool("debug", false, "Enable debug logging")
)

var queries = []string{"hostname", "info", "uptime", "users", "load", "okay"}

func main() {
	flag.Parse()

	if !slices.Contains(queries, *runQuery) {
		log.Fatalf("Unknown query %q (want one of %s)", *runQuery, strings.Join(queries, ", "))
	}
	if *format != "text" && *format != "json" && *format != "yaml" {
		log.Fatalf("Unknown format %q", *format)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := profile.Config{Debug: *debug}
	if *commands != "" {
		data, err := os.ReadFile(*commands)
		if err != nil {
			log.Fatalf("Failed to read command tables: %v", err)
		}
		tables, err := profile.CompileTables(data)
		if err != nil {
			log.Fatalf("Failed to load command tables: %v", err)
		}
		cfg.Tables = tables
	}

	p, err := profile.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if *nagios {
		verdict, line := nagiosCheck(ctx, p, *period)
		fmt.Println(line)
		os.Exit(verdict.NagiosStatus())
	}

	if err := runSingleQuery(ctx, os.Stdout, p, *runQuery); err != nil {
		log.Printf("[ERROR] %s: %v", *runQuery, err)
		os.Exit(1)
	}
}

// runSingleQuery runs one query and writes its result in the chosen format.
func runSingleQuery(ctx context.Context, w io.Writer, p *profile.Profile, query string) error {
	var result any
	switch query {
	case "hostname":
		result = p.Hostname()
	case "info":
		result = p.ServerInfo()
	case "uptime":
		if *details {
			report, err := p.UptimeReport(ctx)
			if err != nil {
				return err
			}
			result = report
		} else {
			uptime, err := p.Uptime(ctx)
			if err != nil {
				return err
			}
			result = uptime
		}
	case "users":
		result = p.OnlineUsers(ctx)
	case "load":
		load, err := p.LoadLevels(ctx)
		if err != nil {
			return err
		}
		result = load
	case "okay":
		result = p.SystemIsOkay(ctx, *period)
	default:
		return fmt.Errorf("unknown query %q", query)
	}
	return write(w, result)
}

func write(w io.Writer, v any) error {
	switch *format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() {
			if err := enc.Close(); err != nil {
				log.Printf("[WARN] Error closing yaml encoder: %v", err)
			}
		}()
		return enc.Encode(v)
	default:
		_, err := fmt.Fprintln(w, text(v))
		return err
	}
}

// text renders a query result for humans.
func text(v any) string {
	switch r := v.(type) {
	case profile.UptimeReport:
		return fmt.Sprintf("time %s, up %s, %d users, load %s", r.SystemTime, r.Uptime, r.Users, loadText(r.Load))
	case map[int]float64:
		return loadText(r)
	case []profile.UserSession:
		if len(r) == 0 {
			return "no users logged in"
		}
		lines := make([]string, 0, len(r))
		for _, s := range r {
			line := fmt.Sprintf("%s\t%s\t%s %s", s.User, s.Terminal, s.Date, s.Time)
			if s.Host != nil {
				line += "\t(" + *s.Host + ")"
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprint(v)
	}
}

func loadText(load map[int]float64) string {
	return fmt.Sprintf("%.2f %.2f %.2f", load[1], load[5], load[15])
}

// nagiosCheck runs the health check and builds a Nagios plugin status line.
// The load is read once so the verdict and the reported figures agree.
func nagiosCheck(ctx context.Context, p *profile.Profile, period int) (profile.Verdict, string) {
	const unknownLine = "LOAD UNKNOWN - load levels unavailable"
	if p.Family() == profile.Windows {
		period = 1
	}

	load, err := p.LoadLevels(ctx)
	if err != nil {
		log.Printf("[WARN] Load levels unavailable: %v", err)
		return profile.Unknown, unknownLine
	}

	verdict := profile.Evaluate(load, period)
	label := "OK"
	switch verdict {
	case profile.Overloaded:
		label = "CRITICAL"
	case profile.Unknown:
		return profile.Unknown, unknownLine
	}
	return verdict, fmt.Sprintf("LOAD %s - %dm load %.2f (threshold %.2f) | load1=%.2f load5=%.2f load15=%.2f",
		label, period, load[period], profile.OverloadThreshold, load[1], load[5], load[15])
}
