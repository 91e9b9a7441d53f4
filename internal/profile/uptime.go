package profile

import (
	"context"
	"fmt"
	"log"
	"strconv"
)

// UptimeReport is the normalized result of an uptime query.
type UptimeReport struct {
	SystemTime string          `json:"system_time" yaml:"system_time"`
	Uptime     string          `json:"uptime" yaml:"uptime"` // "<d>d <h>h <m>m"
	Users      int             `json:"users" yaml:"users"`
	Load       map[int]float64 `json:"load" yaml:"load"` // Keyed by period: 1, 5, 15 minutes
}

// Uptime returns the uptime as "<d>d <h>h <m>m".
func (p *Profile) Uptime(ctx context.Context) (string, error) {
	report, err := p.UptimeReport(ctx)
	if err != nil {
		return "", err
	}
	return report.Uptime, nil
}

// UptimeReport returns the full uptime report. On failure the error wraps
// ErrUnavailable.
func (p *Profile) UptimeReport(ctx context.Context) (UptimeReport, error) {
	p.checkOS()

	spec := p.tables.For(p.family).Uptime
	out := p.execute(ctx, spec.Command)

	c, ok := matchOnce(spec.Pattern, out)
	if !ok {
		if p.debug {
			log.Printf("[DEBUG] uptime output did not match: %q", out)
		}
		return UptimeReport{}, fmt.Errorf("%w: uptime: %w", ErrUnavailable, ErrUnparseableOutput)
	}

	if p.family == Windows {
		if err := p.reconcileWindowsUptime(ctx, c); err != nil {
			return UptimeReport{}, fmt.Errorf("%w: uptime: %w", ErrUnavailable, err)
		}
	}
	return normalizeUptime(c), nil
}

// reconcileWindowsUptime fills the relative uptime fields from the absolute
// "statistics since" timestamp, and the user count from a who query.
func (p *Profile) reconcileWindowsUptime(ctx context.Context, c Captures) error {
	start, err := ParseWinTime(c.Text("start_time"), p.loc)
	if err != nil {
		return err
	}
	days, hours, minutes := elapsed(start, p.now().In(p.loc))
	c["days"] = strconv.Itoa(days)
	c["hours"] = strconv.Itoa(hours)
	c["minutes"] = strconv.Itoa(minutes)
	c["only_minutes"] = ""
	c["only_hours"] = ""
	c["users"] = strconv.Itoa(len(p.OnlineUsers(ctx)))
	return nil
}

// normalizeUptime converts captures into a report. Missing or malformed
// numbers read as zero. A positive only_minutes ("up 5 min") replaces
// minutes and a positive only_hours ("up 2 hrs") replaces hours.
func normalizeUptime(c Captures) UptimeReport {
	days := c.Int("days")
	hours := c.Int("hours")
	minutes := c.Int("minutes")
	if only := c.Int("only_minutes"); only > 0 {
		minutes = only
	}
	if only := c.Int("only_hours"); only > 0 {
		hours = only
	}

	return UptimeReport{
		SystemTime: c.Text("system_time"),
		Uptime:     fmt.Sprintf("%dd %dh %dm", days, hours, minutes),
		Users:      c.Int("users"),
		Load: map[int]float64{
			1:  c.Float("load_1m"),
			5:  c.Float("load_5m"),
			15: c.Float("load_15m"),
		},
	}
}
