package profile

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// UserSession is one logged-in session.
type UserSession struct {
	User     string  `json:"user" yaml:"user"`
	Terminal string  `json:"term" yaml:"term"`
	Date     string  `json:"date" yaml:"date"` // YYYY-MM-DD
	Time     string  `json:"time" yaml:"time"` // HH:MM:SS
	Host     *string `json:"host" yaml:"host"` // nil for local sessions
}

// Layouts accepted for Unix who timestamps, after whitespace is collapsed.
var whoLayouts = []struct {
	layout  string
	hasYear bool
}{
	{"2006-01-02 15:04", true},    // Linux
	{"2006-01-02 15:04:05", true}, // who --time-format
	{"Jan 2 15:04", false},        // BSD, macOS
}

// OnlineUsers returns the logged-in sessions. Lines that cannot be parsed
// are skipped, so the result may be empty but is never nil.
func (p *Profile) OnlineUsers(ctx context.Context) []UserSession {
	p.checkOS()

	spec := p.tables.For(p.family).Who
	out := p.execute(ctx, spec.Command)

	sessions := []UserSession{}
	for _, c := range matchLines(spec.Pattern, out) {
		ts, err := p.sessionTime(c.Text("datetime"))
		if err != nil {
			if p.debug {
				log.Printf("[DEBUG] Skipping session of %s: %v", c.Text("user"), err)
			}
			continue
		}

		session := UserSession{
			User:     c.Text("user"),
			Terminal: c.Text("term"),
			Date:     ts.Format(time.DateOnly),
			Time:     ts.Format(time.TimeOnly),
		}
		if host := c.Text("host"); host != "" {
			session.Host = &host
		}
		sessions = append(sessions, session)
	}
	return sessions
}

// sessionTime parses a who datetime in the profile's family format.
func (p *Profile) sessionTime(datetime string) (time.Time, error) {
	if p.family == Windows {
		return ParseWinTime(datetime, p.loc)
	}
	return parseWhoTime(datetime, p.now().In(p.loc), p.loc)
}

// parseWhoTime reads a Unix who timestamp. Formats without a year take the
// year from now.
func parseWhoTime(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	for _, l := range whoLayouts {
		ts, err := time.ParseInLocation(l.layout, s, loc)
		if err != nil {
			continue
		}
		if !l.hasYear {
			ts = time.Date(now.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), 0, loc)
		}
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized who timestamp %q", s)
}
