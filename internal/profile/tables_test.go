package profile

import (
	"strings"
	"testing"
)

func defaultSpecs(t *testing.T) (unix, windows FamilyTable) {
	t.Helper()
	tables, err := DefaultTables()
	if err != nil {
		t.Fatalf("DefaultTables failed: %v", err)
	}
	return tables.For(Unix), tables.For(Windows)
}

func TestDefaultCommands(t *testing.T) {
	unix, windows := defaultSpecs(t)

	if unix.Uptime.Command != "uptime" || unix.Who.Command != "who" {
		t.Errorf("unix commands = %q, %q, want uptime, who", unix.Uptime.Command, unix.Who.Command)
	}
	if !strings.Contains(windows.Uptime.Command, "net statistics workstation") {
		t.Errorf("windows uptime command = %q", windows.Uptime.Command)
	}
	if !strings.Contains(windows.Who.Command, "quser") {
		t.Errorf("windows who command = %q", windows.Who.Command)
	}
}

func TestUnixUptimePattern(t *testing.T) {
	unix, _ := defaultSpecs(t)

	tests := []struct {
		input string
		want  Captures
	}{
		{
			input: "10:00:00 up 5 min,  2 users,  load average: 0.10, 0.20, 0.30",
			want: Captures{"system_time": "10:00:00", "only_minutes": "5", "days": "", "hours": "", "minutes": "",
				"users": "2", "load_1m": "0.10", "load_5m": "0.20", "load_15m": "0.30"},
		},
		{
			input: "10:00:00 up 2 days, 3:15,  1 user,  load average: 1.0, 2.5, 0.5",
			want: Captures{"system_time": "10:00:00", "only_minutes": "", "days": "2", "hours": "3", "minutes": "15",
				"users": "1", "load_1m": "1.0", "load_5m": "2.5", "load_15m": "0.5"},
		},
		{
			input: "10:00:00 up 12:01,  4 users,  load average: 12, 8, 4",
			want: Captures{"system_time": "10:00:00", "days": "", "hours": "12", "minutes": "01",
				"users": "4", "load_1m": "12", "load_5m": "8", "load_15m": "4"},
		},
		{
			input: "9:41  up 17 mins, 2 users, load averages: 1.23 1.45 1.67",
			want: Captures{"system_time": "9:41", "only_minutes": "17",
				"users": "2", "load_1m": "1.23", "load_5m": "1.45", "load_15m": "1.67"},
		},
		{
			input: "9:41  up 3 days, 2 hrs, 2 users, load averages: 1.23 1.45 1.67",
			want: Captures{"system_time": "9:41", "days": "3", "only_hours": "2", "only_minutes": "", "hours": "",
				"users": "2", "load_1m": "1.23", "load_5m": "1.45", "load_15m": "1.67"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := matchOnce(unix.Uptime.Pattern, tt.input)
			if !ok {
				t.Fatalf("pattern did not match %q", tt.input)
			}
			for name, want := range tt.want {
				if got[name] != want {
					t.Errorf("%s = %q, want %q", name, got[name], want)
				}
			}
		})
	}

	for _, bad := range []string{"", "uptime: command not found", "10:00:00 up 5 min, load average: 0.1, 0.2, 0.3"} {
		if _, ok := matchOnce(unix.Uptime.Pattern, bad); ok {
			t.Errorf("pattern matched %q", bad)
		}
	}
}

func TestWindowsUptimePattern(t *testing.T) {
	_, windows := defaultSpecs(t)

	got, ok := matchOnce(windows.Uptime.Pattern, "14:30:05.12\r\nStatistics since 3/4/2024 2:30:00 PM\r\n37")
	if !ok {
		t.Fatal("pattern did not match")
	}
	want := Captures{"system_time": "14:30:05", "start_time": "3/4/2024 2:30:00 PM", "load_1m": "37"}
	for name, w := range want {
		if got[name] != w {
			t.Errorf("%s = %q, want %q", name, got[name], w)
		}
	}
	if _, exists := got["load_5m"]; exists {
		t.Error("windows pattern exposes load_5m")
	}
}

func TestUnixWhoPattern(t *testing.T) {
	unix, _ := defaultSpecs(t)

	tests := []struct {
		input string
		want  Captures
	}{
		{
			input: "alice    pts/0        2024-03-04 14:30 (10.0.0.7)",
			want:  Captures{"user": "alice", "term": "pts/0", "datetime": "2024-03-04 14:30", "host": "10.0.0.7"},
		},
		{
			input: "root     tty1         2024-03-04 09:02",
			want:  Captures{"user": "root", "term": "tty1", "datetime": "2024-03-04 09:02", "host": ""},
		},
		{
			input: "alice    console  Mar  4 14:30",
			want:  Captures{"user": "alice", "term": "console", "datetime": "Mar  4 14:30", "host": ""},
		},
		{
			input: "carol    pts/3        2024-03-04 14:30 (:0)",
			want:  Captures{"user": "carol", "term": "pts/3", "datetime": "2024-03-04 14:30", "host": ":0"},
		},
		{
			input: "bob      pts/1        2024-03-04 14:31 (tmux(1234).%0)",
			want:  Captures{"user": "bob", "term": "pts/1", "datetime": "2024-03-04 14:31", "host": "tmux(1234).%0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := matchOnce(unix.Who.Pattern, tt.input)
			if !ok {
				t.Fatalf("pattern did not match %q", tt.input)
			}
			for name, want := range tt.want {
				if got[name] != want {
					t.Errorf("%s = %q, want %q", name, got[name], want)
				}
			}
		})
	}

	for _, bad := range []string{"malformed", "alice pts/0", "alice pts/0 yesterday"} {
		if _, ok := matchOnce(unix.Who.Pattern, bad); ok {
			t.Errorf("pattern matched %q", bad)
		}
	}
}

func TestWindowsWhoPattern(t *testing.T) {
	_, windows := defaultSpecs(t)

	line := quserLine(">", "administrator", "console", "1  Active      none", "3/4/2024 2:30 PM")
	got, ok := matchOnce(windows.Who.Pattern, line)
	if !ok {
		t.Fatalf("pattern did not match %q", line)
	}
	if u := got.Text("user"); u != "administrator" {
		t.Errorf("user = %q, want administrator", u)
	}
	if term := got.Text("term"); term != "console" {
		t.Errorf("term = %q, want console", term)
	}
	if dt := got.Text("datetime"); dt != "3/4/2024 2:30 PM" {
		t.Errorf("datetime = %q, want 3/4/2024 2:30 PM", dt)
	}

	if _, ok := matchOnce(windows.Who.Pattern, "No User exists for *"); ok {
		t.Error("pattern matched an error message")
	}
}

func TestMatchLines(t *testing.T) {
	unix, _ := defaultSpecs(t)

	text := "a t1 2024-03-04 10:00\n\nb t2 2024-03-04 11:00\r\nnoise\rc t3 2024-03-04 12:00\n\rd t4 2024-03-04 13:00"
	got := matchLines(unix.Who.Pattern, text)
	var users []string
	for _, c := range got {
		users = append(users, c["user"])
	}
	if strings.Join(users, ",") != "a,b,c,d" {
		t.Errorf("matched users = %v, want [a b c d]", users)
	}
}

func TestCapturesConversions(t *testing.T) {
	c := Captures{"n": " 42 ", "f": "1.5", "bad": "x", "empty": ""}

	if got := c.Int("n"); got != 42 {
		t.Errorf("Int(n) = %d, want 42", got)
	}
	if got := c.Int("bad"); got != 0 {
		t.Errorf("Int(bad) = %d, want 0", got)
	}
	if got := c.Int("missing"); got != 0 {
		t.Errorf("Int(missing) = %d, want 0", got)
	}
	if got := c.Float("f"); got != 1.5 {
		t.Errorf("Float(f) = %v, want 1.5", got)
	}
	if got := c.Float("empty"); got != 0 {
		t.Errorf("Float(empty) = %v, want 0", got)
	}
	if got := c.Text("n"); got != "42" {
		t.Errorf("Text(n) = %q, want 42", got)
	}
}

func TestCompileTablesFallback(t *testing.T) {
	doc := `
operations:
  uptime:
    unix:
      pattern: '(?P<system_time>\S+) (?P<users>\d+) (?P<load_1m>\S+) (?P<load_5m>\S+) (?P<load_15m>\S+)'
  who:
    unix:
      command: who -u
      pattern: '(?P<user>\S+) (?P<term>\S+) (?P<datetime>.+)'
`
	tables, err := CompileTables([]byte(doc))
	if err != nil {
		t.Fatalf("CompileTables failed: %v", err)
	}
	win := tables.For(Windows)
	if win.Uptime.Command != "uptime" || win.Who.Command != "who -u" {
		t.Errorf("windows commands = %q, %q, want unix fallback", win.Uptime.Command, win.Who.Command)
	}

	if _, err := CompileTables([]byte("operations: {}")); err == nil {
		t.Error("CompileTables accepted an empty document")
	}
}
