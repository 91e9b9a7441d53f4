package profile

import (
	"regexp"
	"strconv"
	"strings"
)

// Captures maps named pattern groups to the text they matched. Groups that
// did not take part in a match map to "".
type Captures map[string]string

// lineBreaks splits output on any newline variant.
var lineBreaks = regexp.MustCompile(`\r\n|\n\r|\n|\r`)

// matchOnce applies re to the whole text.
func matchOnce(re *regexp.Regexp, text string) (Captures, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	c := make(Captures, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" {
			c[name] = m[i]
		}
	}
	return c, true
}

// matchLines applies re to every non-empty line of text, skipping lines that
// do not match.
func matchLines(re *regexp.Regexp, text string) []Captures {
	var out []Captures
	for _, line := range lineBreaks.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if c, ok := matchOnce(re, line); ok {
			out = append(out, c)
		}
	}
	return out
}

// Int returns the named capture as an integer, or 0 when it is empty or not
// a number.
func (c Captures) Int(name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c[name]))
	if err != nil {
		return 0
	}
	return n
}

// Float returns the named capture as a float, or 0 when it is empty or not a
// number.
func (c Captures) Float(name string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(c[name]), 64)
	if err != nil {
		return 0
	}
	return f
}

// Text returns the named capture with surrounding whitespace removed.
func (c Captures) Text(name string) string {
	return strings.TrimSpace(c[name])
}
