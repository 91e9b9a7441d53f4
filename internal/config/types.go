// Package config defines the command table configuration for sysprofile.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Family keys accepted in the command tables.
const (
	FamilyUnix    = "unix"
	FamilyWindows = "windows"
)

// Operation names.
const (
	OpUptime = "uptime"
	OpWho    = "who"
)

// Operations lists every operation a command table must define.
var Operations = []string{OpUptime, OpWho}

// requiredGroups lists the named captures each operation's pattern must
// expose, per family key.
var requiredGroups = map[string]map[string][]string{
	OpUptime: {
		FamilyUnix:    {"system_time", "users", "load_1m", "load_5m", "load_15m"},
		FamilyWindows: {"system_time", "start_time", "load_1m"},
	},
	OpWho: {
		FamilyUnix:    {"user", "term", "datetime"},
		FamilyWindows: {"user", "term", "datetime"},
	},
}

// Tables represents the complete command table document.
type Tables struct {
	Operations map[string]OperationDefinition `yaml:"operations"`
}

// OperationDefinition maps family keys to rules.
// The key can be:
// - A family name: "unix" or "windows"
// - A comma-separated list like "unix,windows"
// "unix" is the fallback for families without an entry.
type OperationDefinition map[string]Rule

// Rule is the command to run and the pattern used to read its output.
type Rule struct {
	Command string `yaml:"command,omitempty"` // Shell command; defaults to the operation name
	Pattern string `yaml:"pattern"`           // Regex with named captures
}

// Load decodes and validates a command table document.
func Load(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse command tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every operation has a unix rule and that all patterns
// compile and expose the captures the parser reads.
func (t *Tables) Validate() error {
	if len(t.Operations) == 0 {
		return errors.New("command tables define no operations")
	}
	for name := range t.Operations {
		if !slices.Contains(Operations, name) {
			return fmt.Errorf("unknown operation %q", name)
		}
	}
	for _, op := range Operations {
		def, exists := t.Operations[op]
		if !exists {
			return fmt.Errorf("operation %q is not defined", op)
		}
		for key := range def {
			for part := range strings.SplitSeq(key, ",") {
				if p := strings.TrimSpace(part); p != FamilyUnix && p != FamilyWindows {
					return fmt.Errorf("operation %q: unknown family %q", op, p)
				}
			}
		}
		if _, ok := def.exact(FamilyUnix); !ok {
			return fmt.Errorf("operation %q has no %s rule", op, FamilyUnix)
		}
		// Fallback rules are checked as the unix rule they resolve to
		for _, family := range []string{FamilyUnix, FamilyWindows} {
			rule, ok := def.exact(family)
			if !ok {
				continue
			}
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return fmt.Errorf("operation %q (%s): invalid pattern: %w", op, family, err)
			}
			if rule.Command == "" && family != FamilyUnix {
				return fmt.Errorf("operation %q (%s): empty command", op, family)
			}
			names := re.SubexpNames()
			for _, group := range requiredGroups[op][family] {
				if !slices.Contains(names, group) {
					return fmt.Errorf("operation %q (%s): pattern lacks named group %q", op, family, group)
				}
			}
		}
	}
	return nil
}

// RuleForFamily returns the rule for a family key.
// Priority order:
// 1. Exact family match (e.g., "windows")
// 2. Comma-separated match (e.g., "unix,windows")
// 3. The "unix" rule.
// Unix rules without a command use the operation name, so callers must use
// Tables.Rule to get that default applied.
func (od OperationDefinition) RuleForFamily(family string) Rule {
	if rule, ok := od.exact(family); ok {
		return rule
	}
	if family != FamilyUnix {
		if rule, ok := od.exact(FamilyUnix); ok {
			return rule
		}
	}
	return Rule{}
}

// exact looks up a family by its own key or within a comma-separated key.
func (od OperationDefinition) exact(family string) (Rule, bool) {
	if rule, ok := od[family]; ok {
		return rule, true
	}
	for key, rule := range od {
		if !strings.Contains(key, ",") {
			continue
		}
		for part := range strings.SplitSeq(key, ",") {
			if strings.TrimSpace(part) == family {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

// Rule returns the resolved rule for an operation and family key.
func (t *Tables) Rule(op, family string) Rule {
	rule := t.Operations[op].RuleForFamily(family)
	if rule.Command == "" {
		rule.Command = op
	}
	return rule
}
