package profile

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"sysprofile/internal/config"
)

//go:embed commands.yaml
var defaultCommands []byte

// Spec is a resolved command and its compiled output pattern.
type Spec struct {
	Command string
	Pattern *regexp.Regexp
}

// FamilyTable holds the specs for every operation of one family.
type FamilyTable struct {
	Uptime Spec
	Who    Spec
}

// Tables is the compiled command table, indexed by family. Every family has
// a complete entry, so lookups never fall back at query time.
type Tables struct {
	families [familyCount]FamilyTable
}

var defaultTables = sync.OnceValues(func() (*Tables, error) {
	return CompileTables(defaultCommands)
})

// DefaultTables returns the tables built from the embedded commands.yaml.
func DefaultTables() (*Tables, error) {
	return defaultTables()
}

// CompileTables loads a command table document and compiles its patterns.
func CompileTables(data []byte) (*Tables, error) {
	cfg, err := config.Load(data)
	if err != nil {
		return nil, err
	}

	t := &Tables{}
	for f := range familyCount {
		uptime, err := compileSpec(cfg, config.OpUptime, f)
		if err != nil {
			return nil, err
		}
		who, err := compileSpec(cfg, config.OpWho, f)
		if err != nil {
			return nil, err
		}
		t.families[f] = FamilyTable{Uptime: uptime, Who: who}
	}
	return t, nil
}

func compileSpec(cfg *config.Tables, op string, f Family) (Spec, error) {
	rule := cfg.Rule(op, f.key())
	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return Spec{}, fmt.Errorf("operation %q (%s): %w", op, f, err)
	}
	return Spec{Command: rule.Command, Pattern: re}, nil
}

// For returns the table for a family.
func (t *Tables) For(f Family) FamilyTable {
	if f < 0 || f >= familyCount {
		f = Unix
	}
	return t.families[f]
}
