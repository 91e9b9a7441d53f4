package profile

import (
	"errors"
	"os"
	"strings"

	"sysprofile/internal/config"
)

// Family is the coarse platform classification that selects commands and
// patterns.
type Family int

// Supported OS families.
const (
	Unix Family = iota
	Windows

	familyCount
)

// ErrUntestedPlatform is returned by CheckOS for OS variants that have not
// been tested. It is a warning: queries still run.
var ErrUntestedPlatform = errors.New("sysprofile has not been tested with Cygwin")

// DetectFamily derives the family from a raw OS identifier such as
// runtime.GOOS or uname -s output.
func DetectFamily(rawOS string) Family {
	if osPrefix(rawOS) == "WIN" {
		return Windows
	}
	return Unix
}

// CheckOS reports ErrUntestedPlatform when rawOS names a Cygwin environment.
func CheckOS(rawOS string) error {
	if osPrefix(rawOS) == "CYG" {
		return ErrUntestedPlatform
	}
	return nil
}

func osPrefix(rawOS string) string {
	if len(rawOS) > 3 {
		rawOS = rawOS[:3]
	}
	return strings.ToUpper(rawOS)
}

// String returns the family name.
func (f Family) String() string {
	switch f {
	case Windows:
		return "windows"
	default:
		return "unix"
	}
}

// key returns the family key used in the command tables.
func (f Family) key() string {
	if f == Windows {
		return config.FamilyWindows
	}
	return config.FamilyUnix
}

// shell returns the interpreter used to run table commands.
func (f Family) shell() []string {
	if f == Windows {
		return []string{"cmd", "/C"}
	}
	return []string{"sh", "-c"}
}

// env returns the environment for table commands. Unix utilities run in the
// C locale so numbers use a decimal point and dates use English month names.
func (f Family) env() []string {
	if f == Windows {
		return os.Environ()
	}
	return append(os.Environ(), "LC_ALL=C")
}
