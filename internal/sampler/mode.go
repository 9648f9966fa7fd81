package sampler

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Mode selects how a block of source pixels is reduced to one colour.
type Mode int

const (
	// ModeAverage takes the mean colour of the opaque pixels (default).
	ModeAverage Mode = iota

	// ModeDominant takes the most frequent quantised colour.
	ModeDominant
)

// String returns the flag and config name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAverage:
		return "average"
	case ModeDominant:
		return "dominant"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ValidModes returns every sampling mode.
func ValidModes() []Mode {
	return []Mode{ModeAverage, ModeDominant}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range ValidModes() {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ModeAverage, fmt.Errorf("invalid sampling mode: %s (valid: average, dominant)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ModeFlag adapts a Mode to a command-line flag.
type ModeFlag struct {
	Mode *Mode
}

var _ pflag.Value = ModeFlag{}

func (f ModeFlag) String() string {
	if f.Mode == nil {
		return ModeAverage.String()
	}
	return f.Mode.String()
}

// Set parses the flag value.
func (f ModeFlag) Set(s string) error {
	return f.Mode.UnmarshalText([]byte(s))
}

// Type names the flag value type in help output.
func (f ModeFlag) Type() string {
	return "mode"
}
