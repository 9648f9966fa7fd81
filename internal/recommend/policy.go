package recommend

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Policy selects which incomplete region to recommend next.
type Policy int

const (
	// Nearest picks the region with the cell closest to the reference point.
	Nearest Policy = iota
	// Largest picks the region with the most cells.
	Largest
	// EdgeFirst picks the first region touching the grid border.
	EdgeFirst
)

var policyNames = map[Policy]string{
	Nearest:   "nearest",
	Largest:   "largest",
	EdgeFirst: "edge-first",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ValidPolicies returns every policy in declaration order.
func ValidPolicies() []Policy {
	return []Policy{Nearest, Largest, EdgeFirst}
}

// ParsePolicy converts a policy name to a Policy. Matching is case-insensitive
// and accepts "edge_first" and "edgefirst" as aliases.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return Nearest, nil
	case "largest":
		return Largest, nil
	case "edge-first", "edge_first", "edgefirst":
		return EdgeFirst, nil
	}
	return Nearest, fmt.Errorf("invalid policy %q (valid: nearest, largest, edge-first)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, fmt.Errorf("invalid policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PolicyFlag adapts a Policy to pflag.Value.
type PolicyFlag struct {
	Policy *Policy
}

var _ pflag.Value = PolicyFlag{}

func (f PolicyFlag) String() string {
	if f.Policy == nil {
		return Nearest.String()
	}
	return f.Policy.String()
}

// Set parses s into the wrapped policy.
func (f PolicyFlag) Set(s string) error {
	p, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*f.Policy = p
	return nil
}

// Type names the flag value in help output.
func (f PolicyFlag) Type() string {
	return "policy"
}
