package entity

import (
	"strings"

	"github.com/pkg/errors"
)

// Operator represents a comparison operator.
type Operator int

const (
	Eq       Operator = iota // EQ
	Gt                       // GT
	Lt                       // LT
	Contains                 // C
	Excludes                 // NC
	Regex                    // RGX
)

// Operators lists the operators in display order.
var Operators = []Operator{Eq, Gt, Lt, Contains, Excludes, Regex}

var opKeys = map[Operator]string{
	Eq:       "EQ",
	Gt:       "GT",
	Lt:       "LT",
	Contains: "C",
	Excludes: "NC",
	Regex:    "RGX",
}

var opLabels = map[Operator]string{
	Eq:       "Equals",
	Gt:       "Greater Than",
	Lt:       "Less Than",
	Contains: "Contains",
	Excludes: "Not Contains",
	Regex:    "Regex",
}

// ParseOperator accepts either a key ("NC") or a label ("Not Contains").
func ParseOperator(in string) (op Operator, err error) {

	in = strings.TrimSpace(in)
	for _, op = range Operators {
		if strings.EqualFold(in, opKeys[op]) || strings.EqualFold(in, opLabels[op]) {
			return
		}
	}

	op = Operator(-1)
	err = errors.Errorf("unknown operator %q", in)
	return
}

// Valid reports whether op is one of the known operators.
func (op Operator) Valid() bool {
	_, ok := opKeys[op]
	return ok
}

// String returns the short key.
func (op Operator) String() string {
	key, ok := opKeys[op]
	if !ok {
		return "?"
	}
	return key
}

// Label returns the human readable name.
func (op Operator) Label() string {
	label, ok := opLabels[op]
	if !ok {
		return "Unknown"
	}
	return label
}

// MarshalText encodes op as its key.
func (op Operator) MarshalText() ([]byte, error) {
	if !op.Valid() {
		return nil, errors.Errorf("cannot marshal unknown operator %d", int(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText decodes a key or label.
func (op *Operator) UnmarshalText(text []byte) (err error) {
	parsed, err := ParseOperator(string(text))
	if err != nil {
		return
	}
	*op = parsed
	return
}

// Filter is one comparison term: LeftCondition Operator Value.
// Id only keeps rows stable in a builder and plays no part in evaluation.
type Filter struct {
	Id            string   `yaml:"id,omitempty" json:"id,omitempty"`
	LeftCondition string   `yaml:"field" json:"field"`
	Operator      Operator `yaml:"operator" json:"operator"`
	Value         string   `yaml:"value" json:"value"`
}

// Valid reports whether both field and value are filled in.
// Invalid filters are skipped by the search engine.
func (flt Filter) Valid() bool {
	return strings.TrimSpace(flt.LeftCondition) != "" && strings.TrimSpace(flt.Value) != ""
}
