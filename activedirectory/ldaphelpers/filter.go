package ldaphelpers

import (
	"errors"
	"fmt"
	"strings"

	"f0oster/adsyntax/activedirectory/transformers"

	"github.com/go-ldap/ldap/v3"
)

// ErrNoValues is returned when a disjunction is built from an empty value list;
// Active Directory rejects the empty (|) filter.
var ErrNoValues = errors.New("no values to match")

type Filter interface {
	String() string
}

type rawFilter string

func (f rawFilter) String() string {
	return string(f)
}

// Logical operators
type andFilter struct {
	parts []Filter
}

func And(filters ...Filter) Filter {
	return andFilter{parts: filters}
}

func (f andFilter) String() string {
	return "(&" + joinFilters(f.parts) + ")"
}

type orFilter struct {
	parts []Filter
}

func Or(filters ...Filter) Filter {
	return orFilter{parts: filters}
}

func (f orFilter) String() string {
	return "(|" + joinFilters(f.parts) + ")"
}

type notFilter struct {
	part Filter
}

func Not(f Filter) Filter {
	return notFilter{part: f}
}

func (f notFilter) String() string {
	return "(!" + f.part.String() + ")"
}

func joinFilters(filters []Filter) string {
	var sb strings.Builder
	for _, p := range filters {
		sb.WriteString(p.String())
	}
	return sb.String()
}

type geFilter struct {
	attr  string
	value int64
}

func (f geFilter) String() string {
	return fmt.Sprintf("(%s>=%d)", f.attr, f.value)
}

func Ge(attr string, value int64) Filter {
	return geFilter{attr: attr, value: value}
}

// Eq builds an equality filter from an already encoded assertion value.
// Callers holding native values should use EqValue.
func Eq(attr, value string) Filter {
	return rawFilter("(" + attr + "=" + value + ")")
}

func Present(attr string) Filter {
	return rawFilter("(" + attr + "=*)")
}

// EqValue builds an equality filter from a native value, converting it to
// its wire form first.
func EqValue(lookup transformers.SchemaLookup, attr string, value any) (Filter, error) {
	return compareValue(lookup, attr, "=", value)
}

// GeValue builds attr>=value from a native value.
func GeValue(lookup transformers.SchemaLookup, attr string, value any) (Filter, error) {
	return compareValue(lookup, attr, ">=", value)
}

// LeValue builds attr<=value from a native value.
func LeValue(lookup transformers.SchemaLookup, attr string, value any) (Filter, error) {
	return compareValue(lookup, attr, "<=", value)
}

// AnyOf matches entries where attr equals any of the native values.
func AnyOf(lookup transformers.SchemaLookup, attr string, values ...any) (Filter, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("building filter for %s: %w", attr, ErrNoValues)
	}
	parts := make([]Filter, 0, len(values))
	for _, v := range values {
		f, err := EqValue(lookup, attr, v)
		if err != nil {
			return nil, err
		}
		parts = append(parts, f)
	}
	return Or(parts...), nil
}

func compareValue(lookup transformers.SchemaLookup, attr, op string, value any) (Filter, error) {
	wire, err := transformers.ToWireStrings(lookup, attr, value)
	if err != nil {
		return nil, fmt.Errorf("building filter for %s: %w", attr, err)
	}

	var assertion string
	switch transformers.ResolveMethod(lookup, attr) {
	case transformers.MethodGUID, transformers.MethodBinary:
		assertion = EscapeBytes([]byte(wire[0]))
	default:
		assertion = ldap.EscapeFilter(wire[0])
	}
	return rawFilter("(" + attr + op + assertion + ")"), nil
}

// EscapeBytes hex-escapes every byte, the form binary assertion values take in a filter.
func EscapeBytes(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for _, c := range b {
		fmt.Fprintf(&sb, "\\%02x", c)
	}
	return sb.String()
}
