package activedirectory

import (
	"fmt"
	"sort"

	"f0oster/adsyntax/activedirectory/transformers"
	"f0oster/adsyntax/diff"

	"github.com/go-ldap/ldap/v3"
)

// Writer builds add and modify requests from native values, converting them
// to their wire form with the schema-driven conversion engine.
type Writer struct {
	lookup transformers.SchemaLookup
}

func NewWriter(lookup transformers.SchemaLookup) *Writer {
	return &Writer{lookup: lookup}
}

func (w *Writer) wireValues(attr string, values []any) ([]string, error) {
	wire, err := transformers.ToWireStrings(w.lookup, attr, values...)
	if err != nil {
		return nil, fmt.Errorf("attribute %s: %w", attr, err)
	}
	return wire, nil
}

// ModifyRequest builds the request turning current into desired. Only
// attributes named in desired are considered; an empty value list clears the
// attribute. Values are compared in their wire form, so a reference object and
// its DN string are the same value. It returns nil when nothing changes.
func (w *Writer) ModifyRequest(dn string, current, desired map[string][]any) (*ldap.ModifyRequest, error) {
	scoped := make(map[string][]any, len(desired))
	wanted := make(map[string][]any, len(desired))
	for name, values := range desired {
		wire, err := w.wireValues(name, values)
		if err != nil {
			return nil, err
		}
		wanted[name] = anySlice(wire)

		existing, ok := current[name]
		if !ok {
			continue
		}
		if wire, err := w.wireValues(name, existing); err == nil {
			scoped[name] = anySlice(wire)
		} else {
			scoped[name] = existing
		}
	}

	changes := diff.FindChanges(scoped, wanted)
	if len(changes) == 0 {
		return nil, nil
	}

	req := ldap.NewModifyRequest(dn, nil)
	for _, change := range changes {
		if change.Removed() {
			req.Delete(change.Name, []string{})
			continue
		}
		wire := make([]string, len(change.New))
		for i, v := range change.New {
			wire[i] = v.(string)
		}
		req.Replace(change.Name, wire)
	}
	return req, nil
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ReplaceRequest replaces every value of attr on dn.
func (w *Writer) ReplaceRequest(dn, attr string, values ...any) (*ldap.ModifyRequest, error) {
	wire, err := w.wireValues(attr, values)
	if err != nil {
		return nil, err
	}
	req := ldap.NewModifyRequest(dn, nil)
	req.Replace(attr, wire)
	return req, nil
}

// PasswordResetRequest sets unicodePwd on dn. The directory only accepts it
// over an encrypted connection.
func (w *Writer) PasswordResetRequest(dn, password string) (*ldap.ModifyRequest, error) {
	return w.ReplaceRequest(dn, "unicodePwd", password)
}

// AddRequest builds a request creating dn with the given native attributes.
func (w *Writer) AddRequest(dn string, attributes map[string][]any) (*ldap.AddRequest, error) {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	req := ldap.NewAddRequest(dn, nil)
	for _, name := range names {
		if len(attributes[name]) == 0 {
			continue
		}
		wire, err := w.wireValues(name, attributes[name])
		if err != nil {
			return nil, err
		}
		req.Attribute(name, wire)
	}
	return req, nil
}
