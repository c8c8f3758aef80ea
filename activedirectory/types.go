package activedirectory

import (
	"fmt"

	"f0oster/adsyntax/activedirectory/schema"

	"github.com/google/uuid"
)

// AttributeValue is a runtime-loaded attribute of a specific object, holding
// both the wire values and their native conversion.
type AttributeValue struct {
	Name         string                  `json:"name"`
	Schema       *schema.AttributeSchema `json:"-"`
	LDAPRawValue []string                `json:"-"`
	Values       []any                   `json:"values"`
}

// First returns the first native value, or nil for an empty attribute.
func (a *AttributeValue) First() any {
	if len(a.Values) > 0 {
		return a.Values[0]
	}
	return nil
}

// As returns the first native value of attr as T.
func As[T any](attr *AttributeValue) (T, error) {
	var zero T
	if attr == nil || len(attr.Values) == 0 {
		return zero, nil
	}
	cast, ok := attr.Values[0].(T)
	if !ok {
		return zero, fmt.Errorf("%s: expected %T, got %T", attr.Name, zero, attr.Values[0])
	}
	return cast, nil
}

// AsSlice returns every native value of attr as T.
func AsSlice[T any](attr *AttributeValue) ([]T, error) {
	if attr == nil {
		return nil, nil
	}
	result := make([]T, 0, len(attr.Values))
	for i, raw := range attr.Values {
		val, ok := raw.(T)
		if !ok {
			return nil, fmt.Errorf("%s at index %d: expected %T, got %T", attr.Name, i, *new(T), raw)
		}
		result = append(result, val)
	}
	return result, nil
}

type ActiveDirectoryObject struct {
	DN                 string                     `json:"dn"`
	ObjectGUID         uuid.UUID                  `json:"object_guid"`
	PrimaryObjectClass string                     `json:"object_class"`
	AttributeValues    map[string]*AttributeValue `json:"attributes"`
}

// DistinguishedName lets an object be written into DN-valued attributes.
func (o *ActiveDirectoryObject) DistinguishedName() string {
	if o == nil {
		return ""
	}
	return o.DN
}

// Get looks up an attribute by its name as returned by the directory.
func (o *ActiveDirectoryObject) Get(name string) (*AttributeValue, bool) {
	attr, ok := o.AttributeValues[name]
	return attr, ok
}

// NativeValues returns the attribute map as plain native value slices.
func (o *ActiveDirectoryObject) NativeValues() map[string][]any {
	values := make(map[string][]any, len(o.AttributeValues))
	for name, attr := range o.AttributeValues {
		values[name] = attr.Values
	}
	return values
}
