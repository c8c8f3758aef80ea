package transformers

import (
	"fmt"
	"strconv"
	"strings"
)

// TransformFunc converts a single value in one direction.
type TransformFunc func(value any) (any, error)

var toWireTransforms = map[Method]TransformFunc{
	MethodBool:            boolToWire,
	MethodObject:          objectToWire,
	MethodTimestamp:       timestampToWire,
	MethodUTCTime:         ldapTimeToWire(MethodUTCTime),
	MethodGeneralisedTime: ldapTimeToWire(MethodGeneralisedTime),
	MethodGUID:            guidToWire,
	MethodUnicodePwd:      unicodePwdToWire,
}

var toNativeTransforms = map[Method]TransformFunc{
	MethodBool:            boolToNative,
	MethodBinary:          binaryToNative,
	MethodTimestamp:       timestampToNative,
	MethodUTCTime:         ldapTimeToNative(MethodUTCTime),
	MethodGeneralisedTime: ldapTimeToNative(MethodGeneralisedTime),
	MethodGUID:            guidToNative,
}

// TransformFor returns the transform registered for method in the given
// direction. Methods without a transform in that direction pass values through.
func TransformFor(direction Direction, method Method) (TransformFunc, bool) {
	var fn TransformFunc
	var ok bool
	switch direction {
	case ToWireDirection:
		fn, ok = toWireTransforms[method]
	case ToNativeDirection:
		fn, ok = toNativeTransforms[method]
	}
	return fn, ok
}

// Convert resolves the transform for attributeName and applies it to every
// value, preserving order and count. Attributes with no resolvable transform
// are returned unchanged. The first value that fails to convert aborts the
// call; no partial result is returned.
func Convert(lookup SchemaLookup, direction Direction, attributeName string, values []any) ([]any, error) {
	method := ResolveMethod(lookup, attributeName)
	fn, ok := TransformFor(direction, method)
	if !ok {
		return values, nil
	}

	converted := make([]any, len(values))
	for i, v := range values {
		out, err := fn(v)
		if err != nil {
			return nil, fmt.Errorf("%s conversion of %s value %d: %w", direction, attributeName, i, err)
		}
		converted[i] = out
	}
	return converted, nil
}

// ToWire converts native values of attributeName into their wire form.
func ToWire(lookup SchemaLookup, attributeName string, values ...any) ([]any, error) {
	return Convert(lookup, ToWireDirection, attributeName, values)
}

// ToNative converts wire values of attributeName into native Go values.
func ToNative(lookup SchemaLookup, attributeName string, values ...any) ([]any, error) {
	return Convert(lookup, ToNativeDirection, attributeName, values)
}

// ToNativeBytes is ToNative for the raw byte values carried by an ldap.EntryAttribute.
func ToNativeBytes(lookup SchemaLookup, attributeName string, raw [][]byte) ([]any, error) {
	values := make([]any, len(raw))
	for i, b := range raw {
		values[i] = b
	}
	return Convert(lookup, ToNativeDirection, attributeName, values)
}

// ToWireStrings converts native values and renders them as the string values
// go-ldap requests carry.
func ToWireStrings(lookup SchemaLookup, attributeName string, values ...any) ([]string, error) {
	converted, err := ToWire(lookup, attributeName, values...)
	if err != nil {
		return nil, err
	}

	result := make([]string, len(converted))
	for i, v := range converted {
		result[i] = wireString(v)
	}
	return result, nil
}

func wireString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strings.ToUpper(strconv.FormatBool(val))
	case ObjectReference:
		return val.DistinguishedName()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
