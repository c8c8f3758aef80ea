package transformers

import (
	"strings"

	"f0oster/adsyntax/activedirectory/schema"
)

// Direction selects which way a value is converted.
type Direction int

const (
	ToWireDirection Direction = iota
	ToNativeDirection
)

func (d Direction) String() string {
	if d == ToWireDirection {
		return "to-wire"
	}
	return "to-native"
}

// Method names a transform. MethodNone means values pass through unchanged.
type Method string

const (
	MethodNone            Method = ""
	MethodBool            Method = "bool"
	MethodBinary          Method = "binary"
	MethodObject          Method = "object"
	MethodTimestamp       Method = "timestamp"
	MethodUTCTime         Method = "utctime"
	MethodGeneralisedTime Method = "generalisedtime"
	MethodGUID            Method = "guid"
	MethodUnicodePwd      Method = "unicodepwd"
)

// SchemaLookup is the schema cache the engine consults. It must be safe for
// concurrent use if Convert is called concurrently.
type SchemaLookup interface {
	LookupSyntax(attributeName string) (schema.SyntaxInfo, bool)
}

// Attributes whose schema syntax is misleading for conversion purposes, or
// which are computed and absent from the schema. Keys are lowercase.
var attributeOverrides = map[string]Method{
	"currenttime":          MethodGeneralisedTime,
	"issynchronized":       MethodBool,
	"isglobalcatalogready": MethodBool,
	"unicodepwd":           MethodUnicodePwd,
	"objectguid":           MethodGUID,
	"msexchmailboxguid":    MethodGUID,
	// large integers holding FILETIME values
	"pwdlastset":     MethodTimestamp,
	"accountexpires": MethodTimestamp,
	"lastlogon":      MethodTimestamp,
	"lockouttime":    MethodTimestamp,
}

func methodForSyntax(info schema.SyntaxInfo) Method {
	switch info.Class {
	case schema.SyntaxBinary:
		return MethodBinary
	case schema.SyntaxBoolean:
		return MethodBool
	case schema.SyntaxDNReference:
		return MethodObject
	case schema.SyntaxStructuredTime:
		switch info.SubSyntax {
		case schema.OMSyntaxUTCTime:
			return MethodUTCTime
		case schema.OMSyntaxGeneralizedTime:
			return MethodGeneralisedTime
		}
	}
	return MethodNone
}

// OverrideFor returns the forced method for an attribute, if it has one.
func OverrideFor(attributeName string) (Method, bool) {
	method, ok := attributeOverrides[strings.ToLower(attributeName)]
	return method, ok
}

// ResolveMethod determines the transform for an attribute: the schema syntax
// picks a default, and the override table wins unconditionally.
func ResolveMethod(lookup SchemaLookup, attributeName string) Method {
	if method, ok := OverrideFor(attributeName); ok {
		return method
	}
	if lookup == nil {
		return MethodNone
	}
	info, ok := lookup.LookupSyntax(attributeName)
	if !ok {
		return MethodNone
	}
	return methodForSyntax(info)
}
