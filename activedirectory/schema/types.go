package schema

// SyntaxClass is the protocol-level encoding family an attribute is declared with.
type SyntaxClass int

const (
	SyntaxUnknown SyntaxClass = iota
	SyntaxBinary
	SyntaxBoolean
	SyntaxDNReference
	SyntaxInteger
	SyntaxLargeInteger
	SyntaxUnicodeString
	SyntaxTeletexString
	SyntaxPrintableString
	SyntaxNumericString
	SyntaxStructuredTime
)

var syntaxClassNames = map[SyntaxClass]string{
	SyntaxUnknown:         "Unknown",
	SyntaxBinary:          "Binary",
	SyntaxBoolean:         "Boolean",
	SyntaxDNReference:     "DnReference",
	SyntaxInteger:         "Integer",
	SyntaxLargeInteger:    "LargeInteger",
	SyntaxUnicodeString:   "UnicodeString",
	SyntaxTeletexString:   "TeletexString",
	SyntaxPrintableString: "PrintableString",
	SyntaxNumericString:   "NumericString",
	SyntaxStructuredTime:  "StructuredTime",
}

func (c SyntaxClass) String() string {
	if name, ok := syntaxClassNames[c]; ok {
		return name
	}
	return "Unknown"
}

// oMSyntax codes distinguishing the two String(*-Time) encodings.
const (
	OMSyntaxUTCTime         = "23"
	OMSyntaxGeneralizedTime = "24"
)

// SyntaxInfo is what the registry knows about an attribute's encoding.
// SubSyntax carries the oMSyntax code and is only meaningful for SyntaxStructuredTime.
type SyntaxInfo struct {
	Class     SyntaxClass
	SubSyntax string
}

// AttributeSchema holds schema information for a directory attribute,
// as read from its attributeSchema object.
type AttributeSchema struct {
	AttributeName           string
	AttributeLDAPName       string
	AttributeID             string
	AttributeSyntax         string
	AttributeOMSyntax       string
	AttributeIsSingleValued bool
	SyntaxClass             SyntaxClass
}

// SyntaxInfo returns the lookup view of the attribute schema.
func (s *AttributeSchema) SyntaxInfo() SyntaxInfo {
	return SyntaxInfo{Class: s.SyntaxClass, SubSyntax: s.AttributeOMSyntax}
}
