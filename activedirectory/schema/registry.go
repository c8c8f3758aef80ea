package schema

import (
	"sort"
	"strings"
	"sync"
)

type syntaxKey struct {
	attributeSyntax string
	oMSyntax        string
}

// See MS documentation: https://learn.microsoft.com/en-us/windows/win32/adschema/syntaxes
var syntaxTable = map[syntaxKey]SyntaxClass{
	// Boolean
	{"2.5.5.8", "1"}: SyntaxBoolean,

	// Integer types
	{"2.5.5.9", "2"}:   SyntaxInteger,
	{"2.5.5.9", "10"}:  SyntaxInteger, // Enumeration
	{"2.5.5.16", "65"}: SyntaxLargeInteger,

	// Object(DS-DN)
	{"2.5.5.1", "127"}: SyntaxDNReference,

	// String representations
	{"2.5.5.12", "64"}: SyntaxUnicodeString,
	{"2.5.5.4", "20"}:  SyntaxTeletexString,
	{"2.5.5.5", "19"}:  SyntaxPrintableString,
	{"2.5.5.5", "22"}:  SyntaxPrintableString, // IA5
	{"2.5.5.6", "18"}:  SyntaxNumericString,

	// Octet / Binary blobs
	{"2.5.5.10", "4"}:   SyntaxBinary,
	{"2.5.5.10", "127"}: SyntaxBinary, // Replica-Link
	{"2.5.5.15", "66"}:  SyntaxBinary, // NT-Sec-Desc
	{"2.5.5.17", "4"}:   SyntaxBinary, // SID

	// Time
	{"2.5.5.11", OMSyntaxUTCTime}:         SyntaxStructuredTime,
	{"2.5.5.11", OMSyntaxGeneralizedTime}: SyntaxStructuredTime,
}

// ClassifySyntax maps an attributeSyntax OID and oMSyntax code to its SyntaxClass.
// Syntaxes outside the known set (Object-Identifier, DN-Binary, Presentation-Address, ...)
// are SyntaxUnknown.
func ClassifySyntax(attributeSyntax, oMSyntax string) SyntaxClass {
	if class, ok := syntaxTable[syntaxKey{attributeSyntax, oMSyntax}]; ok {
		return class
	}
	return SyntaxUnknown
}

// SchemaRegistry is the in-memory schema cache. Attribute names are matched
// case-insensitively, as the directory does.
type SchemaRegistry struct {
	mu               sync.RWMutex
	attributeSchemas map[string]*AttributeSchema // lowercased lDAPDisplayName
}

func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		attributeSchemas: make(map[string]*AttributeSchema),
	}
}

// RegisterAttributeSchema stores the schema, classifying its syntax when the
// caller did not.
func (r *SchemaRegistry) RegisterAttributeSchema(schema *AttributeSchema) {
	if schema.SyntaxClass == SyntaxUnknown {
		schema.SyntaxClass = ClassifySyntax(schema.AttributeSyntax, schema.AttributeOMSyntax)
	}

	r.mu.Lock()
	r.attributeSchemas[strings.ToLower(schema.AttributeLDAPName)] = schema
	r.mu.Unlock()
}

func (r *SchemaRegistry) GetAttributeSchema(ldapName string) (*AttributeSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.attributeSchemas[strings.ToLower(ldapName)]
	return schema, ok
}

// LookupSyntax returns the syntax of the named attribute, or false when the
// attribute is not in the schema. A nil registry knows no attributes.
func (r *SchemaRegistry) LookupSyntax(ldapName string) (SyntaxInfo, bool) {
	if r == nil {
		return SyntaxInfo{}, false
	}
	schema, ok := r.GetAttributeSchema(ldapName)
	if !ok {
		return SyntaxInfo{}, false
	}
	return schema.SyntaxInfo(), true
}

func (r *SchemaRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attributeSchemas)
}

// AttributeSchemas returns every registered schema ordered by lDAPDisplayName.
func (r *SchemaRegistry) AttributeSchemas() []*AttributeSchema {
	r.mu.RLock()
	schemas := make([]*AttributeSchema, 0, len(r.attributeSchemas))
	for _, s := range r.attributeSchemas {
		schemas = append(schemas, s)
	}
	r.mu.RUnlock()

	sort.Slice(schemas, func(i, j int) bool {
		return strings.ToLower(schemas[i].AttributeLDAPName) < strings.ToLower(schemas[j].AttributeLDAPName)
	})
	return schemas
}
