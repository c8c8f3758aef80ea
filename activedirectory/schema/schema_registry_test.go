package schema_test

import (
	"fmt"
	"sync"
	"testing"

	"f0oster/adsyntax/activedirectory/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySyntax(t *testing.T) {
	tests := []struct {
		attributeSyntax string
		oMSyntax        string
		expected        schema.SyntaxClass
	}{
		{"2.5.5.8", "1", schema.SyntaxBoolean},
		{"2.5.5.9", "2", schema.SyntaxInteger},
		{"2.5.5.9", "10", schema.SyntaxInteger},
		{"2.5.5.16", "65", schema.SyntaxLargeInteger},
		{"2.5.5.1", "127", schema.SyntaxDNReference},
		{"2.5.5.10", "4", schema.SyntaxBinary},
		{"2.5.5.17", "4", schema.SyntaxBinary},
		{"2.5.5.12", "64", schema.SyntaxUnicodeString},
		{"2.5.5.4", "20", schema.SyntaxTeletexString},
		{"2.5.5.5", "22", schema.SyntaxPrintableString},
		{"2.5.5.6", "18", schema.SyntaxNumericString},
		{"2.5.5.11", "23", schema.SyntaxStructuredTime},
		{"2.5.5.11", "24", schema.SyntaxStructuredTime},
		{"2.5.5.2", "6", schema.SyntaxUnknown},
		{"2.5.5.99", "999", schema.SyntaxUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.attributeSyntax+"/"+tt.oMSyntax, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.ClassifySyntax(tt.attributeSyntax, tt.oMSyntax))
		})
	}
}

func TestSchemaRegistry_NilLookupSyntax(t *testing.T) {
	var r *schema.SchemaRegistry
	_, ok := r.LookupSyntax("cn")
	assert.False(t, ok)
}

func TestSchemaRegistry_LookupSyntax(t *testing.T) {
	r := schema.NewSchemaRegistry()
	r.RegisterAttributeSchema(&schema.AttributeSchema{
		AttributeName:     "When-Changed",
		AttributeLDAPName: "whenChanged",
		AttributeSyntax:   "2.5.5.11",
		AttributeOMSyntax: "24",
	})

	info, ok := r.LookupSyntax("WHENCHANGED")
	require.True(t, ok)
	assert.Equal(t, schema.SyntaxStructuredTime, info.Class)
	assert.Equal(t, schema.OMSyntaxGeneralizedTime, info.SubSyntax)

	_, ok = r.LookupSyntax("notRegistered")
	assert.False(t, ok)
}

func TestSchemaRegistry_RegisterKeepsExplicitClass(t *testing.T) {
	r := schema.NewSchemaRegistry()
	r.RegisterAttributeSchema(&schema.AttributeSchema{
		AttributeLDAPName: "custom",
		AttributeSyntax:   "2.5.5.2",
		AttributeOMSyntax: "6",
		SyntaxClass:       schema.SyntaxUnicodeString,
	})

	fetched, ok := r.GetAttributeSchema("Custom")
	require.True(t, ok)
	assert.Equal(t, schema.SyntaxUnicodeString, fetched.SyntaxClass)
}

func TestSchemaRegistry_AttributeSchemasSorted(t *testing.T) {
	r := schema.NewSchemaRegistry()
	for _, name := range []string{"sn", "Cn", "objectGUID"} {
		r.RegisterAttributeSchema(&schema.AttributeSchema{AttributeLDAPName: name})
	}

	var names []string
	for _, s := range r.AttributeSchemas() {
		names = append(names, s.AttributeLDAPName)
	}
	assert.Equal(t, []string{"Cn", "objectGUID", "sn"}, names)
	assert.Equal(t, 3, r.Len())
}

func TestSchemaRegistry_ConcurrentAccess(t *testing.T) {
	r := schema.NewSchemaRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("attr%d", i)
			r.RegisterAttributeSchema(&schema.AttributeSchema{AttributeLDAPName: name, AttributeSyntax: "2.5.5.8", AttributeOMSyntax: "1"})
			_, _ = r.LookupSyntax(name)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, r.Len())
	info, ok := r.LookupSyntax("ATTR3")
	require.True(t, ok)
	assert.Equal(t, schema.SyntaxBoolean, info.Class)
}

func TestSyntaxClass_String(t *testing.T) {
	assert.Equal(t, "StructuredTime", schema.SyntaxStructuredTime.String())
	assert.Equal(t, "Unknown", schema.SyntaxClass(42).String())
}
