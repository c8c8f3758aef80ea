package activedirectory

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"f0oster/adsyntax/activedirectory/schema"
	"f0oster/adsyntax/activedirectory/transformers"

	"github.com/go-ldap/ldap/v3"
	"github.com/google/uuid"
)

// Parser handles conversion of LDAP entries to ActiveDirectoryObjects.
type Parser struct {
	schemaRegistry *schema.SchemaRegistry
	logger         *slog.Logger
}

func NewParser(schemaRegistry *schema.SchemaRegistry, logger *slog.Logger) *Parser {
	if schemaRegistry == nil {
		schemaRegistry = schema.NewSchemaRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		schemaRegistry: schemaRegistry,
		logger:         logger,
	}
}

// ParseResult represents the result of parsing a single LDAP entry.
// It contains either a successfully parsed object or an error.
type ParseResult struct {
	Object *ActiveDirectoryObject
	DN     string // Always populated for error reporting
	Error  error
}

// ParseEntries processes multiple LDAP entries and returns results for each.
// All entries get a ParseResult - either with Object or Error populated.
func (p *Parser) ParseEntries(entries []*ldap.Entry) []*ParseResult {
	results := make([]*ParseResult, 0, len(entries))

	for _, entry := range entries {
		obj, err := p.ParseEntry(entry)
		result := &ParseResult{
			DN: entry.DN,
		}

		if err != nil {
			result.Error = err
		} else {
			result.Object = obj
		}

		results = append(results, result)
	}

	return results
}

// ParseEntry converts a single LDAP entry, turning every attribute into native values.
func (p *Parser) ParseEntry(entry *ldap.Entry) (*ActiveDirectoryObject, error) {
	obj := &ActiveDirectoryObject{
		DN:              entry.DN,
		AttributeValues: make(map[string]*AttributeValue, len(entry.Attributes)),
	}

	for _, attr := range entry.Attributes {
		parsed, err := p.ParseAttribute(attr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse attribute %s of %s: %w", attr.Name, entry.DN, err)
		}

		switch strings.ToLower(attr.Name) {
		case "objectclass":
			// most specific class is last
			if n := len(attr.Values); n > 0 {
				obj.PrimaryObjectClass = attr.Values[n-1]
			}
		case "objectguid":
			if len(parsed.Values) == 0 {
				break
			}
			guid, err := As[string](parsed)
			if err != nil {
				return nil, fmt.Errorf("objectGUID of %s: %w", entry.DN, err)
			}
			if obj.ObjectGUID, err = uuid.Parse(guid); err != nil {
				return nil, fmt.Errorf("objectGUID of %s: %w", entry.DN, err)
			}
		}

		obj.AttributeValues[attr.Name] = parsed
	}

	return obj, nil
}

// ParseAttribute converts the raw values of one attribute. Values left
// untouched by the conversion engine are surfaced as strings, base64-encoded
// when they are not valid UTF-8.
func (p *Parser) ParseAttribute(attr *ldap.EntryAttribute) (*AttributeValue, error) {
	attributeSchema, known := p.schemaRegistry.GetAttributeSchema(attr.Name)
	if !known {
		if _, overridden := transformers.OverrideFor(attr.Name); !overridden {
			p.logger.Debug("attribute_not_in_schema", slog.String("attribute", attr.Name))
		}
	}

	values, err := transformers.ToNativeBytes(p.schemaRegistry, attr.Name, attr.ByteValues)
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = bytesToText(b)
		}
	}

	return &AttributeValue{
		Name:         attr.Name,
		Schema:       attributeSchema,
		LDAPRawValue: attr.Values,
		Values:       values,
	}, nil
}

func bytesToText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}
