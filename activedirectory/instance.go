package activedirectory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"f0oster/adsyntax/activedirectory/ldaphelpers"
	"f0oster/adsyntax/activedirectory/schema"
	"f0oster/adsyntax/config"

	"github.com/go-ldap/ldap/v3"
)

var ErrNotConnected = errors.New("not connected to a domain controller")

// directoryConn is the subset of *ldap.Conn the instance uses.
type directoryConn interface {
	Search(*ldap.SearchRequest) (*ldap.SearchResult, error)
	SearchWithPaging(*ldap.SearchRequest, uint32) (*ldap.SearchResult, error)
	Modify(*ldap.ModifyRequest) error
	Add(*ldap.AddRequest) error
	Close() error
}

type ActiveDirectoryInstance struct {
	BaseDn              string
	URL                 string
	PageSize            uint32
	HighestCommittedUSN int64
	SchemaRegistry      *schema.SchemaRegistry
	conn                directoryConn
	logger              *slog.Logger
}

func NewActiveDirectoryInstance(cfg config.Configuration, registry *schema.SchemaRegistry, logger *slog.Logger) *ActiveDirectoryInstance {
	if registry == nil {
		registry = schema.NewSchemaRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActiveDirectoryInstance{
		BaseDn:         cfg.BaseDN,
		URL:            cfg.URL(),
		PageSize:       cfg.PageSize,
		SchemaRegistry: registry,
		logger:         logger,
	}
}

// Connect to the Active Directory Domain Controller
func (ad *ActiveDirectoryInstance) Connect(username, password string) error {
	conn, err := ldap.DialURL(ad.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", ad.URL, err)
	}

	// TODO: IWA/GSSAPI bind
	if err := conn.Bind(username, password); err != nil {
		conn.Close()
		return fmt.Errorf("failed to bind to %s: %w", ad.URL, err)
	}

	res, err := conn.WhoAmI(nil)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to call WhoAmI(): %w", err)
	}

	ad.conn = conn
	ad.logger.Info("connected", slog.String("url", ad.URL), slog.String("authz_id", res.AuthzID))
	return nil
}

func (ad *ActiveDirectoryInstance) Close() error {
	if ad.conn == nil {
		return nil
	}
	err := ad.conn.Close()
	ad.conn = nil
	return err
}

// Parser returns a parser converting entries with this instance's schema.
func (ad *ActiveDirectoryInstance) Parser() *Parser {
	return NewParser(ad.SchemaRegistry, ad.logger)
}

// Writer returns a writer converting values with this instance's schema.
func (ad *ActiveDirectoryInstance) Writer() *Writer {
	return NewWriter(ad.SchemaRegistry)
}

// LoadSchema reads every attributeSchema object from the schema naming context
// into the registry.
func (ad *ActiveDirectoryInstance) LoadSchema(ctx context.Context) error {
	if ad.conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	schemaBaseDN := "CN=Schema,CN=Configuration," + ad.BaseDn

	attributesRequest := ldap.NewSearchRequest(
		schemaBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		ldaphelpers.AttributeSchemaObjects,
		[]string{"cn", "lDAPDisplayName", "attributeID", "attributeSyntax", "oMSyntax", "isSingleValued"},
		nil,
	)

	attributesResults, err := ad.conn.SearchWithPaging(attributesRequest, ad.PageSize)
	if err != nil {
		return fmt.Errorf("failed to search for attributes: %w", err)
	}

	for _, entry := range attributesResults.Entries {
		ad.SchemaRegistry.RegisterAttributeSchema(attributeSchemaFromEntry(entry))
	}

	ad.logger.Info("schema_loaded",
		slog.String("operation", "LoadSchema"),
		slog.String("dn", schemaBaseDN),
		slog.Int("attributes", len(attributesResults.Entries)))
	return nil
}

func attributeSchemaFromEntry(entry *ldap.Entry) *schema.AttributeSchema {
	attributeSyntax := entry.GetAttributeValue("attributeSyntax")
	oMSyntax := entry.GetAttributeValue("oMSyntax")
	return &schema.AttributeSchema{
		AttributeName:           entry.GetAttributeValue("cn"),
		AttributeLDAPName:       entry.GetAttributeValue("lDAPDisplayName"),
		AttributeID:             entry.GetAttributeValue("attributeID"),
		AttributeSyntax:         attributeSyntax,
		AttributeOMSyntax:       oMSyntax,
		AttributeIsSingleValued: strings.EqualFold(entry.GetAttributeValue("isSingleValued"), "TRUE"),
		SyntaxClass:             schema.ClassifySyntax(attributeSyntax, oMSyntax),
	}
}

// fetch the highest committed USN from the target domain controller
func (ad *ActiveDirectoryInstance) FetchHighestUSN(ctx context.Context) error {
	if ad.conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	request := ldap.NewSearchRequest(
		"", // Root DSE
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		0, 0, false,
		ldaphelpers.AllObjects,
		[]string{"highestCommittedUSN"},
		nil,
	)

	results, err := ad.conn.Search(request)
	if err != nil {
		return fmt.Errorf("failed to fetch highestCommittedUSN from Root DSE: %w", err)
	}
	if len(results.Entries) == 0 {
		return fmt.Errorf("highestCommittedUSN not found in the Root DSE of %s", ad.URL)
	}

	value := results.Entries[0].GetAttributeValue("highestCommittedUSN")
	ad.HighestCommittedUSN, err = strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("error converting highestCommittedUSN to int: %w", err)
	}
	ad.logger.Debug("highest_committed_usn", slog.Int64("usn", ad.HighestCommittedUSN))
	return nil
}

// FetchPagedEntriesWithCallback performs a paged search below the base DN and
// hands every page to processPage. An empty attribute list fetches all attributes.
func (ad *ActiveDirectoryInstance) FetchPagedEntriesWithCallback(
	ctx context.Context, filter string, attributes []string, processPage func(entries []*ldap.Entry) error,
) error {
	if ad.conn == nil {
		return ErrNotConnected
	}

	pageControl := ldap.NewControlPaging(ad.PageSize)
	pageRequest := ldap.NewSearchRequest(
		ad.BaseDn,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		filter,
		attributes,
		[]ldap.Control{pageControl},
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		searchResults, err := ad.conn.Search(pageRequest)
		if err != nil {
			return fmt.Errorf("LDAP search failed: %w", err)
		}

		if err := processPage(searchResults.Entries); err != nil {
			return fmt.Errorf("processing page failed: %w", err)
		}

		pagingControl, ok := ldap.FindControl(searchResults.Controls, ldap.ControlTypePaging).(*ldap.ControlPaging)
		if !ok || len(pagingControl.Cookie) == 0 {
			break // No more pages
		}
		pageControl.SetCookie(pagingControl.Cookie)
	}

	return nil
}

// Modify applies a modify request built by a Writer.
func (ad *ActiveDirectoryInstance) Modify(ctx context.Context, req *ldap.ModifyRequest) error {
	if ad.conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ad.conn.Modify(req); err != nil {
		return fmt.Errorf("modify %s failed: %w", req.DN, err)
	}
	ad.logger.Info("object_modified", slog.String("operation", "Modify"), slog.String("dn", req.DN), slog.Int("changes", len(req.Changes)))
	return nil
}

// Add creates an object from an add request built by a Writer.
func (ad *ActiveDirectoryInstance) Add(ctx context.Context, req *ldap.AddRequest) error {
	if ad.conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ad.conn.Add(req); err != nil {
		return fmt.Errorf("add %s failed: %w", req.DN, err)
	}
	ad.logger.Info("object_added", slog.String("operation", "Add"), slog.String("dn", req.DN))
	return nil
}
