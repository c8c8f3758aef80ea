package database

// SQL for the schema cache tables defined in schema.sql.

const (
	// Returns the domain_id, creating the domain row on first use.
	UpsertDomain = `
		INSERT INTO schema_domains (domain_id, domain_name)
		VALUES ($1, $2)
		ON CONFLICT (domain_name)
		DO UPDATE SET loaded_at = NOW()
		RETURNING domain_id`

	SelectDomain = `
		SELECT domain_id
		FROM schema_domains
		WHERE domain_name = $1`

	DeleteAttributeSchemas = `
		DELETE FROM attribute_schemas
		WHERE domain_id = $1`

	InsertAttributeSchema = `
		INSERT INTO attribute_schemas (
			domain_id,
			ldap_display_name,
			cn,
			attribute_id,
			attribute_syntax,
			om_syntax,
			is_single_valued
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	SelectAttributeSchemas = `
		SELECT ldap_display_name, cn, attribute_id, attribute_syntax, om_syntax, is_single_valued
		FROM attribute_schemas
		WHERE domain_id = $1
		ORDER BY ldap_display_name`
)
