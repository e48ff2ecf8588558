package database

import (
	"context"
	"fmt"
)

// ColumnDescription describes one column of a table
type ColumnDescription struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Nullable     bool    `json:"nullable"`
	Default      *string `json:"default"`
	IsPrimaryKey bool    `json:"is_primary_key"`
	MaxLength    *int64  `json:"max_length,omitempty"`
	Precision    *int64  `json:"precision,omitempty"`
	Scale        *int64  `json:"scale,omitempty"`
}

// ForeignKey describes an outgoing foreign key column
type ForeignKey struct {
	Column     string `json:"column"`
	References string `json:"references"`
}

// TableDescription is the full structural description of a table
type TableDescription struct {
	Schema      string              `json:"schema"`
	TableName   string              `json:"table_name"`
	Columns     []ColumnDescription `json:"columns"`
	PrimaryKeys []string            `json:"primary_keys"`
	ForeignKeys []ForeignKey        `json:"foreign_keys"`
}

// ViewDescription is the definition and column list of a view
type ViewDescription struct {
	Schema     string `json:"schema"`
	ViewName   string `json:"view_name"`
	Definition string `json:"definition"`
	Columns    []Row  `json:"columns"`
}

// TableStats holds size and row count estimates for a table
type TableStats struct {
	Schema         string `json:"schema"`
	TableName      string `json:"table_name"`
	RowCount       int64  `json:"row_count"`
	TotalSize      string `json:"total_size"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
}

const listSchemasSQL = `
SELECT schema_name
FROM information_schema.schemata
WHERE schema_name NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
ORDER BY schema_name`

const listTablesSQL = `
SELECT table_name, table_type
FROM information_schema.tables
WHERE table_schema = $1
ORDER BY table_name`

const listViewsSQL = `
SELECT table_name AS view_name
FROM information_schema.views
WHERE table_schema = $1
ORDER BY table_name`

const viewDefinitionSQL = `
SELECT view_definition
FROM information_schema.views
WHERE table_schema = $1 AND table_name = $2`

const listFunctionsSQL = `
SELECT routine_name, routine_type, data_type AS return_type
FROM information_schema.routines
WHERE specific_schema = $1
ORDER BY routine_name`

const tableColumnsSQL = `
SELECT column_name, data_type, is_nullable, column_default,
       character_maximum_length, numeric_precision, numeric_scale
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

const primaryKeysSQL = `
SELECT kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
 AND tc.table_schema = kcu.table_schema
WHERE tc.table_schema = $1 AND tc.table_name = $2
  AND tc.constraint_type = 'PRIMARY KEY'
ORDER BY kcu.ordinal_position`

const foreignKeysSQL = `
SELECT kcu.column_name,
       ccu.table_name AS foreign_table,
       ccu.column_name AS foreign_column
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
 AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON tc.constraint_name = ccu.constraint_name
 AND tc.table_schema = ccu.table_schema
WHERE tc.table_schema = $1 AND tc.table_name = $2
  AND tc.constraint_type = 'FOREIGN KEY'`

const listIndexesSQL = `
SELECT indexname AS index_name, indexdef AS index_definition
FROM pg_indexes
WHERE schemaname = $1 AND tablename = $2
ORDER BY indexname`

const listConstraintsSQL = `
SELECT tc.constraint_name, tc.constraint_type, kcu.column_name
FROM information_schema.table_constraints tc
LEFT JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
 AND tc.table_schema = kcu.table_schema
WHERE tc.table_schema = $1 AND tc.table_name = $2
ORDER BY tc.constraint_name, kcu.ordinal_position`

const tableStatsSQL = `
SELECT c.reltuples::bigint AS row_count,
       pg_size_pretty(pg_total_relation_size(c.oid)) AS total_size,
       pg_total_relation_size(c.oid) AS total_size_bytes
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND c.relname = $2`

const searchColumnsSQL = `
SELECT table_schema, table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
  AND column_name ILIKE '%' || $1 || '%'
ORDER BY table_schema, table_name, column_name`

const databaseInfoSQL = `
SELECT current_database() AS database,
       current_user AS "user",
       version() AS version,
       pg_size_pretty(pg_database_size(current_database())) AS size,
       pg_postmaster_start_time()::text AS started_at`

// ListSchemas returns all user-visible schemas
func (c *Client) ListSchemas(ctx context.Context) ([]Row, error) {
	rows, _, err := c.queryRows(ctx, listSchemasSQL)
	return rows, err
}

// ListTables returns the tables of a schema
func (c *Client) ListTables(ctx context.Context, schema string) ([]Row, error) {
	rows, _, err := c.queryRows(ctx, listTablesSQL, schema)
	return rows, err
}

// ListViews returns the views of a schema
func (c *Client) ListViews(ctx context.Context, schema string) ([]Row, error) {
	rows, _, err := c.queryRows(ctx, listViewsSQL, schema)
	return rows, err
}

// ListFunctions returns the routines of a schema
func (c *Client) ListFunctions(ctx context.Context, schema string) ([]Row, error) {
	rows, _, err := c.queryRows(ctx, listFunctionsSQL, schema)
	return rows, err
}

// DescribeView returns the definition and columns of a view
func (c *Client) DescribeView(ctx context.Context, view, schema string) (*ViewDescription, error) {
	defRows, _, err := c.queryRows(ctx, viewDefinitionSQL, schema, view)
	if err != nil {
		return nil, err
	}
	if len(defRows) == 0 {
		return nil, fmt.Errorf("view %s.%s not found", schema, view)
	}

	definition := ""
	if v, ok := defRows[0].Get("view_definition"); ok && v != nil {
		if s, ok := v.(string); ok {
			definition = s
		}
	}

	columns, _, err := c.queryRows(ctx, tableColumnsSQL, schema, view)
	if err != nil {
		return nil, err
	}

	return &ViewDescription{
		Schema:     schema,
		ViewName:   view,
		Definition: definition,
		Columns:    columns,
	}, nil
}

// DescribeTable returns columns, primary keys and foreign keys of a table
func (c *Client) DescribeTable(ctx context.Context, table, schema string) (*TableDescription, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	pkRows, err := conn.Query(ctx, primaryKeysSQL, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	primaryKeys := []string{}
	pkSet := map[string]bool{}
	for pkRows.Next() {
		var name string
		if err := pkRows.Scan(&name); err != nil {
			pkRows.Close()
			return nil, fmt.Errorf("query failed: %w", err)
		}
		primaryKeys = append(primaryKeys, name)
		pkSet[name] = true
	}
	pkRows.Close()
	if err := pkRows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	colRows, err := conn.Query(ctx, tableColumnsSQL, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	columns := []ColumnDescription{}
	for colRows.Next() {
		var (
			name, dataType, isNullable string
			colDefault                 *string
			maxLength, precision       *int64
			scale                      *int64
		)
		if err := colRows.Scan(&name, &dataType, &isNullable, &colDefault, &maxLength, &precision, &scale); err != nil {
			colRows.Close()
			return nil, fmt.Errorf("query failed: %w", err)
		}
		col := ColumnDescription{
			Name:         name,
			Type:         dataType,
			Nullable:     isNullable == "YES",
			Default:      colDefault,
			IsPrimaryKey: pkSet[name],
			MaxLength:    maxLength,
			Precision:    precision,
			Scale:        scale,
		}
		columns = append(columns, col)
	}
	colRows.Close()
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schema, table)
	}

	fkRows, err := conn.Query(ctx, foreignKeysSQL, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	foreignKeys := []ForeignKey{}
	for fkRows.Next() {
		var column, foreignTable, foreignColumn string
		if err := fkRows.Scan(&column, &foreignTable, &foreignColumn); err != nil {
			fkRows.Close()
			return nil, fmt.Errorf("query failed: %w", err)
		}
		foreignKeys = append(foreignKeys, ForeignKey{
			Column:     column,
			References: fmt.Sprintf("%s.%s", foreignTable, foreignColumn),
		})
	}
	fkRows.Close()
	if err := fkRows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return &TableDescription{
		Schema:      schema,
		TableName:   table,
		Columns:     columns,
		PrimaryKeys: primaryKeys,
		ForeignKeys: foreignKeys,
	}, nil
}

// ListIndexes returns the indexes of a table
func (c *Client) ListIndexes(ctx context.Context, table, schema string) ([]Row, error) {
	rows, _, err := c.queryRows(ctx, listIndexesSQL, schema, table)
	return rows, err
}

// ListConstraints returns the constraints of a table
func (c *Client) ListConstraints(ctx context.Context, table, schema string) ([]Row, error) {
	rows, _, err := c.queryRows(ctx, listConstraintsSQL, schema, table)
	return rows, err
}

// GetTableStats returns the planner row estimate and on-disk size of a
// table. The row count comes from pg_class.reltuples, so it is only as
// fresh as the last vacuum or analyze.
func (c *Client) GetTableStats(ctx context.Context, table, schema string) (*TableStats, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	var stats TableStats
	stats.Schema = schema
	stats.TableName = table
	err = conn.QueryRow(ctx, tableStatsSQL, schema, table).Scan(
		&stats.RowCount, &stats.TotalSize, &stats.TotalSizeBytes)
	if err != nil {
		return nil, fmt.Errorf("table %s.%s not found: %w", schema, table, err)
	}

	if stats.RowCount < 0 {
		// Never-analyzed tables report -1
		stats.RowCount = 0
	}

	return &stats, nil
}

// SearchColumns finds columns whose name matches the term across all
// user schemas
func (c *Client) SearchColumns(ctx context.Context, term string) ([]Row, error) {
	rows, _, err := c.queryRows(ctx, searchColumnsSQL, term)
	return rows, err
}

// GetDatabaseInfo returns general information about the connected
// database
func (c *Client) GetDatabaseInfo(ctx context.Context) (Row, error) {
	rows, _, err := c.queryRows(ctx, databaseInfoSQL)
	if err != nil {
		return Row{}, err
	}
	if len(rows) == 0 {
		return Row{}, fmt.Errorf("no database info returned")
	}
	return rows[0], nil
}
