package adapters

import (
	"context"
	"strings"

	"github.com/dracory/mole/shared/constants"
	"github.com/dracory/mole/shared/engine"
	"github.com/dracory/mole/shared/types"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const postgresSchema = "public"

const postgresTablesQuery = `SELECT
	t.table_name AS table_name,
	t.table_type AS table_type,
	(SELECT COUNT(*) FROM information_schema.columns c
		WHERE c.table_schema = t.table_schema AND c.table_name = t.table_name) AS column_count
FROM information_schema.tables t
WHERE t.table_schema = ?
ORDER BY t.table_name`

const postgresSizesQuery = `SELECT
	c.relname AS table_name,
	pg_size_pretty(pg_total_relation_size(c.oid)) AS size
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = ? AND c.relkind IN ('r', 'p', 'v', 'm')`

const postgresColumnsQuery = `SELECT
	c.table_name AS table_name,
	c.column_name AS column_name,
	c.data_type AS data_type,
	c.is_nullable AS is_nullable,
	c.column_default AS column_default,
	COALESCE((
		SELECT CASE tc.constraint_type
			WHEN 'PRIMARY KEY' THEN 'PRI'
			WHEN 'UNIQUE' THEN 'UNI'
			WHEN 'FOREIGN KEY' THEN 'FOR'
		END
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.table_constraints tc
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE kcu.table_schema = c.table_schema
			AND kcu.table_name = c.table_name
			AND kcu.column_name = c.column_name
			AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE', 'FOREIGN KEY')
		ORDER BY CASE tc.constraint_type WHEN 'PRIMARY KEY' THEN 1 WHEN 'UNIQUE' THEN 2 ELSE 3 END
		LIMIT 1
	), '') AS column_key
FROM information_schema.columns c
WHERE c.table_schema = ?
ORDER BY c.table_name, c.ordinal_position`

const postgresFallbackQuery = `SELECT table_name AS table_name FROM information_schema.tables WHERE table_schema = ? ORDER BY table_name`

type postgresTableRow struct {
	TableName   string `gorm:"column:table_name"`
	TableType   string `gorm:"column:table_type"`
	ColumnCount int    `gorm:"column:column_count"`
}

type postgresSizeRow struct {
	TableName string `gorm:"column:table_name"`
	Size      string `gorm:"column:size"`
}

type postgresColumnRow struct {
	TableName     string  `gorm:"column:table_name"`
	ColumnName    string  `gorm:"column:column_name"`
	DataType      string  `gorm:"column:data_type"`
	IsNullable    string  `gorm:"column:is_nullable"`
	ColumnDefault *string `gorm:"column:column_default"`
	ColumnKey     string  `gorm:"column:column_key"`
}

type postgresNameRow struct {
	TableName string `gorm:"column:table_name"`
}

// PostgresAdapter introspects the public schema of a PostgreSQL database.
// When the detailed queries fail it retries once with a table-name-only
// query on the same connection.
type PostgresAdapter struct {
	open Opener
}

// NewPostgresAdapter returns an adapter using open, or the default pgx
// based opener when open is nil.
func NewPostgresAdapter(open Opener) *PostgresAdapter {
	if open == nil {
		open = openPostgres
	}
	return &PostgresAdapter{open: open}
}

func openPostgres(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(postgresDSN(cfg)), gormConfig())
	if err != nil {
		return nil, err
	}
	return singleConnection(db)
}

func (a *PostgresAdapter) Introspect(ctx context.Context, cfg Config) Result {
	db, err := a.open(cfg)
	if err != nil {
		return Failed((&ConnectError{Engine: engine.PostgreSQL, Err: err}).Error())
	}
	defer closeDB(db)

	db = db.WithContext(ctx)

	result, err := a.detailed(db)
	if err == nil {
		return result
	}
	return a.fallback(db, err)
}

func (a *PostgresAdapter) detailed(db *gorm.DB) (Result, error) {
	var tableRows []postgresTableRow
	if err := db.Raw(postgresTablesQuery, postgresSchema).Scan(&tableRows).Error; err != nil {
		return Result{}, &QueryError{Query: "tables", Err: err}
	}

	var sizeRows []postgresSizeRow
	if err := db.Raw(postgresSizesQuery, postgresSchema).Scan(&sizeRows).Error; err != nil {
		return Result{}, &QueryError{Query: "sizes", Err: err}
	}

	var columnRows []postgresColumnRow
	if err := db.Raw(postgresColumnsQuery, postgresSchema).Scan(&columnRows).Error; err != nil {
		return Result{}, &QueryError{Query: "columns", Err: err}
	}

	return buildPostgresResult(tableRows, sizeRows, columnRows), nil
}

func (a *PostgresAdapter) fallback(db *gorm.DB, cause error) Result {
	var names []postgresNameRow
	if err := db.Raw(postgresFallbackQuery, postgresSchema).Scan(&names).Error; err != nil {
		return Failed(cause.Error())
	}

	tables := make([]types.TableInfo, 0, len(names))
	for _, n := range names {
		tables = append(tables, types.TableInfo{
			Name:      n.TableName,
			Type:      types.TableTypeTable,
			SizeLabel: constants.SizeUnknown,
		})
	}

	return Result{
		Success:      true,
		Message:      "Simplified schema returned after detailed query failed: " + cause.Error(),
		Tables:       tables,
		TableColumns: map[string][]types.ColumnInfo{},
	}
}

func buildPostgresResult(tableRows []postgresTableRow, sizeRows []postgresSizeRow, columnRows []postgresColumnRow) Result {
	sizes := make(map[string]string, len(sizeRows))
	for _, s := range sizeRows {
		sizes[s.TableName] = s.Size
	}

	known := make(map[string]bool, len(tableRows))
	for _, t := range tableRows {
		known[t.TableName] = true
	}

	columns := map[string][]types.ColumnInfo{}
	for _, c := range columnRows {
		if !known[c.TableName] {
			continue
		}
		columns[c.TableName] = append(columns[c.TableName], types.ColumnInfo{
			Name:         c.ColumnName,
			DataType:     c.DataType,
			Nullable:     c.IsNullable == "YES",
			DefaultValue: c.ColumnDefault,
			KeyRole:      c.ColumnKey,
			Extra:        postgresExtra(c.ColumnDefault),
		})
	}

	tables := make([]types.TableInfo, 0, len(tableRows))
	for _, t := range tableRows {
		size, ok := sizes[t.TableName]
		if !ok {
			size = constants.SizeUnknown
		}
		// row counts are not collected for PostgreSQL
		tables = append(tables, types.TableInfo{
			Name:        t.TableName,
			Type:        postgresTableType(t.TableType),
			SizeLabel:   size,
			ColumnCount: t.ColumnCount,
		})
	}

	return Result{Success: true, Tables: tables, TableColumns: columns}
}

func postgresTableType(raw string) types.TableType {
	if raw == "BASE TABLE" {
		return types.TableTypeTable
	}
	return types.TableTypeView
}

func postgresExtra(columnDefault *string) string {
	if columnDefault != nil && strings.HasPrefix(*columnDefault, "nextval(") {
		return "auto_increment"
	}
	return ""
}
