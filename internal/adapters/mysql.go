package adapters

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dracory/mole/shared/engine"
	"github.com/dracory/mole/shared/types"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const mysqlTablesQuery = `SELECT
	table_name AS table_name,
	table_type AS table_type,
	table_rows AS table_rows,
	ROUND((COALESCE(data_length, 0) + COALESCE(index_length, 0)) / 1024) AS size_kb,
	update_time AS update_time
FROM information_schema.tables
WHERE table_schema = ?
ORDER BY table_name`

const mysqlColumnsQuery = `SELECT
	table_name AS table_name,
	column_name AS column_name,
	column_type AS column_type,
	is_nullable AS is_nullable,
	column_default AS column_default,
	column_key AS column_key,
	extra AS extra
FROM information_schema.columns
WHERE table_schema = ?
ORDER BY table_name, ordinal_position`

type mysqlTableRow struct {
	TableName  string     `gorm:"column:table_name"`
	TableType  string     `gorm:"column:table_type"`
	TableRows  *int64     `gorm:"column:table_rows"`
	SizeKB     *float64   `gorm:"column:size_kb"`
	UpdateTime *time.Time `gorm:"column:update_time"`
}

type mysqlColumnRow struct {
	TableName     string  `gorm:"column:table_name"`
	ColumnName    string  `gorm:"column:column_name"`
	ColumnType    string  `gorm:"column:column_type"`
	IsNullable    string  `gorm:"column:is_nullable"`
	ColumnDefault *string `gorm:"column:column_default"`
	ColumnKey     string  `gorm:"column:column_key"`
	Extra         string  `gorm:"column:extra"`
}

// MySQLAdapter introspects MySQL through information_schema, scoped to
// the configured database.
type MySQLAdapter struct {
	open Opener
}

// NewMySQLAdapter returns an adapter using open, or the default
// go-sql-driver based opener when open is nil.
func NewMySQLAdapter(open Opener) *MySQLAdapter {
	if open == nil {
		open = openMySQL
	}
	return &MySQLAdapter{open: open}
}

func openMySQL(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(mysqlDSN(cfg)), gormConfig())
	if err != nil {
		return nil, err
	}
	return singleConnection(db)
}

func (a *MySQLAdapter) Introspect(ctx context.Context, cfg Config) Result {
	db, err := a.open(cfg)
	if err != nil {
		return Failed((&ConnectError{Engine: engine.MySQL, Err: err}).Error())
	}
	defer closeDB(db)

	db = db.WithContext(ctx)

	var tableRows []mysqlTableRow
	if err := db.Raw(mysqlTablesQuery, cfg.Database).Scan(&tableRows).Error; err != nil {
		return Failed((&QueryError{Query: "tables", Err: err}).Error())
	}

	var columnRows []mysqlColumnRow
	if err := db.Raw(mysqlColumnsQuery, cfg.Database).Scan(&columnRows).Error; err != nil {
		return Failed((&QueryError{Query: "columns", Err: err}).Error())
	}

	return buildMySQLResult(tableRows, columnRows)
}

func buildMySQLResult(tableRows []mysqlTableRow, columnRows []mysqlColumnRow) Result {
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
			DataType:     c.ColumnType,
			Nullable:     c.IsNullable == "YES",
			DefaultValue: c.ColumnDefault,
			KeyRole:      c.ColumnKey,
			Extra:        c.Extra,
		})
	}

	tables := make([]types.TableInfo, 0, len(tableRows))
	for _, t := range tableRows {
		var rows int64
		if t.TableRows != nil {
			rows = *t.TableRows
		}
		tables = append(tables, types.TableInfo{
			Name:        t.TableName,
			Type:        mysqlTableType(t.TableType),
			RowCount:    rows,
			SizeLabel:   mysqlSizeLabel(t.SizeKB),
			ColumnCount: len(columns[t.TableName]),
			LastUpdated: t.UpdateTime,
		})
	}

	return Result{Success: true, Tables: tables, TableColumns: columns}
}

func mysqlTableType(raw string) types.TableType {
	if raw == "BASE TABLE" {
		return types.TableTypeTable
	}
	return types.TableTypeView
}

// mysqlSizeLabel reports whole kilobytes, never less than one.
func mysqlSizeLabel(kb *float64) string {
	var size int64
	if kb != nil {
		size = int64(math.Round(*kb))
	}
	if size < 1 {
		size = 1
	}
	return fmt.Sprintf("%d KB", size)
}
