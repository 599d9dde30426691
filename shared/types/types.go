package types

import "time"

// ConnectionRecord represents a saved database connection.
// Password and EncryptedPassword never leave the store except through
// the full-record accessor used for introspection.
type ConnectionRecord struct {
	ID                string     `json:"id" gorm:"primaryKey;size:36"`
	OwnerUserID       *string    `json:"ownerUserId,omitempty" gorm:"column:user_id;size:64;index"`
	Name              string     `json:"name" gorm:"not null"`
	Engine            string     `json:"engine" gorm:"size:32;not null"`
	Host              string     `json:"host"`
	Port              int        `json:"port"`
	Database          string     `json:"database" gorm:"column:database"`
	Username          string     `json:"username"`
	Password          string     `json:"-" gorm:"column:password"`
	EncryptedPassword string     `json:"-" gorm:"column:encrypted_password"`
	SSLEnabled        bool       `json:"sslEnabled" gorm:"column:ssl_enabled"`
	IsSample          bool       `json:"isSample" gorm:"column:is_sample"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt         time.Time  `json:"updatedAt" gorm:"autoUpdateTime:false"`
	LastUsed          *time.Time `json:"lastUsed,omitempty" gorm:"column:last_used"`
}

// TableName implements gorm's tabler interface.
func (ConnectionRecord) TableName() string {
	return "database_connections"
}

// Stripped returns a copy without secret fields.
func (c ConnectionRecord) Stripped() ConnectionRecord {
	c.Password = ""
	c.EncryptedPassword = ""
	return c
}

// ConnectionInput carries the fields of a new connection. Password is
// plaintext.
type ConnectionInput struct {
	Name       string `json:"name"`
	Engine     string `json:"engine"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Database   string `json:"database"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	SSLEnabled bool   `json:"sslEnabled"`
	Notes      string `json:"notes"`
}

// ConnectionPatch is a partial update. Nil, empty and zero fields leave
// the stored value untouched.
type ConnectionPatch struct {
	Name       *string `json:"name,omitempty"`
	Engine     *string `json:"engine,omitempty"`
	Host       *string `json:"host,omitempty"`
	Port       *int    `json:"port,omitempty"`
	Database   *string `json:"database,omitempty"`
	Username   *string `json:"username,omitempty"`
	Password   *string `json:"password,omitempty"`
	SSLEnabled *bool   `json:"sslEnabled,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// TableType classifies a catalog relation.
type TableType string

// Table types
const (
	TableTypeTable TableType = "TABLE"
	TableTypeView  TableType = "VIEW"
)

// TableInfo summarizes one table or view.
type TableInfo struct {
	Name        string     `json:"name"`
	Type        TableType  `json:"type"`
	RowCount    int64      `json:"rows"`
	SizeLabel   string     `json:"size"`
	ColumnCount int        `json:"columns"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name         string  `json:"name"`
	DataType     string  `json:"type"`
	Nullable     bool    `json:"nullable"`
	DefaultValue *string `json:"default"`
	KeyRole      string  `json:"key"`
	Extra        string  `json:"extra"`
}

// SchemaSnapshot is the normalized result of one introspection call.
type SchemaSnapshot struct {
	Success      bool                    `json:"success"`
	Message      string                  `json:"message,omitempty"`
	Tables       []TableInfo             `json:"tables"`
	TableColumns map[string][]ColumnInfo `json:"tableColumns"`
	TotalSize    string                  `json:"totalSize"`
}

// TestResult is the outcome of a connection test.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
