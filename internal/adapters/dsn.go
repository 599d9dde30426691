package adapters

import (
	"net"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// mysqlDSN builds a go-sql-driver DSN with the connect timeout applied.
func mysqlDSN(cfg Config) string {
	c := mysqldriver.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Database
	c.Timeout = ConnectTimeout
	c.ParseTime = true
	c.AllowNativePasswords = true
	if cfg.SSLEnabled {
		c.TLSConfig = "skip-verify"
	}
	return c.FormatDSN()
}

// postgresDSN builds a libpq keyword/value DSN with the connect timeout
// applied. Values are quoted so spaces and quotes in passwords survive.
func postgresDSN(cfg Config) string {
	sslmode := "disable"
	if cfg.SSLEnabled {
		sslmode = "require"
	}

	parts := []string{
		"host=" + quoteDSNValue(cfg.Host),
		"port=" + strconv.Itoa(cfg.Port),
		"dbname=" + quoteDSNValue(cfg.Database),
		"sslmode=" + sslmode,
		"connect_timeout=" + strconv.Itoa(int(ConnectTimeout.Seconds())),
	}
	if cfg.Username != "" {
		parts = append(parts, "user="+quoteDSNValue(cfg.Username))
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+quoteDSNValue(cfg.Password))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
