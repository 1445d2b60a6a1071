package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// PostgresParams are the connection keywords understood by lib/pq
type PostgresParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Extra    map[string]string
}

// ParseDatabaseURL reads a postgres:// or postgresql:// URL. A missing port
// means 5432 and a missing sslmode means disable.
func ParseDatabaseURL(raw string) (*PostgresParams, error) {
	if raw == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return nil, fmt.Errorf("unsupported database URL scheme %q", u.Scheme)
	}

	p := &PostgresParams{
		Host:     u.Hostname(),
		Port:     5432,
		Database: strings.TrimPrefix(u.Path, "/"),
		SSLMode:  "disable",
		Extra:    map[string]string{},
	}
	if port := u.Port(); port != "" {
		if p.Port, err = strconv.Atoi(port); err != nil {
			return nil, fmt.Errorf("invalid port %q in database URL", port)
		}
	}
	if u.User != nil {
		p.User = u.User.Username()
		p.Password, _ = u.User.Password()
	}

	for key, values := range u.Query() {
		if key == "sslmode" {
			p.SSLMode = values[0]
			continue
		}
		p.Extra[key] = values[0]
	}

	return p, nil
}

// DSN renders the params as a keyword/value string. Extra keywords follow
// in sorted order.
func (p *PostgresParams) DSN() string {
	var b strings.Builder
	write := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(quoteDSNValue(value))
	}

	write("host", p.Host)
	write("port", strconv.Itoa(p.Port))
	write("user", p.User)
	write("password", p.Password)
	write("dbname", p.Database)
	write("sslmode", p.SSLMode)

	keys := make([]string, 0, len(p.Extra))
	for key := range p.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		write(key, p.Extra[key])
	}

	return b.String()
}

// quoteDSNValue single-quotes values that are empty or contain spaces,
// quotes or backslashes
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// SQLiteDSN builds a modernc sqlite DSN for a database file. The clock
// device writes punches while reports read, so writers wait on the busy
// timeout instead of failing with SQLITE_BUSY.
func SQLiteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return ":memory:"
	}
	v := url.Values{}
	v.Add("_pragma", "busy_timeout(5000)")
	v.Add("_pragma", "foreign_keys(1)")
	return "file:" + path + "?" + v.Encode()
}
