package runner

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxRows caps how many rows FormatRows renders.
const MaxRows = 1000

// FormatRows drains rows into an ASCII table followed by a row count.
func FormatRows(rows *Rows) (string, error) {
	var data [][]string
	truncated := false
	for rows.Next() {
		if len(data) >= MaxRows {
			truncated = true
			break
		}
		row := make([]string, len(rows.columns))
		for i, v := range rows.current {
			row[i] = cell(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	result := formatTable(rows.columns, data)
	if truncated {
		result += fmt.Sprintf("(truncated at %d rows)\n", MaxRows)
	}
	return result, nil
}

func cell(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}

func formatTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], len(c))
		}
	}

	var b strings.Builder
	sep := separator(widths)
	b.WriteString(sep)
	writeLine(&b, columns, widths)
	b.WriteString(sep)
	for _, row := range rows {
		writeLine(&b, row, widths)
	}
	b.WriteString(sep)

	if n := len(rows); n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}
	return b.String()
}

func writeLine(b *strings.Builder, cells []string, widths []int) {
	b.WriteByte('|')
	for i, c := range cells {
		fmt.Fprintf(b, " %-*s |", widths[i], c)
	}
	b.WriteByte('\n')
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

// SanitizeDSN masks the password of URL and MySQL style DSNs. Other DSNs
// are returned unchanged.
func SanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Built by hand so the mask is not percent-encoded.
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
		return dsn
	}

	// user:pass@tcp(host)/db
	if at := strings.Index(dsn, "@"); at > 0 {
		userPass := dsn[:at]
		if colon := strings.Index(userPass, ":"); colon >= 0 {
			return userPass[:colon+1] + "****" + dsn[at:]
		}
	}
	return dsn
}
