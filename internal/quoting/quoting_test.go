package quoting

import (
	"strings"
	"testing"

	"github.com/bawdo/sqlbuild/internal/testutil"
)

func TestQuoting(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x'", 5000)
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"string plain", EscapeString, "hello", "hello"},
		{"string empty", EscapeString, "", ""},
		{"string quote", EscapeString, "it's", "it''s"},
		{"string doubled quote", EscapeString, "it''s", "it''''s"},
		{"string backslash kept", EscapeString, `a\b`, `a\b`},
		{"string injection", EscapeString, "'; DROP TABLE users; --", "''; DROP TABLE users; --"},
		{"string unicode", EscapeString, "café's", "café''s"},
		{"string long", EscapeString, long, strings.Repeat("x''", 5000)},

		{"mysql backslash", EscapeStringMySQL, `a\b`, `a\\b`},
		{"mysql backslash before quote", EscapeStringMySQL, `\'`, `\\''`},
		{"mysql quote", EscapeStringMySQL, "it's", "it''s"},

		{"double simple", DoubleQuote, "users", `"users"`},
		{"double empty", DoubleQuote, "", `""`},
		{"double embedded", DoubleQuote, `us"ers`, `"us""ers"`},
		{"double breakout", DoubleQuote, `users"."passwords`, `"users"".""passwords"`},
		{"double space", DoubleQuote, "my table", `"my table"`},

		{"backtick simple", Backtick, "users", "`users`"},
		{"backtick embedded", Backtick, "us`ers", "`us``ers`"},
		{"backtick breakout", Backtick, "users`.`passwords", "`users``.``passwords`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertEqual(t, tt.fn(tt.in), tt.want)
		})
	}
}

func TestQualified(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, Qualified("orders", DoubleQuote), `"orders"`)
	testutil.AssertEqual(t, Qualified("sales.orders", DoubleQuote), `"sales"."orders"`)
	testutil.AssertEqual(t, Qualified("sales.pkg.total", Backtick), "`sales`.`pkg`.`total`")
}
