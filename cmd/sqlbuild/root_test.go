package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bawdo/sqlbuild/internal/testutil"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDDLPrintsCreateStatements(t *testing.T) {
	t.Parallel()
	out, err := runRoot(t, "ddl", writeSchema(t), "--engine", "sqlite")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, out, ""+
		"CREATE TABLE users (id INTEGER PRIMARY KEY,name VARCHAR(64) NOT NULL);\n"+
		"CREATE TABLE posts (id INTEGER PRIMARY KEY,user_id INTEGER,title TEXT);\n"+
		"CREATE INDEX ix_posts_user ON posts (user_id);\n")
}

func TestDDLDropsInReverseOrder(t *testing.T) {
	t.Parallel()
	out, err := runRoot(t, "ddl", writeSchema(t), "--engine", "postgres", "--drop")
	testutil.AssertNoError(t, err)
	if !strings.HasPrefix(out, "DROP TABLE posts;\nDROP TABLE users;\nCREATE TABLE users") {
		t.Errorf("unexpected order:\n%s", out)
	}
}

func TestDDLApplyThenIntrospect(t *testing.T) {
	t.Parallel()
	dsn := filepath.Join(t.TempDir(), "app.db")
	out, err := runRoot(t, "ddl", writeSchema(t), "--engine", "sqlite", "--dsn", dsn, "--apply")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, out, "Applied 3 statements\n")

	out, err = runRoot(t, "introspect", "--engine", "sqlite", "--dsn", dsn)
	testutil.AssertNoError(t, err)
	for _, want := range []string{"name: posts", "name: user_id", "name: users"} {
		if !strings.Contains(out, want) {
			t.Errorf("introspected YAML missing %q:\n%s", want, out)
		}
	}
}

func TestApplyNeedsDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := runRoot(t, "ddl", writeSchema(t), "--apply")
	testutil.AssertError(t, err)
}

func TestUnknownEngineFlag(t *testing.T) {
	t.Parallel()
	_, err := runRoot(t, "ddl", writeSchema(t), "--engine", "oracle")
	if err == nil || !strings.Contains(err.Error(), `unknown engine "oracle"`) {
		t.Fatalf("got %v", err)
	}
}

func TestRunScript(t *testing.T) {
	t.Parallel()
	script := writeFile(t, "q.sqlb", `
# users with a name
from users
select users.id
where users.name is not null
sql
exit
sql
`)
	out, err := runRoot(t, "run", script, "--engine", "sqlite")
	testutil.AssertNoError(t, err)
	if strings.Count(out, "SELECT t0.id FROM users t0 WHERE (t0.name IS NOT NULL);") != 1 {
		t.Errorf("expected one rendered statement before exit:\n%s", out)
	}
}

func TestRunScriptReportsLine(t *testing.T) {
	t.Parallel()
	script := writeFile(t, "bad.sqlb", "from users\nselect ghosts.id\n")
	_, err := runRoot(t, "run", script, "--engine", "sqlite")
	if err == nil || !strings.Contains(err.Error(), "bad.sqlb:2:") {
		t.Fatalf("got %v", err)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug")
	logger.Debug("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("debug record missing: %q", buf.String())
	}

	buf.Reset()
	newLogger(&buf, "nonsense").Info("quiet")
	testutil.AssertEqual(t, buf.String(), "")
}
