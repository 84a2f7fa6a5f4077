package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tablerow/internal/sqlconn"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// cli runs tablerow against a private config and data directory.
type cli struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	for _, env := range []string{"TABLEROW_DRIVER", "TABLEROW_DSN", "TABLEROW_LOG_LEVEL", "TABLEROW_LOG_FORMAT"} {
		t.Setenv(env, "")
	}
	root := t.TempDir()
	return &cli{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

func (c *cli) run(args ...string) (code int, stdout, stderr string) {
	c.t.Helper()
	var out, errb bytes.Buffer
	full := append([]string{"--config-dir", c.configDir, "--data-dir", c.dataDir}, args...)
	code = run(context.Background(), full, &out, &errb)
	return code, out.String(), errb.String()
}

// ok runs args, requires success and returns stdout.
func (c *cli) ok(args ...string) string {
	c.t.Helper()
	code, out, errOut := c.run(args...)
	require.Equal(c.t, exitSuccess, code, "stderr: %s", errOut)
	return out
}

func (c *cli) rows(args ...string) []map[string]any {
	c.t.Helper()
	var rows []map[string]any
	require.NoError(c.t, json.Unmarshal([]byte(c.ok(append(args, "--json")...)), &rows))
	return rows
}

func (c *cli) row(args ...string) map[string]any {
	c.t.Helper()
	var row map[string]any
	require.NoError(c.t, json.Unmarshal([]byte(c.ok(append(args, "--json")...)), &row))
	return row
}

func TestVersionSkipsConfig(t *testing.T) {
	c := newCLI(t)
	assert.Equal(t, "tablerow "+version+"\n", c.ok("version"))
	_, err := os.Stat(c.configDir)
	assert.True(t, os.IsNotExist(err))
}

func TestInit(t *testing.T) {
	c := newCLI(t)
	out := c.ok("init")
	assert.Contains(t, out, "tablerow initialized")

	data, err := os.ReadFile(filepath.Join(c.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "driver: sqlite")
	_, err = os.Stat(filepath.Join(c.dataDir, sqlconn.DatabaseFileName))
	assert.NoError(t, err)

	// A second init keeps the existing config.
	require.NoError(t, os.WriteFile(filepath.Join(c.configDir, "config.yaml"), []byte("driver: sqlite\nlog_level: error\n"), 0o644))
	c.ok("init")
	data, err = os.ReadFile(filepath.Join(c.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "driver: sqlite\nlog_level: error\n", string(data))
}

func TestUserLifecycle(t *testing.T) {
	c := newCLI(t)

	alice := c.row("create", "user", "name=alice", "email=alice@example.com")
	assert.Equal(t, float64(1), alice["id"])
	assert.Equal(t, "alice", alice["name"])
	c.row("create", "user", "name=bob", "email=bob@example.com")
	c.row("create", "user", "name=carol", "email=carol@example.com")

	assert.Equal(t, "email=\"alice@example.com\" id=\"1\" name=\"alice\"\n", c.ok("get", "user", "1"))

	rows := c.rows("list", "user")
	assert.Len(t, rows, 3)
	rows = c.rows("list", "user", "--where", "name=bob")
	require.Len(t, rows, 1)
	assert.Equal(t, "bob@example.com", rows[0]["email"])
	rows = c.rows("list", "user", "--where", "name=alice", "--where", "name=carol", "--or")
	assert.Len(t, rows, 2)
	rows = c.rows("list", "user", "--where", "id=[2,3]")
	assert.Len(t, rows, 2)
	rows = c.rows("list", "user", "--offset", "1", "--limit", "1")
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0]["name"])

	updated := c.row("update", "user", "1", "email=alice@new.example.com")
	assert.Equal(t, "alice@new.example.com", updated["email"])
	assert.Equal(t, "alice", updated["name"])

	rows = c.rows("search", "user", "--start-id", "2")
	assert.Len(t, rows, 2)
	rows = c.rows("search", "user", "--in-id", "1", "--in-id", "3")
	assert.Len(t, rows, 2)

	assert.Equal(t, "Deleted 1 row(s) from user\n", c.ok("delete", "user", "1"))
	code, _, errOut := c.run("delete", "user", "1")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, types.ErrNoSuchID.Error())

	assert.Equal(t, "Truncated user\n", c.ok("truncate", "user"))
	assert.Empty(t, c.rows("list", "user"))
}

func TestUUIDUserLifecycle(t *testing.T) {
	c := newCLI(t)

	created := c.row("create", "user_uuid", "name=alice", "email=alice@example.com")
	key, ok := created["uuid"].(string)
	require.True(t, ok)
	assert.Len(t, key, 36)

	got := c.row("get", "user_uuid_table", key)
	assert.Equal(t, "alice", got["name"])

	c.ok("truncate", "user_uuid", "--in-transaction")
	code, _, _ := c.run("get", "user_uuid", key)
	assert.Equal(t, exitUserError, code)
}

func TestKeylessUserTable(t *testing.T) {
	c := newCLI(t)
	created := c.row("create", "user_no_id", "name=alice", "email=alice@example.com")
	assert.NotContains(t, created, "id")
	assert.Len(t, c.rows("list", "user_no_id"), 1)

	code, _, errOut := c.run("get", "user_no_id", "1")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, types.ErrKeyless.Error())
}

func TestUserErrors(t *testing.T) {
	c := newCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown table", []string{"list", "orders"}},
		{"invalid email", []string{"create", "user", "name=alice", "email=not-an-email"}},
		{"empty name", []string{"create", "user", "name=", "email=a@example.com"}},
		{"malformed assignment", []string{"create", "user", "name"}},
		{"bad key", []string{"get", "user", "abc"}},
		{"bad uuid key", []string{"get", "user_uuid", "nope"}},
		{"bad search bound", []string{"search", "user", "--start-id", "x"}},
		{"missing args", []string{"get", "user"}},
		{"unknown flag", []string{"list", "user", "--bogus"}},
		{"repeated where without or", []string{"list", "user", "--where", "name=a", "--where", "name=b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := c.run(tt.args...)
			assert.Equal(t, exitUserError, code)
			assert.NotEmpty(t, errOut)
		})
	}
}

func TestBadConfig(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.MkdirAll(c.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(c.configDir, "config.yaml"), []byte("log_format: xml\n"), 0o644))

	code, _, errOut := c.run("list", "user")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, types.ErrLogFormatUnknown.Error())
}

func TestEnvironmentOverridesConfig(t *testing.T) {
	c := newCLI(t)
	t.Setenv("TABLEROW_DRIVER", "postgres")

	code, _, errOut := c.run("list", "user")
	assert.Equal(t, exitSysError, code)
	assert.Contains(t, errOut, types.ErrDriverUnknown.Error())
}

func TestParseConditions(t *testing.T) {
	tests := []struct {
		name  string
		where []string
		or    bool
		want  types.Predicate
	}{
		{"single", []string{"name=a"}, false, types.Predicate{"name": "a"}},
		{"json number", []string{"id=3"}, false, types.Predicate{"id": float64(3)}},
		{"json list", []string{"id=[1,2]"}, false, types.Predicate{"id": []any{float64(1), float64(2)}}},
		{"or collects", []string{"name=a", "name=b", "name=c"}, true, types.Predicate{"name": []any{"a", "b", "c"}}},
		{"or flattens lists", []string{"id=3", "id=[1,2]"}, true, types.Predicate{"id": []any{float64(3), float64(1), float64(2)}}},
		{"or merges two lists", []string{"id=[1]", "id=[2,3]"}, true, types.Predicate{"id": []any{float64(1), float64(2), float64(3)}}},
		{"value with equals", []string{"note=a=b"}, false, types.Predicate{"note": "a=b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseConditions(tt.where, tt.or)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseConditions([]string{"=x"}, false)
	assert.ErrorIs(t, err, errUsage)

	_, err = parseConditions([]string{"name=a", "name=b"}, false)
	assert.ErrorIs(t, err, errUsage, "a repeated column needs --or")
}

func TestFormatRow(t *testing.T) {
	assert.Equal(t, `a="1" b=NULL c="x y"`, formatRow(map[string]any{"c": "x y", "a": int64(1), "b": nil}))
}
