package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tablerow/internal/demo"
	"github.com/mesh-intelligence/tablerow/internal/logging"
	"github.com/mesh-intelligence/tablerow/internal/paths"
	"github.com/mesh-intelligence/tablerow/pkg/sqlconn"
	"github.com/mesh-intelligence/tablerow/pkg/table"
)

// app carries the flag values and the state PersistentPreRunE loads for one
// invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	flagConfigDir string
	flagDataDir   string
	flagJSON      bool

	configDir string
	config    *viper.Viper
	logger    *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tablerow",
		Short:         "tablerow manages rows of the demo user tables",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.flagConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/tablerow)")
	root.PersistentFlags().StringVar(&a.flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.tablerow-db)")
	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(a),
		newInitCmd(a),
		newCreateCmd(a),
		newGetCmd(a),
		newListCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newTruncateCmd(a),
		newSearchCmd(a),
	)
	return root
}

// load resolves the config directory, reads config.yaml and builds the
// logger.
func (a *app) load() error {
	dir, err := paths.ResolveConfigDir(a.flagConfigDir)
	if err != nil {
		return fail("resolve config dir", err)
	}
	v, err := loadConfig(dir)
	if err != nil {
		return fail("load config", err)
	}
	dataDir, err := a.dataDir(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(connConfig(v, dataDir), a.stderr)
	if err != nil {
		return &exitError{code: exitUserError, err: fmt.Errorf("config: %w", err)}
	}
	a.configDir, a.config, a.logger = dir, v, logger
	return nil
}

func (a *app) dataDir(v *viper.Viper) (string, error) {
	dir, err := paths.ResolveDataDir(a.flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return "", fail("resolve data dir", err)
	}
	return dir, nil
}

// session is an open connection with the demo tables built over it.
type session struct {
	conn    sqlconn.Conn
	tables  *demo.Tables
	dataDir string
}

func (s *session) Close() error { return s.conn.Close() }

// open connects to the configured database and makes sure the demo schema
// exists. The caller must Close the session.
func (a *app) open(ctx context.Context) (*session, error) {
	dataDir, err := a.dataDir(a.config)
	if err != nil {
		return nil, err
	}
	cfg := connConfig(a.config, dataDir)
	conn, err := sqlconn.Open(cfg, a.logger)
	if err != nil {
		return nil, &exitError{code: exitSysError, err: fmt.Errorf("open database: %w", err)}
	}
	if err := demo.CreateSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, fail("create schema", err)
	}
	tables := demo.NewTables(table.NewRegistry(), conn, table.WithLogger(a.logger))
	return &session{conn: conn, tables: tables, dataDir: dataDir}, nil
}

// withHandle opens a session, looks up the named table and calls fn with it.
func (a *app) withHandle(ctx context.Context, name string, fn func(demo.Handle) error) error {
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := s.tables.Lookup(name)
	if err != nil {
		return fail("lookup", err)
	}
	return fn(h)
}
