package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adfharrison1/go-arango/pkg/arango"
	"github.com/adfharrison1/go-arango/pkg/config"
	"github.com/adfharrison1/go-arango/pkg/logging"
)

// globalFlags override the config file and environment
type globalFlags struct {
	configFile string
	url        string
	database   string
	username   string
	password   string
	debug      bool
}

// app carries what the subcommands share
type app struct {
	flags  globalFlags
	cfg    config.Config
	logger *zap.Logger
	db     *arango.Database
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "arangoctl",
		Short: "arangoctl - command line client for ArangoDB",
		Long: `arangoctl talks to an ArangoDB server over its REST API.

Configuration is read from --config (YAML), then ARANGO_* environment
variables, then the flags below.`,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "Path to a YAML config file")
	pf.StringVar(&a.flags.url, "url", "", "Server endpoint, e.g. http://localhost:8529")
	pf.StringVar(&a.flags.database, "database", "", "Database name")
	pf.StringVar(&a.flags.username, "user", "", "Username for basic auth")
	pf.StringVar(&a.flags.password, "password", "", "Password for basic auth")
	pf.BoolVar(&a.flags.debug, "debug", false, "Log every request")

	root.AddCommand(
		newCollectionsCmd(a),
		newCreateCollectionCmd(a),
		newQueryCmd(a),
		newDumpCmd(a),
		newRestoreCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads the configuration and opens the database
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.flags.configFile)
	if err != nil {
		return err
	}
	if a.flags.url != "" {
		cfg.URL = a.flags.url
	}
	if a.flags.database != "" {
		cfg.Database = a.flags.database
	}
	if a.flags.username != "" {
		cfg.Username = a.flags.username
		cfg.Password = a.flags.password
	}
	if a.flags.debug {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	a.logger = logger

	opts := []arango.DatabaseOption{
		arango.WithURL(cfg.URL),
		arango.WithLogger(logger),
		arango.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.Database != "" && cfg.Database != "_system" {
		opts = append(opts, arango.WithName(cfg.Database))
	}
	if cfg.Username != "" {
		opts = append(opts, arango.WithBasicAuth(cfg.Username, cfg.Password))
	}
	db, err := arango.NewDatabase(opts...)
	if err != nil {
		return err
	}
	a.db = db
	return nil
}
