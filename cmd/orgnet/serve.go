package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ai4socialgood/orgnet/internal/server"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr and ORGNET_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser dashboard",
	Long: `Start the browser dashboard.

Every organization is loaded once at startup; a missing root handle aborts
startup. Settings from a .env file in the working directory are applied as
ORGNET_* environment overrides.

Routes:
  /                                  project overview and organization list
  /orgs/<org>                        both views with their sliders
  /orgs/<org>/views/<view>           rendered view (?first=N&second=N)
  /api/orgs                          organizations with counts and slider bounds
  /api/orgs/<org>/neighborhood       truncated degree sets
  /api/orgs/<org>/views/<view>       render model and stats
  /health, /metrics`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// .env is optional
	_ = godotenv.Load()

	cfg := mustLoadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	log, err := server.NewLogger(cfg.Server.LogLevel)
	if err != nil {
		exitWithError(ExitConfigError, "invalid log level: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := mustLoadCatalog(ctx, cfg)
	for _, d := range catalog.List() {
		s := d.Summary()
		log.WithFields(logrus.Fields{
			"org":    s.Org.Slug,
			"nodes":  s.Nodes,
			"edges":  s.Edges,
			"first":  s.First,
			"second": s.Second,
		}).Info("organization loaded")
	}

	return server.New(ctx, catalog, cfg, log).Run(ctx)
}
