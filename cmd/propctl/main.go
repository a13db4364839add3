// Command propctl runs operational tasks against the property API's store:
// schema migrations, billing sweeps and developer tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/property-api/internal/app"
	"github.com/jwalitptl/property-api/internal/config"
	"github.com/jwalitptl/property-api/pkg/logger"
)

type globals struct {
	configFile string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "propctl",
		Short:         "Operational tooling for the property API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVar(&g.configFile, "config", "", "path to config file")

	root.AddCommand(
		newMigrateCmd(g),
		newInvoicesCmd(g),
		newPlansCmd(),
		newTokenCmd(g),
	)
	return root
}

func (g *globals) load() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewLogger(cfg.Logging), nil
}
