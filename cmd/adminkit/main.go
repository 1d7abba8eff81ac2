// Command adminkit serves the admin panel and inspects its route and
// drawer tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	aerrors "github.com/vango-dev/adminkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		if _, ok := err.(*aerrors.Error); ok {
			aerrors.PrintError(err)
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:   "adminkit",
		Short: "Admin panel server with domain modules and drawers",
		Long: `adminkit serves an admin panel built from domain modules.

Modules register routes and sidebar entries; drawers are side panels
stacked on top of any page, kept per browser session.

Examples:
  adminkit serve
  adminkit serve --addr :9000 --config ./adminkit.yaml
  adminkit routes
  adminkit match /products/42`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to adminkit.json or adminkit.yaml (default: search from the working directory)")
	root.PersistentFlags().BoolVar(&opts.noDemo, "no-demo", false, "Do not register the demo inventory domain")

	root.AddCommand(
		serveCmd(&opts),
		routesCmd(&opts),
		sidebarCmd(&opts),
		matchCmd(&opts),
		drawersCmd(&opts),
		versionCmd(),
	)
	return root
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
