//	@title			depositd API
//	@version		1.0
//	@description	Deposit lifecycle and approval service.
//	@BasePath		/
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerline/depositd/internal/interfaces/cli/migrate"
	"github.com/ledgerline/depositd/internal/interfaces/cli/server"
	"github.com/ledgerline/depositd/internal/interfaces/cli/user"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "depositd",
		Short: "depositd - deposit lifecycle service",
		Long:  `depositd records crypto deposits, approves them against a USD price oracle and keeps each user's total investment.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		user.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
