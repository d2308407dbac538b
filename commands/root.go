package commands

import (
	"fmt"
	"os"

	"github.com/Kariqs/netshop-api/initializers"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "netshop",
	Short: "Netshop - catalog, cart and order API",
	Long: `Netshop serves a product catalog of notebooks and smartphones,
customer and anonymous carts, and checkout with order tracking.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initializers.LoadEnv()
		return initializers.InitLogger()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase connects and migrates; every subcommand needs both.
func openDatabase() error {
	if err := initializers.ConnectToDB(); err != nil {
		return err
	}
	return initializers.SyncDatabase()
}
