package commands

import (
	"github.com/Kariqs/netshop-api/initializers"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer initializers.CloseDB()
		return openDatabase()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
