package main

import (
	"os"

	"github.com/plotline/mono-repo/backend/services/listing-service/internal/config"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "listingctl",
	Short: "Administer the listing-service database",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(config.AppName)
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
