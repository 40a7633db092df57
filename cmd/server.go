package cmd

import (
	"distrofm/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the DistroFM HTTP server",
	Long:  `Start the catalog distribution HTTP server: release entry, metadata validation, platform delivery and bulk import.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
