package cmd

import (
	"github.com/VYD3N/tezos-music-player/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the tzmusic HTTP server",
	Long:  `Start the HTTP server serving the catalog, playlist and playback APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
