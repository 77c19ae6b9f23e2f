package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/VYD3N/tezos-music-player/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tzmusic",
	Short: "tzmusic streams audio NFTs minted on Tezos.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting tzmusic server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
