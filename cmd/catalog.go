package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/VYD3N/tezos-music-player/config"
	"github.com/VYD3N/tezos-music-player/db"
	"github.com/VYD3N/tezos-music-player/repository"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog mirror management",
}

var catalogSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy the hosted catalog into the local MySQL mirror",
	Long: `Fetch every row from the hosted catalog API and upsert it into the
local audio_nfts mirror table, creating the schema when needed. Run this
before switching CATALOG_BACKEND to mysql.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.CloseGormDB()
		if err := db.MigrateSchema(); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}

		repo := repository.NewRESTTrackRepository(
			cfg.SupabaseURL, cfg.CatalogTable, cfg.SupabaseAnonKey, cfg.CatalogRPS)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		rows, err := repo.FetchAll(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch catalog: %v", err)
		}
		fmt.Printf("Fetched %d catalog rows.\n", len(rows))

		if err := db.UpsertMirrorRows(rows); err != nil {
			log.Fatalf("Failed to write mirror rows: %v", err)
		}

		count, err := db.MirrorRowCount()
		if err != nil {
			log.Fatalf("Failed to count mirror rows: %v", err)
		}
		fmt.Printf("Mirror now holds %d rows.\n", count)
	},
}

var catalogKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Inspect the configured catalog API key",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		info, err := repository.InspectAnonKey(cfg.SupabaseAnonKey)
		if err != nil {
			log.Fatalf("Failed to parse key: %v", err)
		}
		fmt.Printf("Project ref: %s\n", info.Ref)
		fmt.Printf("Role:        %s\n", info.Role)
		if !info.ExpiresAt.IsZero() {
			fmt.Printf("Expires:     %s (expired: %v)\n",
				info.ExpiresAt.Format(time.RFC3339), info.Expired())
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogSyncCmd)
	catalogCmd.AddCommand(catalogKeyCmd)
}
