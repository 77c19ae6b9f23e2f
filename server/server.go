package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/VYD3N/tezos-music-player/config"
	"github.com/VYD3N/tezos-music-player/core/catalog"
	"github.com/VYD3N/tezos-music-player/core/compose"
	"github.com/VYD3N/tezos-music-player/core/player"
	"github.com/VYD3N/tezos-music-player/db"
	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/repository"
	"github.com/VYD3N/tezos-music-player/storage"
	"github.com/VYD3N/tezos-music-player/store"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog backend.
	var repo repository.TrackRepository
	switch cfg.CatalogBackend {
	case "mysql":
		if err := db.ConnectDB(cfg); err != nil {
			logger.Fatal("failed to connect to database", logger.ErrorField(err))
		}
		defer db.CloseDB()
		if err := db.ConnectGormDB(cfg); err != nil {
			logger.Fatal("failed to connect gorm", logger.ErrorField(err))
		}
		defer db.CloseGormDB()
		if err := db.MigrateSchema(); err != nil {
			logger.Fatal("failed to migrate schema", logger.ErrorField(err))
		}
		repo = repository.NewMySQLTrackRepository(db.DB)
		logger.Info("catalog backend: mysql mirror",
			logger.String("db", cfg.DBName))
	default:
		if info, err := repository.InspectAnonKey(cfg.SupabaseAnonKey); err != nil {
			logger.Warn("could not inspect anon key", logger.ErrorField(err))
		} else {
			logger.Info("catalog backend: hosted REST API",
				logger.String("ref", info.Ref),
				logger.String("role", info.Role),
				logger.Bool("keyExpired", info.Expired()))
		}
		repo = repository.NewRESTTrackRepository(
			cfg.SupabaseURL, cfg.CatalogTable, cfg.SupabaseAnonKey, cfg.CatalogRPS)
	}

	// Playlist persistence.
	var playlistRepo store.Repository
	switch cfg.PlaylistStoreBackend {
	case "redis":
		if db.RedisClient == nil {
			if err := db.ConnectRedis(cfg); err != nil {
				logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
			}
			defer db.CloseRedis()
		}
		playlistRepo = store.NewRedisRepository(db.RedisClient)
		logger.Info("playlist store: redis")
	default:
		playlistRepo = store.NewFileRepository(cfg.PlaylistStorePath)
		logger.Info("playlist store: file", logger.String("path", cfg.PlaylistStorePath))
	}

	playlists := store.NewManager(ctx, playlistRepo)
	if watcher, ok := playlistRepo.(store.Watcher); ok {
		go func() {
			if err := watcher.Watch(ctx, playlists); err != nil {
				logger.Warn("playlist store watcher stopped", logger.ErrorField(err))
			}
		}()
	}

	// Media cache. Missing MinIO config just disables caching.
	if err := storage.InitMinio(cfg); err != nil {
		logger.Warn("media cache unavailable", logger.ErrorField(err))
	}

	client := catalog.NewClient(repo, cfg.IPFSGateway, cfg.ThumbnailPlaceholder)
	composer := compose.NewComposer(client)
	controller := player.NewController(player.NewHTTPSource())

	apiHandler := NewAPIHandler(client, composer, playlists, controller, cfg)

	// Warm the catalog snapshot so queue fallback and local recompute have
	// data before the first request.
	go client.FetchAll(ctx)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Catalog endpoints.
	router.HandleFunc("/api/tracks", apiHandler.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/search", apiHandler.SearchTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/filter", apiHandler.FilterTracksHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/filters/options", apiHandler.FilterOptionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}/stream-url", apiHandler.StreamURLHandler).Methods(http.MethodGet)

	// Playlist endpoints.
	router.HandleFunc("/api/playlists", apiHandler.ListPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", apiHandler.CreatePlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/active", apiHandler.SetActivePlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}", apiHandler.DeletePlaylistHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/tracks/{trackId}", apiHandler.AddPlaylistTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/tracks/{trackId}", apiHandler.RemovePlaylistTrackHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/favorites/{trackId}", apiHandler.ToggleFavoriteHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/recently-played", apiHandler.RecentlyPlayedHandler).Methods(http.MethodGet)

	// Playback session endpoints.
	router.HandleFunc("/api/player", apiHandler.PlayerStateHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/player/load", apiHandler.LoadTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/play", apiHandler.PlayHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/pause", apiHandler.PauseHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/next", apiHandler.NextTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/previous", apiHandler.PreviousTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/ended", apiHandler.TrackEndedHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/ws", apiHandler.PlayerEventsHandler)

	// Media proxy with MinIO-backed caching.
	router.HandleFunc("/media/{cid}", apiHandler.MediaProxyHandler).Methods(http.MethodGet)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", logger.ErrorField(err))
	}
	logger.Info("server stopped")
}
