package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/iadityasingh7/news/internal/config"
	"github.com/iadityasingh7/news/internal/favorites"
	"github.com/iadityasingh7/news/internal/kv"
	"github.com/iadityasingh7/news/internal/logging"
	"github.com/iadityasingh7/news/internal/newsdata"
	"github.com/iadityasingh7/news/internal/notice"
)

// openStore opens the configured key-value backend.
func openStore(cfg *config.Config) (kv.Store, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case config.BackendRedis:
		store, err := kv.OpenRedis(cfg.Storage.RedisURL, "news:")
		if err != nil {
			return nil, fmt.Errorf("opening redis store: %w", err)
		}
		return store, nil
	default:
		store, err := kv.Open(cfg.StoragePath())
		if err != nil {
			return nil, fmt.Errorf("opening local store: %w", err)
		}
		return store, nil
	}
}

func openFavorites(cfg *config.Config, store kv.Store) *favorites.Store {
	return favorites.New(store,
		favorites.WithKey(cfg.StorageKey()),
		favorites.WithLogger(logging.WithPrefix("favorites")),
	)
}

func newClient(cfg *config.Config, n notice.Notifier, logger *log.Logger) *newsdata.Client {
	return newsdata.New(newsdata.Config{
		BaseURL:           cfg.API.BaseURL,
		APIKey:            cfg.APIKey(),
		Language:          cfg.API.Language,
		PageSize:          cfg.PageSize(),
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	}, newsdata.WithNotifier(n), newsdata.WithLogger(logger))
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Backend: %s\n", backendName(cfg))
		if sq, ok := store.(*kv.SQLite); ok {
			keys, size, err := sq.Stats()
			if err != nil {
				return fmt.Errorf("reading stats: %w", err)
			}
			fmt.Fprintf(out, "Database: %s\n", cfg.StoragePath())
			fmt.Fprintf(out, "Keys: %d\n", keys)
			fmt.Fprintf(out, "Size: %s\n", formatBytes(size))
		} else {
			keys, err := store.Keys()
			if err != nil {
				return fmt.Errorf("listing keys: %w", err)
			}
			fmt.Fprintf(out, "Server: %s\n", cfg.Storage.RedisURL)
			fmt.Fprintf(out, "Keys: %d\n", len(keys))
		}
		fmt.Fprintf(out, "Liked articles: %d\n", len(openFavorites(cfg, store).List()))
		return nil
	},
}

func backendName(cfg *config.Config) string {
	if strings.EqualFold(cfg.Storage.Backend, config.BackendRedis) {
		return config.BackendRedis
	}
	return config.BackendSQLite
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
