package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iadityasingh7/news/internal/feed"
	"github.com/iadityasingh7/news/internal/logging"
	"github.com/iadityasingh7/news/internal/news"
	"github.com/iadityasingh7/news/internal/notice"
	"github.com/iadityasingh7/news/internal/tui"
)

var errNoAPIKey = errors.New("no API key: set api.api_key in the config file or NEWSDATA_API_KEY in the environment")

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	start := cfg.StartCategory()
	if flagCategory != "" {
		if start, err = news.ParseCategory(flagCategory); err != nil {
			return err
		}
	}
	if cfg.APIKey() == "" && start != news.Likes {
		return errNoAPIKey
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := logging.Logger()
	queue := notice.NewQueue(16)
	client := newClient(cfg,
		notice.Multi(queue, notice.Log{Logger: logger.WithPrefix("notice")}),
		logger.WithPrefix("newsdata"),
	)
	engine := feed.New(client, openFavorites(cfg, store),
		feed.WithLogger(logger.WithPrefix("feed")),
		feed.WithStartCategory(start),
	)
	logging.Info("session started", "session", engine.Session(), "category", start)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := tui.Run(ctx, tui.RunOpts{
		Engine:            engine,
		Notices:           queue,
		Logger:            logger.WithPrefix("tui"),
		NoticeTTL:         cfg.NoticeTTL(),
		PrefetchThreshold: cfg.PrefetchThreshold(),
		Version:           version,
		CheckUpdates:      cfg.CheckUpdates,
	}); err != nil {
		return fmt.Errorf("running reader: %w", err)
	}
	return nil
}
