package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iadityasingh7/news/internal/logging"
	"github.com/iadityasingh7/news/internal/news"
	"github.com/iadityasingh7/news/internal/notice"
)

var (
	flagCursor string
	flagJSON   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <category>",
	Short: "Fetch one page of a category and print it",
	Long: `Fetch a single page of latest, market or crypto news.

Pass the cursor printed by a previous call with --cursor to get the next page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := news.ParseCategory(args[0])
		if err != nil {
			return err
		}
		if !category.Fetchable() {
			return fmt.Errorf("%s is stored locally; use `news likes list`", category)
		}

		cfg, err := setup()
		if err != nil {
			return err
		}
		if cfg.APIKey() == "" {
			return errNoAPIKey
		}

		stderr := cmd.ErrOrStderr()
		client := newClient(cfg, notice.Func(func(n notice.Notice) {
			fmt.Fprintf(stderr, "%s: %s\n", n.Level, n.Message)
		}), logging.WithPrefix("newsdata"))

		page, err := client.Fetch(context.Background(), category, flagCursor)
		if err != nil {
			return err
		}

		if flagJSON {
			return writePageJSON(cmd.OutOrStdout(), page)
		}
		writeArticles(cmd.OutOrStdout(), page.Articles)
		if page.NextCursor != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\nnext cursor: %s\n", page.NextCursor)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&flagCursor, "cursor", "", "continuation cursor from a previous page")
	fetchCmd.Flags().BoolVar(&flagJSON, "json", false, "print the page as JSON")
}

type pageJSON struct {
	Articles   []news.Article `json:"articles"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

func writePageJSON(w io.Writer, page news.Page) error {
	articles := page.Articles
	if articles == nil {
		articles = []news.Article{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pageJSON{Articles: articles, NextCursor: page.NextCursor})
}

func writeArticles(w io.Writer, articles []news.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles.")
		return
	}
	for i, a := range articles {
		fmt.Fprintf(w, "%2d. %s\n    %s · %s\n", i+1, a.Title, a.Publisher, a.URL)
	}
}
