package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iadityasingh7/news/internal/news"
)

var likesCmd = &cobra.Command{
	Use:   "likes",
	Short: "Manage liked articles",
}

var likesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List liked articles",
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

		likes := openFavorites(cfg, store).List()
		if flagJSON {
			return writePageJSON(cmd.OutOrStdout(), news.Page{Articles: likes})
		}
		if len(likes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No liked articles yet.")
			return nil
		}
		writeArticles(cmd.OutOrStdout(), likes)
		return nil
	},
}

var likesRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Remove an article from the likes",
	Args:  cobra.ExactArgs(1),
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

		favs := openFavorites(cfg, store)
		if !favs.Contains(args[0]) {
			return fmt.Errorf("not liked: %s", args[0])
		}
		left := favs.Remove(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Removed. %d liked article(s) left.\n", len(left))
		return nil
	},
}

var likesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every liked article",
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

		favs := openFavorites(cfg, store)
		n := len(favs.List())
		favs.Clear()
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d liked article(s).\n", n)
		return nil
	},
}

func init() {
	likesListCmd.Flags().BoolVar(&flagJSON, "json", false, "print the likes as JSON")

	likesCmd.AddCommand(likesListCmd)
	likesCmd.AddCommand(likesRemoveCmd)
	likesCmd.AddCommand(likesClearCmd)
}
