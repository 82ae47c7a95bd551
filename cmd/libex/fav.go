package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmunix/libex/internal/catalog"
	"github.com/vmunix/libex/internal/query"
)

type favoriteOutput struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

type favoritesOutput struct {
	Books        []catalog.Book `json:"books"`
	Missing      []string       `json:"missing,omitempty"`     // ids not in the catalog
	Unavailable  []string       `json:"unavailable,omitempty"` // ids not checked, catalog failed
	CatalogError string         `json:"catalog_error,omitempty"`
}

func init() {
	favCmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorites",
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add a book to favorites, or remove it if already there",
		Args:  cobra.ExactArgs(1),
		RunE:  runFavToggle,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List favorite books",
		Args:  cobra.NoArgs,
		RunE:  runFavList,
	}

	favCmd.AddCommand(toggleCmd)
	favCmd.AddCommand(listCmd)
	rootCmd.AddCommand(favCmd)
}

func runFavToggle(cmd *cobra.Command, args []string) error {
	id := args[0]

	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	a.ledger.Load(ctx)
	set, err := a.ledger.Toggle(ctx, id)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, favoriteOutput{ID: id, Favorite: set.Has(id)})
	}

	if set.Has(id) {
		fmt.Fprintf(w, "%s Added %s to favorites\n", heart(true), id)
	} else {
		fmt.Fprintf(w, "%s Removed %s from favorites\n", heart(false), id)
	}
	return nil
}

func runFavList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	books, favs, err := a.load(cmd.Context())
	var loadErr *catalog.LoadError
	if err != nil && !errors.As(err, &loadErr) {
		return err
	}

	c := query.Defaults()
	c.FavoritesOnly = true
	result := a.engine.Evaluate(books, c, favs)

	known := make(map[string]bool, len(result))
	for _, b := range result {
		known[b.ID] = true
	}
	var rest []string
	for _, id := range favs.IDs() {
		if !known[id] {
			rest = append(rest, id)
		}
	}

	// Catalog failures are reported in the output, not returned.
	w := cmd.OutOrStdout()
	if jsonOutput {
		out := favoritesOutput{Books: result}
		if loadErr != nil {
			out.Unavailable = rest
			out.CatalogError = loadErr.Message
		} else {
			out.Missing = rest
		}
		return printJSON(w, out)
	}

	if favs.Len() == 0 {
		fmt.Fprintln(w, "No favorites yet.")
		return nil
	}

	if loadErr != nil {
		fmt.Fprintln(w, errorStyle.Render(loadErr.Message))
		fmt.Fprintln(w)
	}
	if len(result) > 0 {
		printBooks(w, result, favs, len(books))
	}
	if len(rest) > 0 {
		if len(result) > 0 {
			fmt.Fprintln(w)
		}
		if loadErr != nil {
			fmt.Fprintln(w, "Catalog unavailable:")
		} else {
			fmt.Fprintln(w, "Not in the catalog:")
		}
		for _, id := range rest {
			fmt.Fprintf(w, "  %s %s\n", heart(true), id)
		}
	}
	return nil
}
