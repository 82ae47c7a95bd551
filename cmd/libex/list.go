package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/libex/internal/catalog"
	"github.com/vmunix/libex/internal/query"
)

const suggestionLimit = 3

type bookOutput struct {
	catalog.Book
	Favorite bool `json:"favorite"`
}

type listOutput struct {
	Total       int          `json:"total"`
	Count       int          `json:"count"`
	Books       []bookOutput `json:"books"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List books matching the given filters",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	listCmd.Flags().StringP("search", "s", "", "Case-insensitive text to find in title or author")
	listCmd.Flags().String("sort", string(query.SortTitleAZ), "Sort order (titleAZ, titleZA, ratingHL, ratingLH)")
	listCmd.Flags().StringP("tag", "t", "", "Only books with this tag")
	listCmd.Flags().IntP("min-rating", "r", 0, "Minimum rating (0-5)")
	listCmd.Flags().BoolP("favorites", "f", false, "Only favorites")

	rootCmd.AddCommand(listCmd)
}

func criteriaFromFlags(cmd *cobra.Command) (query.Criteria, error) {
	c := query.Defaults()

	c.Search, _ = cmd.Flags().GetString("search")
	c.MinRating, _ = cmd.Flags().GetInt("min-rating")
	c.FavoritesOnly, _ = cmd.Flags().GetBool("favorites")

	sortFlag, _ := cmd.Flags().GetString("sort")
	mode, err := query.ParseSortMode(sortFlag)
	if err != nil {
		return c, err
	}
	c.Sort = mode

	if tagFlag, _ := cmd.Flags().GetString("tag"); tagFlag != "" {
		tag, err := catalog.ParseTag(tagFlag)
		if err != nil {
			return c, err
		}
		c = c.WithTag(tag)
	}

	return c, c.Validate()
}

func runList(cmd *cobra.Command, _ []string) error {
	c, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	books, favs, err := a.load(cmd.Context())
	if err != nil {
		return err
	}

	result := a.engine.Evaluate(books, c, favs)

	var suggestions []string
	if len(result) == 0 && c.Search != "" {
		suggestions = query.Suggest(books, c.Search, suggestionLimit)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		out := listOutput{
			Total:       len(books),
			Count:       len(result),
			Books:       make([]bookOutput, 0, len(result)),
			Suggestions: suggestions,
		}
		for _, b := range result {
			out.Books = append(out.Books, bookOutput{Book: b, Favorite: favs.Has(b.ID)})
		}
		return printJSON(w, out)
	}

	if len(result) == 0 {
		fmt.Fprintln(w, "No books match these filters.")
		if len(suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s?\n", joinQuoted(suggestions))
		}
		return nil
	}

	printBooks(w, result, favs, len(books))
	return nil
}

func joinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return strings.Join(quoted, ", ")
}
