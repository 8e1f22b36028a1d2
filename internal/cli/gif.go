package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/nekoapi"
)

func (c *CLI) gifCommand() *cobra.Command {
	var (
		api    apiFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "gif <category> <name>",
		Short: "Look up a gif by category and name",
		Long: `Look up a gif from the neko API and print its URL.

Categories are "action" and "reaction". Run "neekuro gif list" for the names.`,
		Example: `  neekuro gif action hug
  neekuro gif reaction blush --json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeGif,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGif(cmd, api.client(cmd), nekoapi.Category(args[0]), args[1], asJSON)
		},
	}

	api.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.AddCommand(c.gifListCommand())
	cmd.AddCommand(c.gifBrowseCommand())
	return cmd
}

func (c *CLI) runGif(cmd *cobra.Command, client *nekoapi.Client, category nekoapi.Category, name string, asJSON bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	logger.Debug("Requesting gif", "category", category, "name", name, "api", client.BaseURL())

	gif, err := client.GetGif(ctx, category, name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, gif)
	}
	printKeyValue(out, "url", gif.URL())
	if anime, ok := gif.Anime(); ok {
		printKeyValue(out, "anime", anime)
	}
	return nil
}

func (c *CLI) gifListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "list [category]",
		Short:     "List the known gif names",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := nekoapi.Categories()
			if len(args) == 1 {
				cat := nekoapi.Category(args[0])
				if !cat.Valid() {
					return errs.Validation("category", "unknown category %q, use one of %s",
						cat, strings.Join(categoryNames(), ", "))
				}
				categories = []nekoapi.Category{cat}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				listing := make(map[nekoapi.Category][]string, len(categories))
				for _, cat := range categories {
					listing[cat] = nekoapi.Gifs(cat)
				}
				return writeJSON(out, listing)
			}
			for _, cat := range categories {
				names := nekoapi.Gifs(cat)
				printHeading(out, fmt.Sprintf("%s (%d)", cat, len(names)))
				for _, name := range names {
					fmt.Fprintln(out, "  "+name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}

func categoryNames() []string {
	var names []string
	for _, c := range nekoapi.Categories() {
		names = append(names, string(c))
	}
	return names
}

// completeGif completes the category, then the gif name within it.
func completeGif(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return categoryNames(), cobra.ShellCompDirectiveNoFileComp
	case 1:
		return nekoapi.Gifs(nekoapi.Category(args[0])), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
