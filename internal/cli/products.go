package cli

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/vitrine/internal/filter"
)

// NewProductsCommand creates the products command, which lists catalog
// products filtered and sorted the way the storefront grid does.
func NewProductsCommand(opts *RootOptions) *cobra.Command {
	state := filter.DefaultState()

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products matching a filter state",
		Long:  "Compiles the given search, category, color, storage, and sort criteria into one query, runs it against the store, and prints the matching products. With --trace the compiled query is shown too.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProducts(cmd, opts, state)
		},
	}

	cmd.Flags().StringVar(&state.Search, "search", "", "substring match on product name")
	cmd.Flags().StringVar(&state.Category, "category", filter.CategoryAll, "category filter")
	cmd.Flags().StringVar(&state.SortBy, "sort", filter.SortNameAsc, "sort order (name-asc|name-desc|price-asc|price-desc)")
	cmd.Flags().StringSliceVar(&state.Colors, "color", nil, "color filter (repeatable)")
	cmd.Flags().StringSliceVar(&state.Storage, "storage", nil, "storage filter, display units (repeatable)")

	return cmd
}

type productRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Color    string `json:"color,omitempty"`
	Storage  int64  `json:"storage,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

func runProducts(cmd *cobra.Command, opts *RootOptions, state filter.State) error {
	if err := validateFilterState(state); err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	app, err := openApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	compiled := filter.Compile(state)
	compiled.Emit(app.Trace)

	products, err := app.Store.SearchProducts(ctx, compiled.Query)
	if err != nil {
		return WrapExitError(ExitFailure, "list products", err)
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	images, err := app.Store.PrimaryImages(ctx, ids)
	if err != nil {
		return WrapExitError(ExitFailure, "list products", err)
	}

	rows := make([]productRow, len(products))
	for i, p := range products {
		rows[i] = productRow{
			ID:       p.ID,
			Name:     p.Name,
			Slug:     p.Slug,
			Price:    p.Price,
			Category: p.Category,
			Color:    p.Color,
			Storage:  p.Storage,
			ImageURL: images[p.ID],
		}
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: out}
		if err := formatter.Success(rows); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCATEGORY\tCOLOR\tPRICE")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Category, r.Color, formatPrice(r.Price))
		}
		w.Flush()
		fmt.Fprintf(out, "%d products\n", len(rows))
	}

	printTrace(out, app.Trace)
	return nil
}

// validateFilterState rejects values the storefront never offers. Sort
// keys are exempt: the compiler defines a fallback for unknown ones.
func validateFilterState(state filter.State) error {
	if !slices.Contains(filter.Categories, state.Category) {
		return fmt.Errorf("unknown category %q: must be one of %v", state.Category, filter.Categories)
	}
	for _, c := range state.Colors {
		if !slices.Contains(filter.Colors, c) {
			return fmt.Errorf("unknown color %q: must be one of %v", c, filter.Colors)
		}
	}
	for _, s := range state.Storage {
		if !slices.Contains(filter.StorageOptions, s) {
			return fmt.Errorf("unknown storage option %q: must be one of %v", s, filter.StorageOptions)
		}
	}
	return nil
}

// formatPrice renders integer cents as dollars.
func formatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
