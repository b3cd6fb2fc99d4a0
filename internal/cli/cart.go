package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/vitrine/internal/cart"
	"github.com/roach88/vitrine/internal/store"
)

// NewCartCommand creates the cart command group. Every subcommand
// initializes the session cart first, then runs one mutation or read
// against it.
func NewCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and modify the session cart",
		Long:  "Operates on the cart belonging to this profile's session identity. The cart is found or created on first use and survives across invocations.",
	}

	cmd.AddCommand(newCartShowCommand(opts))
	cmd.AddCommand(newCartAddCommand(opts))
	cmd.AddCommand(newCartSetQuantityCommand(opts))
	cmd.AddCommand(newCartRemoveCommand(opts))

	return cmd
}

func newCartShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart's lines and total",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts, func(*cobra.Command, *cart.Manager) error {
				return nil // initialization already loaded the cart
			})
		},
	}
}

func newCartAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Long:  "Adds one unit of the product. Adding a product already in the cart increments its line quantity instead of creating a second line.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts, func(cmd *cobra.Command, m *cart.Manager) error {
				return m.AddItem(cmd.Context(), args[0])
			})
		},
	}
}

func newCartSetQuantityCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-quantity <line-id> <quantity>",
		Short: "Set a cart line's quantity",
		Long:  "Sets the line to the given quantity. Zero removes the line. Unknown line IDs are ignored.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || quantity < 0 {
				return WrapExitError(ExitCommandError, "set quantity", fmt.Errorf("quantity must be a non-negative integer, got %q", args[1]))
			}
			return withCart(cmd, opts, func(cmd *cobra.Command, m *cart.Manager) error {
				return m.SetQuantity(cmd.Context(), args[0], quantity)
			})
		},
	}
}

func newCartRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a cart line",
		Long:  "Removes the line from the cart. Unknown line IDs are ignored.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts, func(cmd *cobra.Command, m *cart.Manager) error {
				return m.RemoveItem(cmd.Context(), args[0])
			})
		},
	}
}

type cartLineRow struct {
	LineID    string `json:"line_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
}

type cartResult struct {
	Lines []cartLineRow `json:"lines"`
	Count int64         `json:"count"`
	Total int64         `json:"total"`
}

// withCart opens the app, initializes the session cart, runs fn, and
// prints the resulting cart projection. Cart operation failures map to
// exit codes via their error codes.
func withCart(cmd *cobra.Command, opts *RootOptions, fn func(*cobra.Command, *cart.Manager) error) error {
	app, err := openApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	manager := cart.New(app.Store, app.Sessions, app.Trace, cart.WithLogger(app.Logger))
	if err := manager.Initialize(cmd.Context()); err != nil {
		return WrapExitError(ExitFailure, "initialize cart", err)
	}

	if err := fn(cmd, manager); err != nil {
		return WrapExitError(ExitFailure, "cart operation", err)
	}

	out := cmd.OutOrStdout()
	if err := printCart(opts, out, manager.Lines(), manager.Count(), manager.Total()); err != nil {
		return err
	}
	printTrace(out, app.Trace)
	return nil
}

func printCart(opts *RootOptions, out io.Writer, lines []store.CartLine, count, total int64) error {
	rows := make([]cartLineRow, len(lines))
	for i, line := range lines {
		rows[i] = cartLineRow{
			LineID:    line.ID,
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
			ImageURL:  line.Product.ImageURL,
		}
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: out}
		return formatter.Success(cartResult{Lines: rows, Count: count, Total: total})
	}

	if len(rows) == 0 {
		fmt.Fprintln(out, "Cart is empty")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tPRODUCT\tQTY\tPRICE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.LineID, r.Name, r.Quantity, formatPrice(r.Price))
	}
	w.Flush()
	fmt.Fprintf(out, "%d items, total %s\n", count, formatPrice(total))
	return nil
}
