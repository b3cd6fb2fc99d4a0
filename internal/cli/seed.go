package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vitrine/internal/catalog"
)

// NewSeedCommand creates the seed command, which validates a catalog file
// and loads it into the store.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a product catalog into the store",
		Long:  "Validates a YAML catalog file against the product schema and upserts its products and images. Re-seeding the same file is idempotent.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file to load (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

type seedResult struct {
	Products int `json:"products"`
	Images   int `json:"images"`
}

func runSeed(cmd *cobra.Command, opts *RootOptions, file string) error {
	seed, err := catalog.LoadSeed(file)
	if err != nil {
		return WrapExitError(ExitCommandError, "load catalog", err)
	}

	app, err := openApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	products, images := seed.Flatten()

	for _, p := range products {
		if err := app.Store.InsertProduct(ctx, p); err != nil {
			return WrapExitError(ExitFailure, "seed catalog", err)
		}
	}
	for _, img := range images {
		if err := app.Store.InsertImage(ctx, img); err != nil {
			return WrapExitError(ExitFailure, "seed catalog", err)
		}
	}

	app.Logger.Debug("catalog seeded", "products", len(products), "images", len(images))

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return formatter.Success(seedResult{Products: len(products), Images: len(images)})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products, %d images\n", len(products), len(images))
	return nil
}
