package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"palantir/internal/render"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the dataset and print row counts and warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrames(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source: %s\n", f.Source)
			fmt.Fprintf(out, "orders: %s\n", render.Count(len(f.Orders)))
			fmt.Fprintf(out, "order items: %s\n", render.Count(len(f.Items)))
			fmt.Fprintf(out, "products: %s\n", render.Count(len(f.Products)))
			for _, w := range f.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			if len(f.Orders) == 0 {
				return fmt.Errorf("dataset has no orders")
			}
			return nil
		},
	}
	return cmd
}
