package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quotekit/cpq/internal/contract"
)

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products within a version",
	}

	cmd.AddCommand(
		newProductAddCmd(app),
		newProductListCmd(app),
		newProductUpdateCmd(app),
		newProductRemoveCmd(app),
		newProductSortCmd(app),
	)

	return cmd
}

func newProductAddCmd(app *App) *cobra.Command {
	var (
		versionRef string
		name       string
		code       string
		order      int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to a version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			versionID, err := resolveVersionID(ctx, app, versionRef)
			if err != nil {
				return err
			}

			if (name == "" || code == "") && app.interactive() {
				if err := productForm(&name, &code).Run(); err != nil {
					return err
				}
			}

			p, err := app.Products.Create(ctx, versionID, contract.SaveProduct{
				Name:      name,
				Code:      code,
				SortOrder: order,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created product %d: %s (%s)\n", p.ID, p.Name, p.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&versionRef, "version", "", "Version ID or uuid")
	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&code, "code", "", "Product code")
	cmd.Flags().IntVar(&order, "order", 0, "Sort order")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func newProductListCmd(app *App) *cobra.Command {
	var versionRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the products of a version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			versionID, err := resolveVersionID(ctx, app, versionRef)
			if err != nil {
				return err
			}

			products, err := app.Products.ListByVersion(ctx, versionID)
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Println("No products found.")
				return nil
			}

			for _, p := range products {
				fmt.Printf("%d\t%s\t%s\t(order %d)\n", p.ID, p.Code, p.Name, p.SortOrder)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&versionRef, "version", "", "Version ID or uuid")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func newProductUpdateCmd(app *App) *cobra.Command {
	var (
		name  string
		code  string
		order int
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product ID: %q", args[0])
			}

			existing, err := app.Products.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if name == "" {
				name = existing.Name
			}
			if code == "" {
				code = existing.Code
			}
			if !cmd.Flags().Changed("order") {
				order = existing.SortOrder
			}

			p, err := app.Products.Update(ctx, id, contract.SaveProduct{
				Name:      name,
				Code:      code,
				SortOrder: order,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Updated product %d: %s (%s)\n", p.ID, p.Name, p.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&code, "code", "", "Product code")
	cmd.Flags().IntVar(&order, "order", 0, "Sort order")

	return cmd
}

func newProductRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a product and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product ID: %q", args[0])
			}
			if err := app.Products.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Removed product %d\n", id)
			return nil
		},
	}
}

// parseSortEntries turns "id=order" pairs into sort entries.
func parseSortEntries(pairs []string) ([]contract.SortEntry, error) {
	entries := make([]contract.SortEntry, 0, len(pairs))
	for _, pair := range pairs {
		id, order, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid sort entry %q, expected ID=ORDER", pair)
		}
		entryID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sort entry %q: %w", pair, err)
		}
		sortOrder, err := strconv.Atoi(order)
		if err != nil {
			return nil, fmt.Errorf("invalid sort entry %q: %w", pair, err)
		}
		entries = append(entries, contract.SortEntry{ID: entryID, SortOrder: sortOrder})
	}
	return entries, nil
}

func newProductSortCmd(app *App) *cobra.Command {
	var (
		versionRef string
		pairs      []string
	)

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Reorder the products of a version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			versionID, err := resolveVersionID(ctx, app, versionRef)
			if err != nil {
				return err
			}
			entries, err := parseSortEntries(pairs)
			if err != nil {
				return err
			}
			if err := app.Products.Sort(ctx, versionID, entries); err != nil {
				return err
			}
			fmt.Printf("Sorted %d products\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&versionRef, "version", "", "Version ID or uuid")
	cmd.Flags().StringSliceVar(&pairs, "set", nil, "ID=ORDER pair, repeatable")
	_ = cmd.MarkFlagRequired("version")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}
