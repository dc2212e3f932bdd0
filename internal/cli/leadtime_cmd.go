package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quotekit/cpq/internal/contract"
)

func newLeadtimeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leadtime",
		Short: "Manage the delivery leadtimes of a product",
	}

	cmd.AddCommand(
		newLeadtimeAddCmd(app),
		newLeadtimeListCmd(app),
		newLeadtimeUpdateCmd(app),
		newLeadtimeRemoveCmd(app),
		newLeadtimeSortCmd(app),
	)

	return cmd
}

func newLeadtimeAddCmd(app *App) *cobra.Command {
	var (
		productID int64
		title     string
		condition string
		days      int
		order     int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a leadtime to a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && app.interactive() {
				if err := nameForm("Leadtime Title", &title).Run(); err != nil {
					return err
				}
			}

			lt, err := app.Leadtimes.Create(context.Background(), productID, contract.SaveLeadtime{
				Title:     title,
				Condition: condition,
				Days:      days,
				SortOrder: order,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created leadtime %d: %s (%d days)\n", lt.ID, lt.Title, lt.Days)
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	cmd.Flags().StringVar(&title, "title", "", "Leadtime title")
	cmd.Flags().StringVar(&condition, "condition", "", "Match condition, empty always matches")
	cmd.Flags().IntVar(&days, "days", 0, "Delivery time in days")
	cmd.Flags().IntVar(&order, "order", 0, "Sort order")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newLeadtimeListCmd(app *App) *cobra.Command {
	var productID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the leadtimes of a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			leadtimes, err := app.Leadtimes.ListByProduct(context.Background(), productID)
			if err != nil {
				return err
			}
			if len(leadtimes) == 0 {
				fmt.Println("No leadtimes found.")
				return nil
			}

			for _, lt := range leadtimes {
				condition := lt.Condition
				if condition == "" {
					condition = "always"
				}
				fmt.Printf("%d\t%s\tif %s\t%d days\t(order %d)\n", lt.ID, lt.Title, condition, lt.Days, lt.SortOrder)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newLeadtimeUpdateCmd(app *App) *cobra.Command {
	var (
		title     string
		condition string
		days      int
		order     int
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a leadtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid leadtime ID: %q", args[0])
			}

			existing, err := app.Leadtimes.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if title == "" {
				title = existing.Title
			}
			if !cmd.Flags().Changed("condition") {
				condition = existing.Condition
			}
			if !cmd.Flags().Changed("days") {
				days = existing.Days
			}
			if !cmd.Flags().Changed("order") {
				order = existing.SortOrder
			}

			lt, err := app.Leadtimes.Update(ctx, id, contract.SaveLeadtime{
				Title:     title,
				Condition: condition,
				Days:      days,
				SortOrder: order,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Updated leadtime %d: %s (%d days)\n", lt.ID, lt.Title, lt.Days)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Leadtime title")
	cmd.Flags().StringVar(&condition, "condition", "", "Match condition, empty always matches")
	cmd.Flags().IntVar(&days, "days", 0, "Delivery time in days")
	cmd.Flags().IntVar(&order, "order", 0, "Sort order")

	return cmd
}

func newLeadtimeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a leadtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid leadtime ID: %q", args[0])
			}
			if err := app.Leadtimes.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Removed leadtime %d\n", id)
			return nil
		},
	}
}

func newLeadtimeSortCmd(app *App) *cobra.Command {
	var (
		productID int64
		pairs     []string
	)

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Reorder the leadtimes of a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseSortEntries(pairs)
			if err != nil {
				return err
			}
			if err := app.Leadtimes.Sort(context.Background(), productID, entries); err != nil {
				return err
			}
			fmt.Printf("Sorted %d leadtimes\n", len(entries))
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	cmd.Flags().StringSliceVar(&pairs, "set", nil, "ID=ORDER pair, repeatable")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}
