package main

import (
	"fmt"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	listCategory string
	listStatus   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create tables and load the default category catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.Migrate(current.storage.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := current.catalog.Seed(cmd.Context()); err != nil {
			return err
		}
		categories := current.catalog.ListCategories(cmd.Context())
		fmt.Printf("Catalog ready with %d categories.\n", len(categories))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List complaints visible to the signed-in principal",
	Long: `Admins see every complaint, optionally filtered; students see their own.

Examples:
  admin list
  admin list --status pending
  admin list --category 33333333-3333-3333-3333-333333333333`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := current.principal(cmd.Context())
		if err != nil {
			return err
		}

		var complaints []models.Complaint
		if p.IsAdmin() {
			complaints, err = current.complaints.ListAll(cmd.Context(), p, models.ComplaintFilter{
				CategoryID: listCategory,
				Status:     models.Status(listStatus),
			})
		} else {
			complaints, err = current.complaints.ListByAuthor(cmd.Context(), p, p.ID)
		}
		if err != nil {
			return err
		}

		if len(complaints) == 0 {
			fmt.Println("No complaints.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tSTATUS\tCATEGORY\tTITLE\tFILED")
		for _, c := range complaints {
			category := c.CategoryID
			if c.Category != nil {
				category = c.Category.Title
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Status, category, c.Title, c.CreatedAt.Format(time.DateOnly))
		}
		return w.Flush()
	},
}

var setStatusCmd = &cobra.Command{
	Use:   "set-status <complaint-id> <status>",
	Short: "Change a complaint's status (admin)",
	Long: `Change a complaint's status. Valid statuses: pending, seen, "in progress", resolved, rejected.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := current.principal(cmd.Context())
		if err != nil {
			return err
		}
		updatedAt, err := current.complaints.UpdateStatus(cmd.Context(), p, args[0], models.Status(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("Complaint %s is now %s (updated %s).\n", args[0], args[1], updatedAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, listCmd, setStatusCmd)

	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category ID (admin)")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (admin)")
}
