package cmd

import (
	"fmt"

	"github.com/blogicum/api-go/services"
	"github.com/spf13/cobra"
)

var (
	categoryTitle       string
	categoryDescription string
	categorySlug        string
	locationName        string
	unpublished         bool
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage post categories",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	Long: `Create a category posts can be filed under.

Examples:
  blogicum category create --title Travel --slug travel
  blogicum category create --title Drafts --slug drafts --unpublished`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		category, err := services.NewCatalogService(db).CreateCategory(cmd.Context(), services.CategoryInput{
			Title:       categoryTitle,
			Description: categoryDescription,
			Slug:        categorySlug,
			IsPublished: !unpublished,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created category %d (%s)\n", category.ID, category.Slug)
		return nil
	},
}

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Manage post locations",
}

var locationCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		location, err := services.NewCatalogService(db).CreateLocation(cmd.Context(), locationName, !unpublished)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created location %d (%s)\n", location.ID, location.Name)
		return nil
	},
}

func init() {
	categoryCreateCmd.Flags().StringVar(&categoryTitle, "title", "", "Category title")
	categoryCreateCmd.Flags().StringVar(&categoryDescription, "description", "", "Category description")
	categoryCreateCmd.Flags().StringVar(&categorySlug, "slug", "", "URL slug (latin letters, digits, - and _)")
	categoryCreateCmd.Flags().BoolVar(&unpublished, "unpublished", false, "Hide the category and its posts")
	_ = categoryCreateCmd.MarkFlagRequired("title")
	_ = categoryCreateCmd.MarkFlagRequired("slug")
	categoryCmd.AddCommand(categoryCreateCmd)

	locationCreateCmd.Flags().StringVar(&locationName, "name", "", "Location name")
	locationCreateCmd.Flags().BoolVar(&unpublished, "unpublished", false, "Mark the location unpublished")
	_ = locationCreateCmd.MarkFlagRequired("name")
	locationCmd.AddCommand(locationCreateCmd)

	rootCmd.AddCommand(categoryCmd, locationCmd)
}
