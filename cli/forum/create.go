package forum

import (
	"github.com/spf13/cobra"

	"agora/cli/app"
	"agora/models"
)

var (
	title       string
	slug        string
	description string
	category    string
)

func initCreateCommand() *cobra.Command {
	createCommand := &cobra.Command{
		Use:   "create --title TITLE --slug SLUG --description TEXT [--category NAME]",
		Short: "Creates a forum",
		Args:  cobra.NoArgs,
		RunE:  runCreateCommand,
	}

	createCommand.Flags().StringVar(&title, "title", "", "Forum title")
	createCommand.Flags().StringVar(&slug, "slug", "", "URL slug (lowercase letters, numbers, hyphens)")
	createCommand.Flags().StringVar(&description, "description", "", "Short description")
	createCommand.Flags().StringVar(&category, "category", string(models.CategoryTechnology), "Technology, Science or Art")
	createCommand.MarkFlagRequired("title")
	createCommand.MarkFlagRequired("slug")

	return createCommand
}

func runCreateCommand(cmd *cobra.Command, args []string) error {
	a, err := app.Open(cmd, "/forums/new")
	if err != nil {
		return err
	}
	defer a.Close()

	forum, err := a.API.CreateForum(cmd.Context(), models.CreateForumRequest{
		Title:       title,
		Slug:        slug,
		Description: description,
		Category:    models.Category(category),
	})
	if err != nil {
		return err
	}

	a.Out.Meta("%s\n", forum.Slug)
	return nil
}
