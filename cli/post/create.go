package post

import (
	"github.com/spf13/cobra"

	"agora/api"
	"agora/cli/app"
	"agora/models"
)

var (
	title   string
	content string
	tags    string
)

func initCreateCommand() *cobra.Command {
	createCommand := &cobra.Command{
		Use:   "create <forum-slug> --title TITLE --content TEXT [--tags a,b]",
		Short: "Creates a post",
		Args:  cobra.ExactArgs(1),
		RunE:  runCreateCommand,
	}

	createCommand.Flags().StringVar(&title, "title", "", "Post title")
	createCommand.Flags().StringVar(&content, "content", "", "Post content (Markdown)")
	createCommand.Flags().StringVar(&tags, "tags", "", "Comma separated tags")
	return createCommand
}

func runCreateCommand(cmd *cobra.Command, args []string) error {
	slug := args[0]
	a, err := app.Open(cmd, "/forums/"+slug+"/new")
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.API.CreatePost(cmd.Context(), slug, models.CreatePostRequest{
		Title:   title,
		Content: content,
		Tags:    api.ParseTags(tags),
	})
	if err != nil {
		return err
	}

	a.Out.Meta("#%d", p.Number)
	a.Out.Plain(" %s\n", a.Nav.CurrentPath())
	return nil
}
