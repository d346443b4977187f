package post

import (
	"github.com/spf13/cobra"

	"agora/cli/app"
	"agora/render"
)

var (
	page     int
	pageSize int
)

func initListCommand() *cobra.Command {
	listCommand := &cobra.Command{
		Use:   "list <forum-slug>",
		Short: "Lists one page of a forum's posts, newest first",
		Args:  cobra.ExactArgs(1),
		RunE:  runListCommand,
	}

	listCommand.Flags().IntVar(&page, "page", 1, "Page number")
	listCommand.Flags().IntVar(&pageSize, "page-size", 10, "Posts per page (1-100)")
	return listCommand
}

func runListCommand(cmd *cobra.Command, args []string) error {
	slug := args[0]
	a, err := app.Open(cmd, "/forums/"+slug)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	forum, err := a.API.Forum(ctx, slug)
	if err != nil {
		return err
	}
	posts, err := a.API.Posts(ctx, slug, page, pageSize)
	if err != nil {
		return err
	}
	names := authorNames(ctx, a.API)

	a.Out.Heading("%s\n", forum.Title)
	a.Out.Rule("========")
	if len(posts.Items) == 0 {
		a.Out.Plain("No posts on this page\n")
	}
	for _, p := range posts.Items {
		a.Out.Meta("#%-4d", p.Number)
		a.Out.Plain(" %s", p.Title)
		printTags(a.Out, p.Tags)
		a.Out.Plain("\n      by ")
		a.Out.Author("%s", authorName(names, p.AuthorID))
		a.Out.Plain(" on %s%s\n", p.CreatedAt.Format("2006-01-02"), edited(p))
		a.Out.Plain("      %s\n", render.Excerpt(p.Content, 72))
	}
	a.Out.Rule("--------")
	a.Out.Plain("Page %d of %d (%d posts)\n", posts.Page, posts.TotalPages, posts.TotalCount)
	return nil
}
