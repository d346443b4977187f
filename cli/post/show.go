package post

import (
	"github.com/spf13/cobra"

	"agora/cli/app"
	"agora/render"
)

var (
	asHTML bool
)

func initShowCommand() *cobra.Command {
	showCommand := &cobra.Command{
		Use:   "show <forum-slug> <number>",
		Short: "Shows a post and its comments",
		Args:  cobra.ExactArgs(2),
		RunE:  runShowCommand,
	}

	showCommand.Flags().BoolVar(&asHTML, "html", false, "Render the post content as HTML")
	return showCommand
}

func runShowCommand(cmd *cobra.Command, args []string) error {
	slug := args[0]
	number, err := ParseNumber(args[1])
	if err != nil {
		return err
	}

	a, err := app.Open(cmd, "/forums/"+slug+"/"+args[1])
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	p, err := a.API.Post(ctx, slug, number)
	if err != nil {
		return err
	}
	comments, err := a.API.Comments(ctx, slug, number)
	if err != nil {
		return err
	}
	names := authorNames(ctx, a.API)

	a.Out.Heading("%s", p.Title)
	a.Out.Plain(" by ")
	a.Out.Author("%s", authorName(names, p.AuthorID))
	a.Out.Plain(" on %s%s", p.CreatedAt.Format("2006-01-02 15:04"), edited(p))
	printTags(a.Out, p.Tags)
	a.Out.Plain("\n")
	a.Out.Rule("========")
	if asHTML {
		a.Out.Plain("%s", render.Markdown(p.Content))
	} else {
		a.Out.Plain("%s\n", p.Content)
	}
	a.Out.Rule("========")

	a.Out.Plain("%d comments\n", len(comments))
	for _, c := range comments {
		a.Out.Author("%s", authorName(names, c.AuthorID))
		a.Out.Meta(" %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
		a.Out.Plain("%s\n", c.Content)
		a.Out.Rule("--------")
	}
	return nil
}
