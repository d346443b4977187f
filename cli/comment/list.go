package comment

import (
	"github.com/spf13/cobra"

	"agora/cli/app"
	"agora/cli/post"
)

func initListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <forum-slug> <number>",
		Short: "Lists a post's comments, newest first",
		Args:  cobra.ExactArgs(2),
		RunE:  runListCommand,
	}
}

func runListCommand(cmd *cobra.Command, args []string) error {
	number, err := post.ParseNumber(args[1])
	if err != nil {
		return err
	}

	a, err := app.Open(cmd, "/forums/"+args[0]+"/"+args[1])
	if err != nil {
		return err
	}
	defer a.Close()

	comments, err := a.API.Comments(cmd.Context(), args[0], number)
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		a.Out.Plain("No comments yet\n")
		return nil
	}

	for _, c := range comments {
		author := c.AuthorID
		if u, err := a.API.User(cmd.Context(), c.AuthorID); err == nil {
			author = u.Username
		}
		a.Out.Author("%s", author)
		a.Out.Meta(" %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
		a.Out.Plain("%s\n", c.Content)
		a.Out.Rule("--------")
	}
	return nil
}
