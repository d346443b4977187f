package comment

import (
	"strings"

	"github.com/spf13/cobra"

	"agora/cli/app"
	"agora/cli/post"
)

func initAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <forum-slug> <number> <content...>",
		Short: "Adds a comment to a post",
		Args:  cobra.MinimumNArgs(3),
		RunE:  runAddCommand,
	}
}

func runAddCommand(cmd *cobra.Command, args []string) error {
	number, err := post.ParseNumber(args[1])
	if err != nil {
		return err
	}

	a, err := app.Open(cmd, "/forums/"+args[0]+"/"+args[1])
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.API.CreateComment(cmd.Context(), args[0], number, strings.Join(args[2:], " "))
	if err != nil {
		return err
	}

	a.Out.Success("Comment added")
	a.Out.Meta("%s\n", c.ID)
	return nil
}
