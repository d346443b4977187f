package forum

import (
	"os"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	forumCommand := &cobra.Command{
		Use:   "forum",
		Short: "Commands for browsing and creating forums",
		Example: "  # List forums by category\n" +
			"  " + os.Args[0] + " forum list",
	}

	forumCommand.AddCommand(initListCommand())
	forumCommand.AddCommand(initCreateCommand())

	return forumCommand
}
