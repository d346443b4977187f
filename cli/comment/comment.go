package comment

import (
	"os"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	commentCommand := &cobra.Command{
		Use:   "comment",
		Short: "Commands for reading and adding comments",
		Example: "  # Comment on post 3\n" +
			"  " + os.Args[0] + " comment add web-development 3 \"Nice write-up\"",
	}

	commentCommand.AddCommand(initListCommand())
	commentCommand.AddCommand(initAddCommand())

	return commentCommand
}
