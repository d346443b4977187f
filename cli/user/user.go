package user

import (
	"github.com/spf13/cobra"

	"agora/cli/app"
)

func NewCommand() *cobra.Command {
	userCommand := &cobra.Command{
		Use:   "user",
		Short: "Commands for listing users",
	}

	userCommand.AddCommand(initListCommand())

	return userCommand
}

func initListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists every user",
		Args:  cobra.NoArgs,
		RunE:  runListCommand,
	}
}

func runListCommand(cmd *cobra.Command, args []string) error {
	a, err := app.Open(cmd, "/users")
	if err != nil {
		return err
	}
	defer a.Close()

	users, err := a.API.Users(cmd.Context())
	if err != nil {
		return err
	}
	for _, u := range users {
		a.Out.Author("%-12s", u.Username)
		a.Out.Plain(" %-6s ", u.Role)
		a.Out.Meta("%s\n", u.ID)
	}
	return nil
}
