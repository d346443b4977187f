package account

import (
	"github.com/spf13/cobra"

	"agora/cli/app"
)

func initWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Shows the signed-in user",
		Args:  cobra.NoArgs,
		RunE:  runWhoamiCommand,
	}
}

func runWhoamiCommand(cmd *cobra.Command, args []string) error {
	a, err := app.Open(cmd, "/")
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.API.CurrentUser(cmd.Context())
	if err != nil {
		return err
	}
	if user == nil {
		return app.ErrNotLoggedIn
	}

	a.Out.Author("%s", user.Username)
	a.Out.Plain(" (%s) ", user.Role)
	a.Out.Meta("%s\n", user.ID)
	return nil
}
