package account

import (
	"github.com/spf13/cobra"

	"agora/cli/app"
)

func initLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Ends the session, locally even when the server cannot be reached",
		Args:  cobra.NoArgs,
		RunE:  runLogoutCommand,
	}
}

func runLogoutCommand(cmd *cobra.Command, args []string) error {
	a, err := app.Open(cmd, "/")
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.API.Logout(cmd.Context()); err != nil {
		return err
	}
	a.Out.Plain("Logged out\n")
	return nil
}
