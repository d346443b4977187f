package account

import "github.com/spf13/cobra"

var (
	password string
)

// Commands returns the session commands, which sit at the top level.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		initLoginCommand(),
		initLogoutCommand(),
		initWhoamiCommand(),
	}
}
