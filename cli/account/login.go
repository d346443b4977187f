package account

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"agora/cli/app"
	"agora/httpclient"
)

func initLoginCommand() *cobra.Command {
	loginCommand := &cobra.Command{
		Use:   "login <username>",
		Short: "Signs in and stores the session",
		Example: "  # Prompt for the password\n" +
			"  " + os.Args[0] + " login admin",
		Args: cobra.ExactArgs(1),
		RunE: runLoginCommand,
	}

	loginCommand.Flags().StringVarP(&password, "password", "p", "", "Password (prompted for when omitted)")
	return loginCommand
}

func readPassword(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		return string(raw), err
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLoginCommand(cmd *cobra.Command, args []string) error {
	pass := password
	if !cmd.Flags().Changed("password") {
		var err error
		if pass, err = readPassword(cmd); err != nil {
			return err
		}
	}

	a, err := app.Open(cmd, httpclient.LoginPath)
	if err != nil {
		return err
	}
	defer a.Close()

	auth, err := a.API.Login(cmd.Context(), args[0], pass)
	if err != nil {
		return err
	}

	a.Out.Plain("Logged in as ")
	a.Out.Author("%s", auth.User.Username)
	a.Out.Plain(" (%s)\n", auth.User.Role)
	return nil
}
