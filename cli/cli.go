package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"agora/cli/account"
	"agora/cli/app"
	"agora/cli/comment"
	"agora/cli/forum"
	"agora/cli/post"
	"agora/cli/serve"
	"agora/cli/user"
	"agora/common"
)

func NewCommand() *cobra.Command {
	agoraCli := &cobra.Command{
		Use:     "agora",
		Short:   "Agora CLI",
		Long:    "Agora forum client. Without --base-url it talks to a local mock backend.",
		Example: fmt.Sprintf("  %s <command> [flags...]", os.Args[0]),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			common.LoadEnv()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	common.SetDefaults(viper.GetViper())

	flags := agoraCli.PersistentFlags()
	flags.String("base-url", "", "Backend base URL (empty uses the mock backend)")
	flags.String("session-file", viper.GetString(common.KeySessionFile), "File holding the stored session")
	flags.String("mock-db", viper.GetString(common.KeyMockDB), "SQLite file backing the mock backend")
	flags.Int("retry", viper.GetInt(common.KeyRetry), "Retries for transient failures of idempotent requests")
	flags.Duration("timeout", viper.GetDuration(common.KeyTimeout), "Request timeout")
	flags.BoolP("verbose", "v", false, "Log diagnostics to stderr")

	viper.BindPFlag(common.KeyBaseURL, flags.Lookup("base-url"))
	viper.BindPFlag(common.KeySessionFile, flags.Lookup("session-file"))
	viper.BindPFlag(common.KeyMockDB, flags.Lookup("mock-db"))
	viper.BindPFlag(common.KeyRetry, flags.Lookup("retry"))
	viper.BindPFlag(common.KeyTimeout, flags.Lookup("timeout"))
	viper.BindPFlag(app.KeyVerbose, flags.Lookup("verbose"))

	agoraCli.AddCommand(account.Commands()...)
	agoraCli.AddCommand(forum.NewCommand())
	agoraCli.AddCommand(post.NewCommand())
	agoraCli.AddCommand(comment.NewCommand())
	agoraCli.AddCommand(user.NewCommand())
	agoraCli.AddCommand(serve.NewCommand())

	return agoraCli
}
