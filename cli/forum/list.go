package forum

import (
	"github.com/spf13/cobra"

	"agora/cli/app"
	"agora/models"
)

func initListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists forums grouped by category",
		Args:  cobra.NoArgs,
		RunE:  runListCommand,
	}
}

func runListCommand(cmd *cobra.Command, args []string) error {
	a, err := app.Open(cmd, "/")
	if err != nil {
		return err
	}
	defer a.Close()

	forums, err := a.API.Forums(cmd.Context())
	if err != nil {
		return err
	}
	if len(forums) == 0 {
		a.Out.Plain("No forums yet\n")
		return nil
	}

	groups := models.GroupByCategory(forums)
	for _, category := range models.Categories {
		group := groups[category]
		if len(group) == 0 {
			continue
		}
		a.Out.Heading("%s\n", category)
		for _, f := range group {
			a.Out.Meta("  %-24s", f.Slug)
			a.Out.Plain(" %s\n", f.Title)
			if f.Description != "" {
				a.Out.Plain("  %-24s %s\n", "", f.Description)
			}
		}
	}
	return nil
}
