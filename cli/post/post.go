package post

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"agora/api"
	"agora/cli/app"
	"agora/models"
)

func NewCommand() *cobra.Command {
	postCommand := &cobra.Command{
		Use:   "post",
		Short: "Commands for reading and writing posts",
		Example: "  # Second page of a forum\n" +
			"  " + os.Args[0] + " post list web-development --page 2\n" +
			"  # A post with its comments, content as HTML\n" +
			"  " + os.Args[0] + " post show web-development 31 --html",
	}

	postCommand.AddCommand(initListCommand())
	postCommand.AddCommand(initShowCommand())
	postCommand.AddCommand(initCreateCommand())

	return postCommand
}

// ParseNumber reads a post number argument.
func ParseNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid post number %q", arg)
	}
	return n, nil
}

// authorNames maps user ids to usernames. A failed lookup leaves the map
// empty so callers fall back to ids.
func authorNames(ctx context.Context, a *api.API) map[string]string {
	names := map[string]string{}
	users, err := a.Users(ctx)
	if err != nil {
		return names
	}
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names
}

func authorName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func printTags(out *app.Printer, tags []string) {
	if len(tags) == 0 {
		return
	}
	out.Tag(" [%s]", strings.Join(tags, ", "))
}

func edited(p models.Post) string {
	if p.UpdatedAt == nil {
		return ""
	}
	return " (edited " + p.UpdatedAt.Format("2006-01-02") + ")"
}
