package serve

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"agora/cli/app"
	"agora/common"
	"agora/mock"
)

func NewCommand() *cobra.Command {
	serveCommand := &cobra.Command{
		Use:   "serve [--port PORT]",
		Short: "Serves the mock backend over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCommand,
	}

	serveCommand.Flags().String("port", "8080", "Port to listen on")
	viper.BindPFlag(common.KeyPort, serveCommand.Flags().Lookup("port"))

	return serveCommand
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg := common.LoadConfig(viper.GetViper())

	db, err := app.OpenMockDB(cfg.MockDB, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	defer common.CloseDb(db)

	router := mock.NewEngine(db, gin.Logger(), gin.Recovery())

	log.Printf("Starting mock backend on port %s...", cfg.Port)
	return router.Run(":" + cfg.Port)
}
