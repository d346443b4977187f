// Package app wires configuration, session, transport and API together for
// the CLI commands.
package app

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agora/api"
	"agora/common"
	"agora/database"
	"agora/httpclient"
	"agora/mock"
	"agora/session"
)

// MockBaseURL is the origin used when requests are served in-process.
const MockBaseURL = "http://agora.mock"

const KeyVerbose = "verbose"

type App struct {
	API    *api.API
	Nav    *httpclient.MemoryNavigator
	Out    *Printer
	Config common.Config
	db     *gorm.DB
}

// Open builds an App from the current viper settings. startPath is the view
// the command acts from, e.g. the login view for the login command.
func Open(cmd *cobra.Command, startPath string) (*App, error) {
	if !viper.GetBool(KeyVerbose) {
		log.SetOutput(io.Discard)
	}

	cfg := common.LoadConfig(viper.GetViper())
	out := NewPrinter(cmd.OutOrStdout())
	nav := httpclient.NewMemoryNavigator(startPath)
	store := session.New(session.NewFileStorage(cfg.SessionFile))

	a := &App{Nav: nav, Out: out, Config: cfg}

	baseURL := cfg.BaseURL
	opts := []httpclient.Option{
		httpclient.WithNavigator(nav),
		httpclient.WithRetry(cfg.Retry),
		httpclient.WithTimeout(cfg.Timeout),
	}
	if cfg.UseMock() {
		db, err := OpenMockDB(cfg.MockDB, bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		a.db = db
		gin.SetMode(gin.ReleaseMode)
		baseURL = MockBaseURL
		opts = append(opts, httpclient.WithTransport(mock.NewInterceptor(mock.NewEngine(db, gin.Recovery()))))
	}

	client, err := httpclient.New(baseURL, store, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.API = api.New(client, store, api.WithNotifier(out))
	return a, nil
}

// OpenMockDB opens the mock backend database, migrating and seeding it.
func OpenMockDB(path string, passwordCost int) (*gorm.DB, error) {
	db, err := common.ConnectDb(path)
	if err != nil {
		return nil, err
	}
	if err := database.Prepare(db, passwordCost); err != nil {
		common.CloseDb(db)
		return nil, fmt.Errorf("preparing mock database: %w", err)
	}
	return db, nil
}

func (a *App) Close() {
	if a.db != nil {
		common.CloseDb(a.db)
	}
}

var ErrNotLoggedIn = errors.New("not logged in; run: agora login <username>")

// FormatError renders err for the terminal, titled by its kind.
func FormatError(err error) string {
	var apiErr *httpclient.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", httpclient.Title(apiErr.Kind), apiErr.Message)
	}
	return fmt.Sprintf("Error: %s", err)
}
