package common

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyBaseURL     = "base_url"
	KeySessionFile = "session_file"
	KeyMockDB      = "mock_db"
	KeyRetry       = "retry"
	KeyTimeout     = "timeout"
	KeyPort        = "port"
)

type Config struct {
	// BaseURL of a real backend. Empty means the in-process mock backend.
	BaseURL     string
	SessionFile string
	MockDB      string
	Retry       int
	Timeout     time.Duration
	Port        string
}

func (c Config) UseMock() bool {
	return c.BaseURL == ""
}

// LoadEnv reads .env files into the process environment. Missing files are fine.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring env file: %v", err)
	}
}

// SetDefaults registers defaults and AGORA_* environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeySessionFile, defaultSessionFile())
	v.SetDefault(KeyMockDB, "agora-mock.db")
	v.SetDefault(KeyRetry, 2)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyPort, "8080")

	v.SetEnvPrefix("agora")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func LoadConfig(v *viper.Viper) Config {
	return Config{
		BaseURL:     strings.TrimRight(v.GetString(KeyBaseURL), "/"),
		SessionFile: v.GetString(KeySessionFile),
		MockDB:      v.GetString(KeyMockDB),
		Retry:       v.GetInt(KeyRetry),
		Timeout:     v.GetDuration(KeyTimeout),
		Port:        v.GetString(KeyPort),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "agora-session.json"
	}
	return filepath.Join(dir, "agora", "session.json")
}
