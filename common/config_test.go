package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := LoadConfig(v)

	assert.True(t, cfg.UseMock())
	assert.Equal(t, "agora-mock.db", cfg.MockDB)
	assert.Equal(t, 2, cfg.Retry)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.SessionFile)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("AGORA_BASE_URL", "http://forum.example.com/")
	t.Setenv("AGORA_RETRY", "5")

	v := viper.New()
	SetDefaults(v)
	cfg := LoadConfig(v)

	assert.False(t, cfg.UseMock())
	assert.Equal(t, "http://forum.example.com", cfg.BaseURL)
	assert.Equal(t, 5, cfg.Retry)
}

func TestLoadEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("AGORA_TEST_MOCK_DB=from-dotenv.db\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("AGORA_TEST_MOCK_DB") })

	LoadEnv(envFile)
	assert.Equal(t, "from-dotenv.db", os.Getenv("AGORA_TEST_MOCK_DB"))

	// A missing file is not an error.
	LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
}

func TestConnectDb(t *testing.T) {
	db, err := ConnectDb(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer CloseDb(db)

	assert.NoError(t, db.Exec("SELECT 1").Error)

	_, err = ConnectDb("")
	assert.Error(t, err)
}
