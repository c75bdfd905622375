package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/vk-album-grabber/internal/config"
	"github.com/oshokin/vk-album-grabber/internal/constants"
	"github.com/oshokin/vk-album-grabber/internal/service/auth"
)

// fakeAuthService returns a fixed login result.
type fakeAuthService struct {
	token *auth.Token
	err   error
}

func (f *fakeAuthService) LoginAndExtractToken(context.Context) (*auth.Token, error) {
	return f.token, f.err
}

func TestExecuteAuthLoginCommand_MissingAppID(t *testing.T) {
	t.Parallel()

	err := ExecuteAuthLoginCommand(context.Background(), &config.Config{})
	require.ErrorIs(t, err, config.ErrEmptyAppID)
}

func TestLogin_Failure(t *testing.T) {
	t.Parallel()

	loginErr := errors.New("browser crashed")

	err := login(context.Background(), &fakeAuthService{err: loginErr}, &config.Config{})
	require.ErrorIs(t, err, loginErr)
}

// TestLogin_SavesToken cannot run in parallel because the configuration uses the global Viper instance.
//
//nolint:paralleltest // Viper global state.
func TestLogin_SavesToken(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "# VK settings\napp_id: \"51234567\"\naccess_token: \"\"\nlog_level: \"debug\"\n"

	require.NoError(t, os.WriteFile(configPath, []byte(content), constants.DefaultFilePermissions))

	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)

	service := &fakeAuthService{token: &auth.Token{AccessToken: "vk1.a.new", UserID: "42"}}

	require.NoError(t, login(context.Background(), service, cfg))
	assert.Equal(t, "vk1.a.new", cfg.AccessToken)

	saved, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(saved), `access_token: "vk1.a.new"`)
	assert.Contains(t, string(saved), "# VK settings")
	assert.Contains(t, string(saved), `log_level: "debug"`)
}
