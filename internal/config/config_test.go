package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/vk-album-grabber/internal/constants"
)

const validConfigContent = `# VK credentials
access_token: "file_token"
app_id: "1234567"
api_version: "5.131"
output_path: "/tmp/albums"
log_level: "debug"
download_speed_limit: "1MB"
max_folder_name_length: 100
page_size: 500
request_timeout: "30s"
retry_attempts_count: 5
min_retry_pause: "500ms"
max_retry_pause: "5s"
max_download_pause: "0s"
show_progress_bar: false
`

// newValidConfig returns a configuration that passes ValidateConfig.
func newValidConfig() *Config {
	return &Config{
		AccessToken:         "valid_token",
		APIVersion:          DefaultAPIVersion,
		OutputPath:          "/tmp/albums",
		LogLevel:            "info",
		DownloadSpeedLimit:  "1MB",
		MaxFolderNameLength: DefaultMaxFolderNameLength,
		PageSize:            MaxPageSize,
		RequestTimeout:      "60s",
		RetryAttemptsCount:  3,
		MinRetryPause:       "1s",
		MaxRetryPause:       "10s",
		MaxDownloadPause:    "500ms",
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(configPath, []byte(content), constants.DefaultFilePermissions))

	return configPath
}

// TestConstants tests the constants.
func TestConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1024*1024, DefaultMaxLogLength)
	assert.Equal(t, 1000, MaxPageSize)
	assert.Equal(t, "https://api.vk.com/method", VKAPIBaseURL)
}

// TestLoadConfig tests the LoadConfig function.
// The tests are not parallel because viper keeps global state.
func TestLoadConfig(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfigFile(t, validConfigContent))
		require.NoError(t, err)

		assert.Equal(t, "file_token", cfg.AccessToken)
		assert.Equal(t, "1234567", cfg.AppID)
		assert.Equal(t, "/tmp/albums", cfg.OutputPath)
		assert.Equal(t, int64(500), cfg.PageSize)
		assert.Equal(t, int64(5), cfg.RetryAttemptsCount)
		assert.False(t, cfg.ShowProgressBar)
	})

	t.Run("partial config file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfigFile(t, "access_token: \"partial\"\n"))
		require.NoError(t, err)

		assert.Equal(t, "partial", cfg.AccessToken)
		assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
		assert.Equal(t, int64(MaxPageSize), cfg.PageSize)
		assert.Equal(t, "60s", cfg.RequestTimeout)
		assert.True(t, cfg.ShowProgressBar)
		require.NoError(t, ValidateConfig(cfg))
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("VK_GRABBER_ACCESS_TOKEN", "env_token")
		t.Setenv("VK_GRABBER_PAGE_SIZE", "200")

		cfg, err := LoadConfig(writeConfigFile(t, validConfigContent))
		require.NoError(t, err)

		assert.Equal(t, "env_token", cfg.AccessToken)
		assert.Equal(t, int64(200), cfg.PageSize)
	})

	t.Run("missing default file is not an error", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("VK_GRABBER_ACCESS_TOKEN", "env_only")

		cfg, err := LoadConfig("")
		require.NoError(t, err)

		assert.Equal(t, "env_only", cfg.AccessToken)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "non_existent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config from file")
		assert.Nil(t, cfg)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfigFile(t, "invalid: yaml: content: [unclosed\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config from file")
		assert.Nil(t, cfg)
	})
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		modify        func(cfg *Config)
		expectedError error
		errorMsg      string
	}{
		{
			name:   "valid config",
			modify: func(_ *Config) {},
		},
		{
			name:          "empty access token",
			modify:        func(cfg *Config) { cfg.AccessToken = "" },
			expectedError: ErrEmptyAccessToken,
		},
		{
			name:          "whitespace access token",
			modify:        func(cfg *Config) { cfg.AccessToken = "   " },
			expectedError: ErrEmptyAccessToken,
		},
		{
			name:          "empty api version",
			modify:        func(cfg *Config) { cfg.APIVersion = "" },
			expectedError: ErrEmptyAPIVersion,
		},
		{
			name:          "unknown log level",
			modify:        func(cfg *Config) { cfg.LogLevel = "verbose" },
			expectedError: ErrUnknownLogLevel,
		},
		{
			name:          "page size too large",
			modify:        func(cfg *Config) { cfg.PageSize = MaxPageSize + 1 },
			expectedError: ErrInvalidPageSize,
		},
		{
			name:          "zero page size",
			modify:        func(cfg *Config) { cfg.PageSize = 0 },
			expectedError: ErrInvalidPageSize,
		},
		{
			name:          "zero folder name length",
			modify:        func(cfg *Config) { cfg.MaxFolderNameLength = 0 },
			expectedError: ErrInvalidMaxFolderNameLength,
		},
		{
			name:     "invalid speed limit",
			modify:   func(cfg *Config) { cfg.DownloadSpeedLimit = "fast" },
			errorMsg: "failed to parse download speed limit",
		},
		{
			name:     "invalid request timeout",
			modify:   func(cfg *Config) { cfg.RequestTimeout = "soon" },
			errorMsg: "failed to parse request timeout",
		},
		{
			name:          "zero request timeout",
			modify:        func(cfg *Config) { cfg.RequestTimeout = "0s" },
			expectedError: ErrInvalidRequestTimeout,
		},
		{
			name:          "zero retry attempts",
			modify:        func(cfg *Config) { cfg.RetryAttemptsCount = 0 },
			expectedError: ErrInvalidRetryAttempts,
		},
		{
			name:          "zero min retry pause",
			modify:        func(cfg *Config) { cfg.MinRetryPause = "0s" },
			expectedError: ErrInvalidMinRetryPause,
		},
		{
			name:          "negative max retry pause",
			modify:        func(cfg *Config) { cfg.MaxRetryPause = "-1s" },
			expectedError: ErrInvalidMaxRetryPause,
		},
		{
			name: "max retry pause below min",
			modify: func(cfg *Config) {
				cfg.MinRetryPause = "5s"
				cfg.MaxRetryPause = "1s"
			},
			expectedError: ErrMaxRetryPauseTooLow,
		},
		{
			name:          "negative download pause",
			modify:        func(cfg *Config) { cfg.MaxDownloadPause = "-5s" },
			expectedError: ErrInvalidMaxDownloadPause,
		},
		{
			name:     "invalid download pause",
			modify:   func(cfg *Config) { cfg.MaxDownloadPause = "later" },
			errorMsg: "failed to parse max download pause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newValidConfig()
			tt.modify(cfg)

			err := ValidateConfig(cfg)

			switch {
			case tt.expectedError != nil:
				require.ErrorIs(t, err, tt.expectedError)
			case tt.errorMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			default:
				require.NoError(t, err)
			}
		})
	}
}

// TestValidateConfig_DerivedFields tests that parsed fields are populated.
func TestValidateConfig_DerivedFields(t *testing.T) {
	t.Parallel()

	cfg := newValidConfig()
	cfg.AccessToken = "  token  "
	cfg.OutputPath = ""
	cfg.LogLevel = "warn"
	cfg.MaxDownloadPause = "0s"

	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "token", cfg.AccessToken)
	assert.Equal(t, ".", cfg.OutputPath)
	assert.Equal(t, VKAPIBaseURL, cfg.VKAPIBaseURL)
	assert.Equal(t, VKOAuthBaseURL, cfg.VKOAuthBaseURL)
	assert.Equal(t, zapcore.WarnLevel, cfg.ParsedLogLevel)
	assert.Equal(t, int64(1000000), cfg.ParsedDownloadSpeedLimit)
	assert.Equal(t, 60*time.Second, cfg.ParsedRequestTimeout)
	assert.Equal(t, time.Second, cfg.ParsedMinRetryPause)
	assert.Equal(t, 10*time.Second, cfg.ParsedMaxRetryPause)
	assert.Zero(t, cfg.ParsedMaxDownloadPause)
}

// TestValidateConfig_DownloadSpeedLimit tests parsing of the download speed limit.
func TestValidateConfig_DownloadSpeedLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		limit    string
		expected int64
	}{
		{
			name:     "empty limit",
			limit:    "",
			expected: 0,
		},
		{
			name:     "zero limit",
			limit:    "0",
			expected: 0,
		},
		{
			name:     "kilobytes",
			limit:    "500KB",
			expected: 500000,
		},
		{
			name:     "binary megabytes",
			limit:    "2MiB",
			expected: 2 * 1024 * 1024,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newValidConfig()
			cfg.DownloadSpeedLimit = tt.limit

			require.NoError(t, ValidateConfig(cfg))
			assert.Equal(t, tt.expected, cfg.ParsedDownloadSpeedLimit)
		})
	}
}

// TestValidateAuthConfig tests the ValidateAuthConfig function.
func TestValidateAuthConfig(t *testing.T) {
	t.Parallel()

	cfg := newValidConfig()
	cfg.AccessToken = ""

	require.ErrorIs(t, ValidateAuthConfig(cfg), ErrEmptyAppID)

	cfg.AppID = " 1234567 "
	require.NoError(t, ValidateAuthConfig(cfg))
	assert.Equal(t, "1234567", cfg.AppID)
	assert.Equal(t, VKOAuthBaseURL, cfg.VKOAuthBaseURL)
}

// TestSaveConfig tests that the token is saved without losing the file layout.
// The tests are not parallel because viper keeps global state.
func TestSaveConfig(t *testing.T) {
	t.Run("existing file keeps comments and order", func(t *testing.T) {
		configPath := writeConfigFile(t, validConfigContent)

		cfg, err := LoadConfig(configPath)
		require.NoError(t, err)

		cfg.AccessToken = "new_token"
		require.NoError(t, SaveConfig(cfg))

		content, err := os.ReadFile(configPath) //nolint:gosec // Test file path.
		require.NoError(t, err)

		assert.Contains(t, string(content), "# VK credentials")
		assert.Contains(t, string(content), `access_token: "new_token"`)
		assert.NotContains(t, string(content), "file_token")

		reloaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "new_token", reloaded.AccessToken)
		assert.Equal(t, int64(500), reloaded.PageSize)
	})

	t.Run("missing key is appended", func(t *testing.T) {
		configPath := writeConfigFile(t, "log_level: \"info\"\n")

		cfg, err := LoadConfig(configPath)
		require.NoError(t, err)

		cfg.AccessToken = "appended_token"
		require.NoError(t, SaveConfig(cfg))

		reloaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "appended_token", reloaded.AccessToken)
		assert.Equal(t, "info", reloaded.LogLevel)
	})

	t.Run("deleted file is recreated", func(t *testing.T) {
		configPath := writeConfigFile(t, validConfigContent)

		cfg, err := LoadConfig(configPath)
		require.NoError(t, err)
		require.NoError(t, os.Remove(configPath))

		cfg.AccessToken = "recreated_token"
		require.NoError(t, SaveConfig(cfg))

		reloaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "recreated_token", reloaded.AccessToken)
	})
}
