package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/vk-album-grabber/internal/constants"
	"github.com/oshokin/vk-album-grabber/internal/logger"
	"github.com/oshokin/vk-album-grabber/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// AccessToken is the VK API access token with the "photos" scope.
	AccessToken string `mapstructure:"access_token"`
	// AppID is the VK application ID used to obtain an access token via OAuth.
	AppID string `mapstructure:"app_id"`
	// APIVersion is the VK API version sent with every method call.
	APIVersion string `mapstructure:"api_version"`
	// OutputPath is the directory where album folders are created.
	OutputPath string `mapstructure:"output_path"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// DownloadSpeedLimit sets the maximum download speed (e.g., "1MB", "500KB").
	DownloadSpeedLimit string `mapstructure:"download_speed_limit"`
	// MaxFolderNameLength is the maximum length of an album folder name in characters.
	MaxFolderNameLength int64 `mapstructure:"max_folder_name_length"`
	// PageSize is the number of photos requested per page.
	PageSize int64 `mapstructure:"page_size"`
	// RequestTimeout is the timeout of a single HTTP request.
	RequestTimeout string `mapstructure:"request_timeout"`
	// RetryAttemptsCount is the number of attempts for a failed remote call.
	RetryAttemptsCount int64 `mapstructure:"retry_attempts_count"`
	// MinRetryPause is the initial pause before retrying.
	MinRetryPause string `mapstructure:"min_retry_pause"`
	// MaxRetryPause caps the exponential retry pause.
	MaxRetryPause string `mapstructure:"max_retry_pause"`
	// MaxDownloadPause is the maximum random pause between photos, "0s" disables it.
	MaxDownloadPause string `mapstructure:"max_download_pause"`
	// ShowProgressBar enables the byte progress bar for each photo.
	ShowProgressBar bool `mapstructure:"show_progress_bar"`
	// VKAPIBaseURL is the base URL for VK API methods (set automatically).
	VKAPIBaseURL string `mapstructure:"-"`
	// VKOAuthBaseURL is the base URL for VK OAuth (set automatically).
	VKOAuthBaseURL string `mapstructure:"-"`
	// DryRun indicates whether to preview downloads without creating folders or files.
	DryRun bool `mapstructure:"-"`
	// ParsedDownloadSpeedLimit is the parsed download speed limit in bytes per second.
	ParsedDownloadSpeedLimit int64 `mapstructure:"-"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level `mapstructure:"-"`
	// ParsedRequestTimeout is the parsed HTTP request timeout.
	ParsedRequestTimeout time.Duration `mapstructure:"-"`
	// ParsedMinRetryPause is the parsed minimum retry pause duration.
	ParsedMinRetryPause time.Duration `mapstructure:"-"`
	// ParsedMaxRetryPause is the parsed maximum retry pause duration.
	ParsedMaxRetryPause time.Duration `mapstructure:"-"`
	// ParsedMaxDownloadPause is the parsed maximum download pause duration.
	ParsedMaxDownloadPause time.Duration `mapstructure:"-"`
}

const (
	// VKAPIBaseURL is the base URL for VK API methods.
	VKAPIBaseURL = "https://api.vk.com/method"

	// VKOAuthBaseURL is the base URL for VK OAuth.
	VKOAuthBaseURL = "https://oauth.vk.com"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".vk-album-grabber.yaml"

	// DefaultEnvFilename is the dotenv file loaded before the environment is read.
	DefaultEnvFilename = ".env"

	// EnvPrefix is the prefix of environment variables overriding config keys,
	// e.g. VK_GRABBER_ACCESS_TOKEN.
	EnvPrefix = "VK_GRABBER"

	// DefaultAPIVersion is the VK API version used when none is configured.
	DefaultAPIVersion = "5.131"

	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged HTTP dump.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// MaxPageSize is the largest page photos.get accepts.
	MaxPageSize = 1000

	// DefaultMaxFolderNameLength is the default limit for album folder names.
	DefaultMaxFolderNameLength = 255
)

// Static error definitions for better error handling.
var (
	// ErrEmptyAccessToken indicates that the access token is missing.
	ErrEmptyAccessToken = errors.New("access token cannot be empty, run 'auth login' or pass --token")
	// ErrEmptyAppID indicates that the application ID required for OAuth is missing.
	ErrEmptyAppID = errors.New("app_id cannot be empty")
	// ErrEmptyAPIVersion indicates that the API version is missing.
	ErrEmptyAPIVersion = errors.New("api_version cannot be empty")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidPageSize indicates that the page size is out of range.
	ErrInvalidPageSize = errors.New("invalid page_size")
	// ErrInvalidMaxFolderNameLength indicates that the folder name limit is invalid.
	ErrInvalidMaxFolderNameLength = errors.New("max_folder_name_length must be a positive integer")
	// ErrInvalidRequestTimeout indicates that the request timeout is invalid.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrInvalidRetryAttempts indicates that the retry attempts count is invalid.
	ErrInvalidRetryAttempts = errors.New("retry attempts count must a positive integer")
	// ErrInvalidMaxDownloadPause indicates that the max download pause duration is invalid.
	ErrInvalidMaxDownloadPause = errors.New("max_download_pause cannot be negative")
	// ErrInvalidMinRetryPause indicates that the min retry pause duration is invalid.
	ErrInvalidMinRetryPause = errors.New("min_retry_pause must be positive")
	// ErrInvalidMaxRetryPause indicates that the max retry pause duration is invalid.
	ErrInvalidMaxRetryPause = errors.New("max_retry_pause must be positive")
	// ErrMaxRetryPauseTooLow indicates that max_retry_pause is below min_retry_pause.
	ErrMaxRetryPauseTooLow = errors.New("max_retry_pause cannot be less than min_retry_pause")
)

// LoadConfig loads configuration settings.
// Values are taken, in increasing priority, from defaults, the YAML file,
// the .env file and VK_GRABBER_* environment variables.
// An explicitly named config file must exist, the default one is optional.
func LoadConfig(configFilename string) (*Config, error) {
	viper.Reset()

	// A missing .env file is the common case.
	_ = godotenv.Load(DefaultEnvFilename)

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if resolvedFilename := resolveConfigFilename(configFilename); resolvedFilename != "" {
		viper.SetConfigFile(resolvedFilename)

		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("access_token", "")
	viper.SetDefault("app_id", "")
	viper.SetDefault("api_version", DefaultAPIVersion)
	viper.SetDefault("output_path", ".")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("download_speed_limit", "0")
	viper.SetDefault("max_folder_name_length", DefaultMaxFolderNameLength)
	viper.SetDefault("page_size", MaxPageSize)
	viper.SetDefault("request_timeout", "60s")
	viper.SetDefault("retry_attempts_count", 3)
	viper.SetDefault("min_retry_pause", "1s")
	viper.SetDefault("max_retry_pause", "10s")
	viper.SetDefault("max_download_pause", "500ms")
	viper.SetDefault("show_progress_bar", true)
}

// resolveConfigFilename returns the explicit filename if given.
// Otherwise it looks for the default file in the working directory and then in the home directory,
// returning an empty string when neither exists.
func resolveConfigFilename(configFilename string) string {
	if configFilename != "" {
		return configFilename
	}

	candidates := []string{DefaultConfigFilename}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, DefaultConfigFilename))
	}

	for _, candidate := range candidates {
		if exists, _ := utils.IsFileExist(candidate); exists {
			return candidate
		}
	}

	return ""
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var (
		downloadSpeedLimit       = strings.TrimSpace(cfg.DownloadSpeedLimit)
		parsedDownloadSpeedLimit uint64
		err                      error
	)

	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	if cfg.AccessToken == "" {
		return ErrEmptyAccessToken
	}

	if err = validateCommon(cfg); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.OutputPath) == "" {
		cfg.OutputPath = "."
	}

	if cfg.PageSize <= 0 || cfg.PageSize > MaxPageSize {
		return fmt.Errorf("%w: must be between 1 and %d", ErrInvalidPageSize, MaxPageSize)
	}

	if cfg.MaxFolderNameLength <= 0 {
		return ErrInvalidMaxFolderNameLength
	}

	if downloadSpeedLimit != "" && downloadSpeedLimit != "0" {
		parsedDownloadSpeedLimit, err = humanize.ParseBytes(downloadSpeedLimit)
		if err != nil {
			return fmt.Errorf("failed to parse download speed limit: %w", err)
		}
	}

	// io.CopyN accepts only int64 so we transform it safely in order to use it later.
	cfg.ParsedDownloadSpeedLimit = utils.SafeUint64ToInt64(parsedDownloadSpeedLimit)

	cfg.ParsedRequestTimeout, err = time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse request timeout: %w", err)
	}

	if cfg.ParsedRequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	if cfg.RetryAttemptsCount <= 0 {
		return ErrInvalidRetryAttempts
	}

	cfg.ParsedMinRetryPause, err = time.ParseDuration(cfg.MinRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse min retry pause: %w", err)
	}

	if cfg.ParsedMinRetryPause <= 0 {
		return ErrInvalidMinRetryPause
	}

	cfg.ParsedMaxRetryPause, err = time.ParseDuration(cfg.MaxRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse max retry pause: %w", err)
	}

	if cfg.ParsedMaxRetryPause <= 0 {
		return ErrInvalidMaxRetryPause
	}

	if cfg.ParsedMaxRetryPause < cfg.ParsedMinRetryPause {
		return ErrMaxRetryPauseTooLow
	}

	cfg.ParsedMaxDownloadPause, err = time.ParseDuration(cfg.MaxDownloadPause)
	if err != nil {
		return fmt.Errorf("failed to parse max download pause: %w", err)
	}

	if cfg.ParsedMaxDownloadPause < 0 {
		return ErrInvalidMaxDownloadPause
	}

	return nil
}

// ValidateAuthConfig checks the settings required to obtain an access token.
func ValidateAuthConfig(cfg *Config) error {
	cfg.AppID = strings.TrimSpace(cfg.AppID)
	if cfg.AppID == "" {
		return ErrEmptyAppID
	}

	return validateCommon(cfg)
}

func validateCommon(cfg *Config) error {
	if cfg.VKAPIBaseURL == "" {
		cfg.VKAPIBaseURL = VKAPIBaseURL
	}

	if cfg.VKOAuthBaseURL == "" {
		cfg.VKOAuthBaseURL = VKOAuthBaseURL
	}

	cfg.APIVersion = strings.TrimSpace(cfg.APIVersion)
	if cfg.APIVersion == "" {
		return ErrEmptyAPIVersion
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	return nil
}

// SaveConfig saves the access token to the config file while preserving the original format and order.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	originalContent, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return handleMissingConfigFile(configFile, cfg, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	setValueInNode(&node, "access_token", cfg.AccessToken)

	if cfg.AppID != "" {
		setValueInNode(&node, "app_id", cfg.AppID)
	}

	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile string, cfg *Config, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	viper.Set("access_token", cfg.AccessToken)
	viper.Set("app_id", cfg.AppID)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// setValueInNode sets a top-level scalar in the YAML node tree, appending the key when it is absent.
func setValueInNode(node *yaml.Node, key, value string) {
	if len(node.Content) == 0 {
		node.Kind = yaml.DocumentNode
		node.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	// The root node is a document node, content[0] is the actual map.
	mapNode := node.Content[0]
	if mapNode.Kind != yaml.MappingNode {
		return
	}

	// Key-value pairs are stored as alternating nodes.
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		if mapNode.Content[i].Value != key {
			continue
		}

		valueNode := mapNode.Content[i+1]
		valueNode.Kind = yaml.ScalarNode
		valueNode.Tag = "!!str"
		valueNode.Value = value

		if valueNode.Style == 0 {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		return
	}

	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle},
	)
}
