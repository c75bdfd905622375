package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/oshokin/vk-album-grabber/internal/config"
	"github.com/oshokin/vk-album-grabber/internal/logger"
)

const (
	// browserSlowMotionDelay is the delay between browser actions for visibility during debugging.
	browserSlowMotionDelay = 200 * time.Millisecond

	// oauthRedirectURI is the standalone redirect page of VK OAuth.
	oauthRedirectURI = "https://oauth.vk.com/blank.html"

	// oauthScope requests photo access and a token that doesn't expire.
	oauthScope = "photos,offline"

	// oauthDisplay selects the full-page authorization dialog.
	oauthDisplay = "page"

	// loginPollInterval is the interval for polling the login status.
	loginPollInterval = 1 * time.Second

	// maxLoginWaitTime is the maximum time to wait for user to complete login.
	maxLoginWaitTime = 10 * time.Minute

	// browserCleanupDelay is the delay to wait for Chrome to release file locks before cleanup.
	browserCleanupDelay = 500 * time.Millisecond
)

// allowedLoginDomains are the hosts the login flow may visit.
//
//nolint:gochecknoglobals // Immutable lookup table.
var allowedLoginDomains = []string{
	"vk.com",
	"vk.ru",
	"vkontakte.ru",
}

var (
	// ErrLoginTimeout is returned when login takes too long.
	ErrLoginTimeout = errors.New("login timeout exceeded")

	// ErrBrowserClosed is returned when the browser is closed by the user.
	ErrBrowserClosed = errors.New("browser was closed by user")

	// ErrNavigatedAway is returned when the user navigates away from the login flow.
	ErrNavigatedAway = errors.New("user navigated away from login flow")

	// ErrAccessDenied is returned when the user declines the authorization request.
	ErrAccessDenied = errors.New("access was denied")

	// ErrTokenNotFound is returned when the redirect carries no access token.
	ErrTokenNotFound = errors.New("access token not found in redirect")
)

// Service provides browser-based authentication.
type Service interface {
	// LoginAndExtractToken opens a browser, waits for user to log in, then extracts the access token.
	LoginAndExtractToken(ctx context.Context) (*Token, error)
}

// ServiceImpl provides browser-based authentication for VK.
type ServiceImpl struct {
	cfg     *config.Config
	browser *rod.Browser
	page    *rod.Page
	// tempDir stores the temporary profile directory for cleanup.
	tempDir string
}

// NewService creates a new browser authentication service.
func NewService(cfg *config.Config) (*ServiceImpl, error) {
	if strings.TrimSpace(cfg.AppID) == "" {
		return nil, config.ErrEmptyAppID
	}

	return &ServiceImpl{
		cfg: cfg,
	}, nil
}

// LoginAndExtractToken opens a browser, waits for user to log in, then extracts the access token.
func (s *ServiceImpl) LoginAndExtractToken(ctx context.Context) (*Token, error) {
	logger.Info(ctx, "Starting browser-based authentication")

	if err := s.initBrowser(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	defer s.cleanup(ctx)

	token, err := s.waitForUserLogin(ctx)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	logger.Infof(ctx, "Access token obtained for user %s", token.UserID)

	return token, nil
}
