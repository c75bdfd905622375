package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oshokin/vk-album-grabber/internal/logger"
	"github.com/oshokin/vk-album-grabber/internal/utils"
)

// waitForUserLogin opens the authorization dialog and waits for the redirect with the token.
func (s *ServiceImpl) waitForUserLogin(ctx context.Context) (*Token, error) {
	authorizeURL := BuildAuthorizeURL(s.cfg.VKOAuthBaseURL, s.cfg.AppID, s.cfg.APIVersion)

	logger.Info(ctx, "Opening VK authorization page...")
	logger.Debugf(ctx, "Navigating to %s", authorizeURL)

	if err := s.page.Navigate(authorizeURL); err != nil {
		return nil, fmt.Errorf("failed to open authorization page: %w", err)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, "╔══════════════════════════════════════════════════════════════════╗")
	logger.Info(ctx, "║                      LOGIN INSTRUCTIONS                          ║")
	logger.Info(ctx, "╚══════════════════════════════════════════════════════════════════╝")
	logger.Info(ctx, "")
	logger.Info(ctx, "1. Log in to VK in the opened browser window")
	logger.Info(ctx, "")
	logger.Info(ctx, "2. Allow the application to access your photos")
	logger.Info(ctx, "")
	logger.Info(ctx, "3. DO NOT CLOSE THE BROWSER - it closes automatically once the token is received")
	logger.Info(ctx, "")
	logger.Info(ctx, "Waiting for login to complete...")
	logger.Info(ctx, "")

	token, err := s.waitForLoginComplete(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Login completed successfully!")

	return token, nil
}

// waitForLoginComplete polls the page URL until VK redirects to the blank page.
func (s *ServiceImpl) waitForLoginComplete(ctx context.Context) (*Token, error) {
	var (
		startTime = time.Now()
		lastURL   string
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if time.Since(startTime) > maxLoginWaitTime {
			return nil, fmt.Errorf("%w: waited for %v", ErrLoginTimeout, maxLoginWaitTime)
		}

		if !s.isBrowserAlive(ctx) {
			return nil, ErrBrowserClosed
		}

		currentURL, err := s.getCurrentURL(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get current URL: %w", err)
		}

		if currentURL != lastURL {
			logger.Debugf(ctx, "URL changed: %s", redactFragment(currentURL))

			lastURL = currentURL
		}

		if isRedirectURL(currentURL) {
			return ParseRedirectURL(currentURL)
		}

		if !isAllowedLoginURL(currentURL) {
			return nil, fmt.Errorf("%w to: %s", ErrNavigatedAway, currentURL)
		}

		if err = utils.Sleep(ctx, loginPollInterval); err != nil {
			return nil, err
		}
	}
}

// redactFragment hides the URL fragment, which carries the token after the redirect.
func redactFragment(rawURL string) string {
	base, _, found := strings.Cut(rawURL, "#")
	if !found {
		return rawURL
	}

	return base + "#[REDACTED]"
}
