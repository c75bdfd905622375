package auth

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Token is an access token returned by the VK OAuth implicit flow.
type Token struct {
	AccessToken string
	UserID      string
	// ExpiresIn is zero for tokens issued with the offline scope.
	ExpiresIn time.Duration
}

// BuildAuthorizeURL returns the URL of the VK authorization dialog.
func BuildAuthorizeURL(oauthBaseURL, appID, apiVersion string) string {
	query := url.Values{}
	query.Set("client_id", appID)
	query.Set("display", oauthDisplay)
	query.Set("redirect_uri", oauthRedirectURI)
	query.Set("scope", oauthScope)
	query.Set("response_type", "token")
	query.Set("v", apiVersion)

	return strings.TrimRight(oauthBaseURL, "/") + "/authorize?" + query.Encode()
}

// isRedirectURL reports whether the browser reached the OAuth redirect page.
func isRedirectURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, oauthRedirectURI)
}

// ParseRedirectURL extracts the token from the fragment of the OAuth redirect URL,
// e.g. https://oauth.vk.com/blank.html#access_token=...&expires_in=0&user_id=1.
func ParseRedirectURL(rawURL string) (*Token, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redirect URL: %w", err)
	}

	// Errors may come either in the fragment or in the query.
	params, err := url.ParseQuery(parsedURL.Fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redirect fragment: %w", err)
	}

	if params.Get("error") == "" {
		if queryError := parsedURL.Query().Get("error"); queryError != "" {
			params = parsedURL.Query()
		}
	}

	if oauthError := params.Get("error"); oauthError != "" {
		return nil, fmt.Errorf("%w: %s: %s", ErrAccessDenied, oauthError, params.Get("error_description"))
	}

	accessToken := params.Get("access_token")
	if accessToken == "" {
		return nil, ErrTokenNotFound
	}

	token := &Token{
		AccessToken: accessToken,
		UserID:      params.Get("user_id"),
	}

	if expiresIn, parseErr := strconv.ParseInt(params.Get("expires_in"), 10, 64); parseErr == nil && expiresIn > 0 {
		token.ExpiresIn = time.Duration(expiresIn) * time.Second
	}

	return token, nil
}

// isAllowedLoginURL reports whether the URL belongs to the login flow.
// Browser-internal pages are allowed while the first navigation is in progress.
func isAllowedLoginURL(rawURL string) bool {
	if rawURL == "" || rawURL == "about:blank" {
		return true
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsedURL.Hostname())

	for _, domain := range allowedLoginDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}

	return false
}
