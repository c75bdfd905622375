package vk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/oshokin/vk-album-grabber/internal/logger"
	"github.com/oshokin/vk-album-grabber/internal/utils"
)

// callMethod calls a VK API method and unwraps the response envelope, retrying transient failures.
//
//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func callMethod[T any](c *ClientImpl, ctx context.Context, method string, params url.Values) (*T, error) {
	form := make(url.Values, len(params)+2)
	for key, values := range params {
		form[key] = values
	}

	form.Set("access_token", c.cfg.AccessToken)
	form.Set("v", c.cfg.APIVersion)

	result, err := withRetry(c, ctx, method, func() (*T, int, error) {
		fetchResult, err := fetchJSONWithForm[apiResponse[T]](c, ctx, method, form)
		if err != nil {
			statusCode := 0
			if fetchResult != nil {
				statusCode = fetchResult.StatusCode
			}

			return nil, statusCode, err
		}

		envelope := fetchResult.Data
		if envelope.Error != nil {
			return nil, fetchResult.StatusCode, envelope.Error
		}

		if envelope.Response == nil {
			return nil, fetchResult.StatusCode, ErrEmptyResponse
		}

		return envelope.Response, fetchResult.StatusCode, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	return result, nil
}

// fetchJSONWithForm posts the form to the method URI and decodes the JSON response.
//
//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func fetchJSONWithForm[T any](
	c *ClientImpl,
	ctx context.Context,
	uri string,
	form url.Values,
) (*FetchJSONResult[T], error) {
	route, err := url.JoinPath(c.baseURL, uri)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, route, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode != http.StatusOK {
		return &FetchJSONResult[T]{
			Data:       nil,
			StatusCode: response.StatusCode,
		}, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var result T
	if err = json.NewDecoder(response.Body).Decode(&result); err != nil {
		return &FetchJSONResult[T]{
			Data:       nil,
			StatusCode: response.StatusCode,
		}, err
	}

	return &FetchJSONResult[T]{
		Data:       &result,
		StatusCode: response.StatusCode,
	}, nil
}

// withRetry runs the call up to RetryAttemptsCount times.
// The call returns the HTTP status code it got, or 0 when there was no response.
//
//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func withRetry[T any](
	c *ClientImpl,
	ctx context.Context,
	operation string,
	call func() (*T, int, error),
) (*T, error) {
	attemptsCount := max(c.cfg.RetryAttemptsCount, 1)

	var lastErr error

	for attempt := range attemptsCount {
		result, statusCode, err := call()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if attempt == attemptsCount-1 || !isRetryable(ctx, statusCode, err) {
			break
		}

		pause := utils.ExponentialBackoff(int(attempt), c.cfg.ParsedMinRetryPause, c.cfg.ParsedMaxRetryPause)

		logger.Infof(ctx, "Retrying %s in %s due to error (%d attempts left): %v",
			operation, pause, attemptsCount-attempt-1, err)

		if err = utils.Sleep(ctx, pause); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// isRetryable reports whether the failure is transient.
func isRetryable(ctx context.Context, statusCode int, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsTransient()
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	if statusCode != 0 {
		return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error

	return errors.As(err, &urlErr)
}
