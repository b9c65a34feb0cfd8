package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

// API endpoints relative to the base URL
const (
	pathSignup    = "/api/signup"
	pathLogin     = "/api/login"
	pathVerifyMFA = "/api/verify_mfa"
	pathResendOTP = "/api/resend_otp"
	pathDetect    = "/api/detect"
	pathUserInfo  = "/api/user_info"
	pathHistory   = "/api/analysis_history"
	pathLogout    = "/api/logout"
)

// maxResponseSize bounds how much of a response body is read
const maxResponseSize = 4 << 20

// Client is the HTTP implementation of core.APIClient
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        *PersistentJar
	userAgent  string
	logger     *zap.Logger
}

// NewClient creates a new API client for baseURL. Cookies are kept in store.
func NewClient(
	ctx context.Context,
	baseURL string,
	timeout time.Duration,
	userAgent string,
	store core.SessionStore,
	logger *zap.Logger,
) (*Client, error) {
	origin, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", baseURL)
	}

	jar, err := NewPersistentJar(ctx, origin, store, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		jar:       jar,
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// Signup registers a new account
func (c *Client) Signup(ctx context.Context, req core.SignupRequest) (*core.MessageResponse, error) {
	var resp core.MessageResponse
	if err := c.do(ctx, http.MethodPost, pathSignup, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login checks the credentials and reports whether MFA is required
func (c *Client) Login(ctx context.Context, req core.LoginRequest) (*core.LoginResponse, error) {
	var resp core.LoginResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyMFA submits a one-time code
func (c *Client) VerifyMFA(ctx context.Context, req core.VerifyMFARequest) (*core.MessageResponse, error) {
	var resp core.MessageResponse
	if err := c.do(ctx, http.MethodPost, pathVerifyMFA, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResendOTP asks the backend to mail a new one-time code
func (c *Client) ResendOTP(ctx context.Context, req core.ResendOTPRequest) (*core.MessageResponse, error) {
	var resp core.MessageResponse
	if err := c.do(ctx, http.MethodPost, pathResendOTP, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Detect submits an email for phishing analysis
func (c *Client) Detect(ctx context.Context, req core.DetectRequest) (*core.AnalysisResult, error) {
	var resp core.AnalysisResult
	if err := c.do(ctx, http.MethodPost, pathDetect, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserInfo returns the logged-in user
func (c *Client) UserInfo(ctx context.Context) (*core.UserInfo, error) {
	var resp core.UserInfo
	if err := c.do(ctx, http.MethodGet, pathUserInfo, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalysisHistory returns the persisted analyses of the logged-in user
func (c *Client) AnalysisHistory(ctx context.Context) ([]core.HistoryEntry, error) {
	var resp core.HistoryResponse
	if err := c.do(ctx, http.MethodGet, pathHistory, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// Logout ends the server session. The response body is ignored.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, pathLogout, nil, nil)
}

// do performs one JSON round trip. Network and decoding failures wrap
// core.ErrTransport; non-2xx replies become *core.APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	logger := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID))

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("Request failed", zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", core.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	logger.Debug("Response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(startTime)))

	if err := c.jar.Save(ctx); err != nil {
		logger.Warn("Failed to persist cookies", zap.Error(err))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", core.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg core.MessageResponse
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("%w: undecodable error response (status %d): %v", core.ErrTransport, resp.StatusCode, err)
		}
		return &core.APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", core.ErrTransport, err)
	}
	return nil
}
