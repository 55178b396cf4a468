// Package api implements the HTTP client for the account store service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gatehouse/config"
	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"

	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// StoreClient talks to the account store over its HTTP API. All store
// failures surface as the Unavailable domain error so callers can tell a
// dead store apart from a rejected credential.
type StoreClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewStoreClient(cfg *config.Config, logger *slog.Logger) *StoreClient {
	baseURL := ""
	timeout := defaultTimeout
	if cfg.Client != nil {
		baseURL = cfg.Client.BaseURL
		if cfg.Client.Timeout > 0 {
			timeout = cfg.Client.Timeout
		}
	}

	return &StoreClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// envelope mirrors the store's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *errorInfo      `json:"error"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

type profilePayload struct {
	FullName    string    `json:"fullName"`
	Phone       string    `json:"phone"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	CompletedAt time.Time `json:"completedAt"`
}

func (p *profilePayload) toEntity() *entity.Profile {
	if p == nil {
		return nil
	}

	return &entity.Profile{
		FullName:    p.FullName,
		Phone:       p.Phone,
		City:        p.City,
		State:       p.State,
		CompletedAt: p.CompletedAt,
	}
}

// Signup registers a new account with a local password credential.
func (c *StoreClient) Signup(ctx context.Context, email string, password string) error {
	body := map[string]string{"email": email, "password": password}

	_, status, err := c.post(ctx, "/api/signup", body)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return c.mapStatus(status)
	}

	return nil
}

// Login checks the password credential and returns the stored profile,
// which is nil when the account has not completed it yet.
func (c *StoreClient) Login(ctx context.Context, email string, password string) (*entity.Profile, error) {
	body := map[string]string{"email": email, "password": password}

	data, status, err := c.post(ctx, "/api/login", body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		if status == http.StatusUnauthorized {
			return nil, errors.WithStack(domainerrors.ErrWrongCredential)
		}

		return nil, c.mapStatus(status)
	}

	var payload struct {
		Email   string          `json:"email"`
		Profile *profilePayload `json:"profile"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "decode login response")
	}

	return payload.Profile.toEntity(), nil
}

// GoogleLogin exchanges a Google ID token for an account, provisioning one
// on first sign-in. It returns the verified email alongside the profile.
func (c *StoreClient) GoogleLogin(ctx context.Context, credential string) (string, *entity.Profile, error) {
	body := map[string]string{"credential": credential}

	data, status, err := c.post(ctx, "/api/google-auth", body)
	if err != nil {
		return "", nil, err
	}
	if status != http.StatusOK {
		if status == http.StatusUnauthorized {
			return "", nil, errors.WithStack(domainerrors.ErrInvalidToken)
		}

		return "", nil, c.mapStatus(status)
	}

	var payload struct {
		Email   string          `json:"email"`
		Name    string          `json:"name"`
		Profile *profilePayload `json:"profile"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", nil, errors.Wrap(err, "decode google sign-in response")
	}

	return payload.Email, payload.Profile.toEntity(), nil
}

// SaveProfile stores the profile fields for the account and returns the
// saved profile with its server-side completion timestamp.
func (c *StoreClient) SaveProfile(ctx context.Context, email string, fields entity.ProfileFields) (*entity.Profile, error) {
	body := map[string]string{
		"email":    email,
		"fullName": fields.FullName,
		"phone":    fields.Phone,
		"city":     fields.City,
		"state":    fields.State,
	}

	data, status, err := c.post(ctx, "/api/profile", body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.mapStatus(status)
	}

	var payload struct {
		Profile *profilePayload `json:"profile"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "decode profile response")
	}

	return payload.Profile.toEntity(), nil
}

// Lookup fetches the current profile for an email, for session restore.
// A missing account is reported as the NotFound domain error.
func (c *StoreClient) Lookup(ctx context.Context, email string) (*entity.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build lookup request")
	}

	data, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.mapStatus(status)
	}

	var payload struct {
		Accounts []struct {
			Email   string          `json:"email"`
			Profile *profilePayload `json:"profile"`
		} `json:"accounts"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "decode accounts response")
	}

	for _, account := range payload.Accounts {
		if account.Email == email {
			return account.Profile.toEntity(), nil
		}
	}

	return nil, errors.WithStack(domainerrors.ErrAccountNotFound)
}

func (c *StoreClient) post(ctx context.Context, path string, body any) (json.RawMessage, int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, errors.Wrapf(err, "build request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *StoreClient) do(req *http.Request) (json.RawMessage, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("store request failed",
			slog.String("path", req.URL.Path),
			slog.Any("error", err))

		return nil, 0, errors.WithStack(domainerrors.ErrStoreUnavailable.WithDetails(err.Error()))
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, 0, errors.WithStack(domainerrors.ErrStoreUnavailable.WithDetails(
			fmt.Sprintf("malformed store response: %v", err)))
	}

	return env.Data, resp.StatusCode, nil
}

func (c *StoreClient) mapStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return errors.WithStack(domainerrors.ErrValidationFailed)
	case http.StatusNotFound:
		return errors.WithStack(domainerrors.ErrAccountNotFound)
	case http.StatusConflict:
		return errors.WithStack(domainerrors.ErrAccountAlreadyExists)
	case http.StatusServiceUnavailable:
		return errors.WithStack(domainerrors.ErrStoreUnavailable)
	default:
		return errors.WithStack(domainerrors.ErrInternalError)
	}
}
