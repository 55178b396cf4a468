// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"gatehouse/internal/delivery/http/response"
	"gatehouse/internal/domain/entity"
	"gatehouse/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for account-related handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// profileView is the wire shape of a profile.
type profileView struct {
	FullName    string    `json:"fullName"`
	Phone       string    `json:"phone"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	CompletedAt time.Time `json:"completedAt"`
}

// accountView is the redacted wire shape of an account: credential material
// never leaves the service.
type accountView struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Profile   *profileView `json:"profile,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

func toProfileView(profile *entity.Profile) *profileView {
	if profile == nil {
		return nil
	}

	return &profileView{
		FullName:    profile.FullName,
		Phone:       profile.Phone,
		City:        profile.City,
		State:       profile.State,
		CompletedAt: profile.CompletedAt,
	}
}

// Signup handles the account registration request.
func (h *AuthHandler) Signup(c echo.Context) error {
	var input *usecase.SignupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Signup(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"email": output.Email}, "Account created")
}

// Login handles the password login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"email":   output.Email,
		"profile": toProfileView(output.Profile),
	}, "Login successful")
}

// GoogleAuth handles the Google Sign-In request.
func (h *AuthHandler) GoogleAuth(c echo.Context) error {
	var input *usecase.GoogleAuthInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid Google sign-in input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.GoogleAuth(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"email":   output.Email,
		"name":    output.Name,
		"profile": toProfileView(output.Profile),
	}, "Google sign-in successful")
}

// SaveProfile handles the profile completion request.
func (h *AuthHandler) SaveProfile(c echo.Context) error {
	var input *usecase.SaveProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	profile, err := h.uc.SaveProfile(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"profile": toProfileView(profile),
	}, "Profile saved")
}

// ListAccounts handles the debug listing request.
func (h *AuthHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.uc.ListAccounts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, accountView{
			ID:        account.ID.String(),
			Email:     account.Email,
			Profile:   toProfileView(account.Profile),
			CreatedAt: account.CreatedAt,
		})
	}

	return response.Success(c, http.StatusOK, map[string]any{"accounts": views}, "Accounts listed")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
