// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/repository"
	"gatehouse/internal/domain/service"
	"gatehouse/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	verifier    service.IdentityVerifier
	logger      *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Verifier    service.IdentityVerifier
	Logger      *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		verifier:    params.Verifier,
		logger:      params.Logger,
	}
}

// Signup orchestrates the account registration process.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	srv.logger.Info("Starting signup", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.logger.Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternalError, "failed to hash password")
	}

	newAccount := &entity.Account{
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	if err := srv.accountRepo.Create(ctx, newAccount); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			srv.logger.Warn("Signup rejected, account exists", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrAccountAlreadyExists, "signup rejected")
		}

		return nil, srv.storeFailure("Failed to create account", err)
	}

	srv.logger.Debug("Signup completed", slog.String("email", newAccount.Email))

	return &usecase.SignupOutput{Email: newAccount.Email}, nil
}

// Login orchestrates the password login process.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.logger.Debug("Starting login", slog.String("email", input.Email))

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.logger.Warn("Login failed, account not found", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrAccountNotFound, "login failed")
		}

		return nil, srv.storeFailure("Failed to load account for login", err)
	}

	// An account provisioned through Google Sign-In has no local credential;
	// any password is wrong for it, it is never "not found".
	if !account.HasLocalCredential() || !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.logger.Warn("Login failed, wrong credential", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrWrongCredential, "login failed")
	}

	srv.logger.Debug("Login completed", slog.String("email", account.Email))

	return &usecase.LoginOutput{
		Email:   account.Email,
		Profile: account.Profile,
	}, nil
}

// GoogleAuth orchestrates external-identity login. Verification succeeding
// always produces a session: account creation is implicit for new emails and
// existing accounts are reused unmodified (upsert-on-verify policy).
func (srv *authService) GoogleAuth(ctx context.Context, input *usecase.GoogleAuthInput) (*usecase.GoogleAuthOutput, error) {
	srv.logger.Info("Handling Google sign-in")

	identity, err := srv.verifier.Verify(ctx, input.Credential)
	if err != nil {
		srv.logger.Warn("Google sign-in rejected", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "failed to verify identity token")
	}

	account, err := srv.findOrCreateGoogleAccount(ctx, identity)
	if err != nil {
		return nil, err
	}

	return &usecase.GoogleAuthOutput{
		Email:   account.Email,
		Name:    identity.DisplayName,
		Profile: account.Profile,
	}, nil
}

// findOrCreateGoogleAccount finds the account for a verified identity or
// auto-provisions one with no local credential.
func (srv *authService) findOrCreateGoogleAccount(ctx context.Context, identity *service.Identity) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByEmail(ctx, identity.Email)
	if err == nil {
		srv.logger.Debug("Found existing account for Google sign-in", slog.String("email", account.Email))

		return account, nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, srv.storeFailure("Failed to load account for Google sign-in", err)
	}

	srv.logger.Info("Auto-provisioning account for Google sign-in", slog.String("email", identity.Email))

	newAccount := &entity.Account{Email: identity.Email}
	if err := srv.accountRepo.Create(ctx, newAccount); err != nil {
		// A concurrent sign-in for the same new email may have won the
		// create; reuse its account.
		if errors.Is(err, repository.ErrAccountExists) {
			existing, findErr := srv.accountRepo.FindByEmail(ctx, identity.Email)
			if findErr != nil {
				return nil, srv.storeFailure("Failed to reload account after create race", findErr)
			}

			return existing, nil
		}

		return nil, srv.storeFailure("Failed to auto-provision account", err)
	}

	return newAccount, nil
}

// SaveProfile overwrites the profile on the account.
func (srv *authService) SaveProfile(ctx context.Context, input *usecase.SaveProfileInput) (*entity.Profile, error) {
	srv.logger.Info("Saving profile", slog.String("email", input.Email))

	fields := entity.ProfileFields{
		FullName: input.FullName,
		Phone:    input.Phone,
		City:     input.City,
		State:    input.State,
	}

	profile, err := srv.accountRepo.SetProfile(ctx, input.Email, fields)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.logger.Warn("Profile save rejected, account not found", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrAccountNotFound, "profile save rejected")
		}

		return nil, srv.storeFailure("Failed to save profile", err)
	}

	return profile, nil
}

// ListAccounts returns every account for the debug endpoint.
func (srv *authService) ListAccounts(ctx context.Context) ([]*entity.Account, error) {
	accounts, err := srv.accountRepo.List(ctx)
	if err != nil {
		return nil, srv.storeFailure("Failed to list accounts", err)
	}

	return accounts, nil
}

// storeFailure logs the underlying store error and surfaces it as
// Unavailable, keeping it distinct from credential and validation failures.
func (srv *authService) storeFailure(msg string, err error) error {
	srv.logger.Error(msg, slog.Any("error", err))

	return errors.Wrap(domainerrors.ErrStoreUnavailable, err.Error())
}
