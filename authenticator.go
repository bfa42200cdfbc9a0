package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// opTimeout bounds every multi-step store interaction
const opTimeout = time.Second * 10

// Auther orchestrates signup, login, refresh, and the password reset flows
// by composing the credential store, the bcrypt hasher, the token service,
// and the reset token issuer.
type Auther struct {
	repo         RepositoryManager
	tokenService TokenService
	resetIssuer  *ResetTokenIssuer
	mailer       Mailer
	logger       Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, cfg Config) *Auther {
	tokenService := NewTokenService(cfg, repo.RevokedTokens(), defLogger{})

	return &Auther{
		repo:         repo,
		tokenService: tokenService,
		resetIssuer:  NewResetTokenIssuer(repo, cfg.GetResetTokenTTL()),
		mailer:       logMailer{logger: defLogger{}},
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
		s.resetIssuer.WithLogger(logger)
	}
	return s
}

// WithMailer sets the out-of-band delivery channel for reset tokens
func (s *Auther) WithMailer(mailer Mailer) *Auther {
	if mailer != nil {
		s.mailer = mailer
	}
	return s
}

// WithTokenService overrides the token service
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Signup registers a new user and issues a token pair bound to it
func (s *Auther) Signup(ctx context.Context, req SignupRequest) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
	}

	if req.UseHashid {
		if id, err := hashid.NewUUID(req.Email); err == nil {
			user.ID = id
		}
	}

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := s.repo.Users().ExistsByEmailTx(ctx, tx, req.Email)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
		}

		if exists {
			return ErrUserAlreadyExists
		}

		if user, err = s.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return s.tokenService.GeneratePair(ctx, NewIdentity(user))
}

// Login verifies credentials and issues a fresh token pair. Unknown email
// and wrong password both surface as ErrInvalidCredentials so responses do
// not enumerate users; the distinction stays in the logs.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.logger.Debug("Login unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for login")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			s.logger.Debug("Login password mismatch", "user_id", user.ID.String())
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to verify password")
	}

	return s.tokenService.GeneratePair(ctx, NewIdentity(user))
}

// Refresh rotates a token pair. Validation order is fixed: signature and
// expiry first, revocation second.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.tokenService.Refresh(ctx, refreshToken, s.resolveIdentity)
}

// RequestPasswordReset issues a reset token for the user behind the email
// and hands it to the delivery channel. A failed delivery is logged, never
// reported as issuance failure: the token stays valid for its window.
func (s *Auther) RequestPasswordReset(ctx context.Context, email string) (*ResetConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	record, err := s.resetIssuer.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendPasswordReset(ctx, user, record.Token); err != nil {
		s.logger.Warn("password reset delivery failed", "user_id", user.ID.String(), "error", err)
	}

	return &ResetConfirmation{
		Timestamp: time.Now(),
		UserID:    user.ID,
		Token:     record.Token,
	}, nil
}

// ConfirmPasswordReset consumes a reset token, stores the new password
// hash, and re-authenticates the user with a fresh token pair. The token is
// resolved before the replacement password is hashed, so a dead token fails
// fast instead of paying for a bcrypt round first.
func (s *Auther) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user := &User{}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.resetIssuer.LookupTx(ctx, tx, token)
		if err != nil {
			return err
		}

		hash, err := HashPassword(newPassword)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
		}

		if err := s.repo.Users().ResetPasswordTx(ctx, tx, record.UserID, hash); err != nil {
			if goerrors.IsNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
		}

		if err := s.resetIssuer.Consume(ctx, tx, record); err != nil {
			return err
		}

		if user, err = s.repo.Users().GetByIDTx(ctx, tx, record.UserID.String()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user after password reset")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to finalize password reset")
	}

	return s.tokenService.GeneratePair(ctx, NewIdentity(user))
}

func (s *Auther) resolveIdentity(ctx context.Context, subject string) (Identity, error) {
	user, err := s.repo.Users().GetByID(ctx, subject)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve token subject")
	}

	return NewIdentity(user), nil
}
