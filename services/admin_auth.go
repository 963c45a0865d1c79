package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// AdminUserStore is the credential store the login flow depends on.
type AdminUserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	Add(ctx context.Context, user *models.AdminUser) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type LoginResult struct {
	Token string
	User  models.PublicAdminUser
}

type SeedInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type AdminAuthService struct {
	users  AdminUserStore
	tokens TokenIssuer
	logger zerolog.Logger
	now    func() time.Time
}

func NewAdminAuthService(users AdminUserStore, tokens TokenIssuer) *AdminAuthService {
	return &AdminAuthService{
		users:  users,
		tokens: tokens,
		logger: log.With().Str("service", "adminAuth").Logger(),
		now:    time.Now,
	}
}

// Login checks the credentials and returns a signed session token.
// Unknown user and wrong password produce the same error.
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if username == "" || password == "" {
		return LoginResult{}, errs.BadRequest("username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errs.IsNotFound(err) {
		dummy, hashErr := auth.DummyHash()
		if hashErr != nil {
			return LoginResult{}, errs.NewInternalError("prepare credential check", hashErr)
		}
		auth.ComparePassword(dummy, password)
		return LoginResult{}, errs.NewInvalidCredentialsError()
	}
	if err != nil {
		return LoginResult{}, err
	}

	if !auth.ComparePassword(user.PasswordHash, password) {
		return LoginResult{}, errs.NewInvalidCredentialsError()
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return LoginResult{}, err
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		return LoginResult{}, errs.NewInternalError("issue session token", err)
	}

	s.logger.Info().Str("userId", user.ID.String()).Msg("admin logged in")
	return LoginResult{Token: token, User: user.Public()}, nil
}

// CurrentUser resolves the id carried by a verified session.
func (s *AdminAuthService) CurrentUser(ctx context.Context, userID string) (models.PublicAdminUser, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return models.PublicAdminUser{}, errs.Unauthorized
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.PublicAdminUser{}, err
	}
	return user.Public(), nil
}

// SeedAdmin creates the account unless the username is taken. It reports
// whether a user was created.
func (s *AdminAuthService) SeedAdmin(ctx context.Context, in SeedInput) (bool, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = models.RoleAdmin
	}
	switch {
	case in.Username == "":
		return false, errs.NewMissingRequiredFieldError("ADMIN_USERNAME")
	case in.Email == "":
		return false, errs.NewMissingRequiredFieldError("ADMIN_EMAIL")
	case in.Password == "":
		return false, errs.NewMissingRequiredFieldError("ADMIN_PASSWORD")
	case !models.ValidRole(in.Role):
		return false, errs.NewInvalidFieldError("ADMIN_ROLE", "must be admin or editor")
	}

	_, err := s.users.FindByUsername(ctx, in.Username)
	if err == nil {
		s.logger.Info().Str("username", in.Username).Msg("admin user already exists")
		return false, nil
	}
	if !errs.IsNotFound(err) {
		return false, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return false, errs.NewInvalidFieldError("ADMIN_PASSWORD", err.Error())
	}

	user := &models.AdminUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Add(ctx, user); err != nil {
		return false, err
	}
	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("admin user created")
	return true, nil
}
