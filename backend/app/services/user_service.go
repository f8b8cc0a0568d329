package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtutil "storyhub/backend/app/jwt"
	"storyhub/backend/app/models"
	"storyhub/backend/app/repo"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt ignores input past 72 bytes; longer passwords are refused instead.
const maxPasswordBytes = 72

// Compared against when the username is unknown so both failure paths cost a
// bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("storyhub-dummy-password"), bcrypt.DefaultCost)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	User  *models.User
}

type UserService struct {
	users    *repo.UserRepository
	signer   *jwtutil.Signer
	revoked  TokenRevoker
	validate *validator.Validate
}

func NewUserService(users *repo.UserRepository, signer *jwtutil.Signer, revoked TokenRevoker) *UserService {
	if revoked == nil {
		revoked = NewMemoryRevoker()
	}
	return &UserService{users: users, signer: signer, revoked: revoked, validate: validator.New()}
}

// EnsureAdmin provisions an admin row once. An existing user with the same
// name is left untouched, so a rotated password survives restarts.
func (s *UserService) EnsureAdmin(username, password, email string) error {
	count, err := s.users.CountByUsername(username)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &models.User{Username: username, PasswordHash: string(hash), IsAdmin: true, CreatedAt: time.Now().UTC()}
	if email != "" {
		u.Email = &email
	}
	return s.users.Create(u)
}

func (s *UserService) Register(username, password string, email *string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if len(username) > 191 {
		return nil, fmt.Errorf("%w: username too long", ErrInvalidInput)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password too long", ErrInvalidInput)
	}
	if email != nil {
		trimmed := strings.TrimSpace(*email)
		if trimmed == "" {
			email = nil
		} else if err := s.validate.Var(trimmed, "email"); err != nil {
			return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		} else {
			email = &trimmed
		}
	}

	count, err := s.users.CountByUsername(username)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: username already registered", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{Username: username, PasswordHash: string(hash), Email: email, CreatedAt: time.Now().UTC()}
	if err := s.users.Create(u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username already registered", ErrConflict)
		}
		return nil, err
	}
	return s.issue(u)
}

func (s *UserService) Login(username, password string) (*AuthResult, error) {
	u, err := s.ValidateCredentials(username, password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// ValidateCredentials fails with the same error whether the user is unknown or
// the password is wrong.
func (s *UserService) ValidateCredentials(username, password string) (*models.User, error) {
	u, err := s.users.FindByUsername(username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
	}
	return u, nil
}

// Verify checks a session token without touching the user table.
func (s *UserService) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}
	id := &Identity{UserID: claims.UserID, Username: claims.Username, IsAdmin: claims.IsAdmin, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Me loads the caller's current user row.
func (s *UserService) Me(id *Identity) (*models.User, error) {
	if id == nil {
		return nil, ErrUnauthorized
	}
	u, err := s.users.FindByID(id.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	return u, err
}

func (s *UserService) ChangePassword(id *Identity, current, next string) error {
	if id == nil {
		return ErrUnauthorized
	}
	if next == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}
	if len(next) > maxPasswordBytes {
		return fmt.Errorf("%w: password too long", ErrInvalidInput)
	}
	u, err := s.Me(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return fmt.Errorf("%w: current password does not match", ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(u.ID, string(hash))
}

// Logout revokes the token the caller authenticated with.
func (s *UserService) Logout(ctx context.Context, id *Identity) error {
	if id == nil || id.TokenID == "" {
		return ErrUnauthorized
	}
	return s.revoked.Revoke(ctx, id.TokenID, id.ExpiresAt)
}

func (s *UserService) issue(u *models.User) (*AuthResult, error) {
	token, err := s.signer.Sign(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}
