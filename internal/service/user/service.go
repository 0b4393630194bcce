package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"mybooklist/internal/domain"
	"mybooklist/internal/mail"
	userrepo "mybooklist/internal/repository/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when username/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified is returned when the account email was never verified.
	ErrNotVerified = errors.New("account is not verified")
)

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationCode(ctx context.Context, code string) (*domain.User, error)
	MarkVerified(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, in userrepo.UpdateProfileInput) (*domain.User, error)
}

type cartProvider interface {
	CurrentCartOf(ctx context.Context, userID int64) (*domain.Cart, error)
}

type tokenIssuer interface {
	Issue(userID int64) (string, error)
	TTLSeconds() int
}

// Service handles signup, verification, login and the password flows.
type Service struct {
	repo        userRepo
	carts       cartProvider
	tokens      tokenIssuer
	mailer      mail.Mailer
	passwordMin int
}

func New(repo userrepo.Repository, carts cartProvider, tokens tokenIssuer, mailer mail.Mailer) *Service {
	return &Service{
		repo:        repo,
		carts:       carts,
		tokens:      tokens,
		mailer:      mailer,
		passwordMin: 8,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Signup registers a new unverified user and mails the verification
// code. Duplicate username or email surfaces as ErrAlreadyExists.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username required", domain.ErrInvalidInput)
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email required", domain.ErrInvalidInput)
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code := uuid.NewString()
	created, err := s.repo.Create(ctx, domain.User{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Username:         username,
		Email:            email,
		PasswordHash:     string(hashed),
		Role:             "USER",
		VerificationCode: &code,
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, email, username, code); err != nil {
		return nil, err
	}
	return created, nil
}

// Verify consumes a verification code, marks the account verified and
// creates the user's first current cart.
func (s *Service) Verify(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: verification code required", domain.ErrInvalidInput)
	}
	u, err := s.repo.GetByVerificationCode(ctx, code)
	if err != nil {
		return err
	}
	if err := s.repo.MarkVerified(ctx, u.ID); err != nil {
		return err
	}
	_, err = s.carts.CurrentCartOf(ctx, u.ID)
	return err
}

// Login checks credentials against the username, falling back to the
// email, and returns the user with a fresh access token. Logging in
// also guarantees a current cart exists.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		u, err = s.repo.GetByEmail(ctx, username)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !u.Verified {
		return nil, "", ErrNotVerified
	}

	if _, err := s.carts.CurrentCartOf(ctx, u.ID); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ResetPassword replaces a verified user's password with a random one
// and mails the plaintext. Like login and verification it guarantees
// the user has a current cart.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !u.Verified {
		return ErrNotVerified
	}

	password, err := randomPassword()
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, string(hashed)); err != nil {
		return err
	}
	if _, err := s.carts.CurrentCartOf(ctx, u.ID); err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(ctx, u.Email, u.Username, password)
}

// ChangePassword swaps the password after checking the old one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	newPassword = strings.TrimSpace(newPassword)
	if err := validatePassword(newPassword, s.passwordMin); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, u.ID, string(hashed))
}

// UpdateInput mirrors the editable profile fields.
type UpdateInput struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, in UpdateInput) (*domain.User, error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: username and email required", domain.ErrInvalidInput)
	}
	return s.repo.UpdateProfile(ctx, userID, userrepo.UpdateProfileInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(strings.ToLower(in.Email)),
	})
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return s.tokens.TTLSeconds()
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number", domain.ErrInvalidInput)
	}
	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
