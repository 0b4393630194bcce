package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mybooklist/internal/domain"
	userrepo "mybooklist/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[int64]*domain.User{}}
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = &u
	copied := u
	return &copied, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByVerificationCode(_ context.Context, code string) (*domain.User, error) {
	for _, u := range s.users {
		if u.VerificationCode != nil && *u.VerificationCode == code {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) MarkVerified(_ context.Context, id int64) error {
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Verified = true
	u.VerificationCode = nil
	return nil
}

func (s *stubUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, id int64, in userrepo.UpdateProfileInput) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Username = in.Username
	u.Email = in.Email
	copied := *u
	return &copied, nil
}

type stubCarts struct {
	ensured []int64
}

func (s *stubCarts) CurrentCartOf(_ context.Context, userID int64) (*domain.Cart, error) {
	s.ensured = append(s.ensured, userID)
	return &domain.Cart{ID: userID * 100, UserID: &userID, Current: true}, nil
}

type stubTokens struct{}

func (stubTokens) Issue(userID int64) (string, error) { return "token-42", nil }
func (stubTokens) TTLSeconds() int                    { return 3600 }

type captureMailer struct {
	verifications map[string]string // email -> code
	resets        map[string]string // email -> new password
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{verifications: map[string]string{}, resets: map[string]string{}}
}

func (m *captureMailer) SendVerification(_ context.Context, to, _ string, code string) error {
	m.verifications[to] = code
	return nil
}

func (m *captureMailer) SendPasswordReset(_ context.Context, to, _ string, password string) error {
	m.resets[to] = password
	return nil
}

func (m *captureMailer) SendOrderConfirmation(_ context.Context, _ string, _ int64, _ string) error {
	return nil
}

func fixture() (*Service, *stubUserRepo, *stubCarts, *captureMailer) {
	repo := newStubUserRepo()
	carts := &stubCarts{}
	mailer := newCaptureMailer()
	return New(repo, carts, stubTokens{}, mailer), repo, carts, mailer
}

func signupInput() SignupInput {
	return SignupInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Username:  "janedoe",
		Email:     "Jane@Example.com",
		Password:  "Sup3rsecret",
	}
}

func TestSignup(t *testing.T) {
	svc, repo, _, mailer := fixture()
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupInput())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Verified {
		t.Fatal("new accounts must start unverified")
	}
	if u.Email != "jane@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Role != "USER" {
		t.Fatalf("want role USER, got %q", u.Role)
	}

	stored := repo.users[u.ID]
	if stored.VerificationCode == nil || *stored.VerificationCode == "" {
		t.Fatal("expected a verification code")
	}
	if got := mailer.verifications["jane@example.com"]; got != *stored.VerificationCode {
		t.Fatalf("mailed code %q does not match stored %q", got, *stored.VerificationCode)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Sup3rsecret")); err != nil {
		t.Fatal("password hash does not verify")
	}

	if _, err := svc.Signup(ctx, signupInput()); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate signup: want ErrAlreadyExists, got %v", err)
	}
}

func TestSignupPasswordPolicy(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		in := signupInput()
		in.Password = password
		if _, err := svc.Signup(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("password %q: want ErrInvalidInput, got %v", password, err)
		}
	}
}

func TestVerify(t *testing.T) {
	svc, repo, carts, mailer := fixture()
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupInput())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	code := mailer.verifications["jane@example.com"]

	if err := svc.Verify(ctx, "bogus"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("bad code: want ErrNotFound, got %v", err)
	}
	if err := svc.Verify(ctx, code); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !repo.users[u.ID].Verified {
		t.Fatal("account not marked verified")
	}
	if len(carts.ensured) != 1 || carts.ensured[0] != u.ID {
		t.Fatalf("expected a cart for user %d, got %v", u.ID, carts.ensured)
	}

	// The code is single use.
	if err := svc.Verify(ctx, code); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("reused code: want ErrNotFound, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, carts, mailer := fixture()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, signupInput()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// Unverified accounts cannot log in.
	if _, _, err := svc.Login(ctx, "janedoe", "Sup3rsecret"); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("unverified login: want ErrNotVerified, got %v", err)
	}

	if err := svc.Verify(ctx, mailer.verifications["jane@example.com"]); err != nil {
		t.Fatalf("verify: %v", err)
	}

	u, token, err := svc.Login(ctx, "janedoe", "Sup3rsecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "token-42" {
		t.Fatalf("unexpected token %q", token)
	}
	if strings.Contains(token, u.PasswordHash) {
		t.Fatal("token must not leak the hash")
	}

	// The email works as the login name too.
	if _, _, err := svc.Login(ctx, "jane@example.com", "Sup3rsecret"); err != nil {
		t.Fatalf("login by email: %v", err)
	}

	if _, _, err := svc.Login(ctx, "janedoe", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: want ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: want ErrInvalidCredentials, got %v", err)
	}

	// Every successful login guarantees a current cart.
	if len(carts.ensured) < 3 {
		t.Fatalf("expected cart checks on each login, got %v", carts.ensured)
	}
}

func TestResetPassword(t *testing.T) {
	svc, repo, carts, mailer := fixture()
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupInput())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	// Unverified accounts cannot reset.
	if err := svc.ResetPassword(ctx, "jane@example.com"); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("unverified reset: want ErrNotVerified, got %v", err)
	}

	if err := svc.Verify(ctx, mailer.verifications["jane@example.com"]); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.ResetPassword(ctx, "jane@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	mailed := mailer.resets["jane@example.com"]
	if mailed == "" {
		t.Fatal("expected the new password to be mailed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.users[u.ID].PasswordHash), []byte(mailed)); err != nil {
		t.Fatal("mailed password does not match the stored hash")
	}

	// Reset guarantees a current cart, just like login and verify.
	if len(carts.ensured) != 2 || carts.ensured[1] != u.ID {
		t.Fatalf("expected a cart check on reset, got %v", carts.ensured)
	}

	if err := svc.ResetPassword(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown email: want ErrNotFound, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo, _, _ := fixture()
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupInput())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.ChangePassword(ctx, u.ID, "wrong", "N3wpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password: want ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "Sup3rsecret", "weak"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("weak new password: want ErrInvalidInput, got %v", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "Sup3rsecret", "N3wpassword"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.users[u.ID].PasswordHash), []byte("N3wpassword")); err != nil {
		t.Fatal("new password does not verify")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupInput())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, u.ID, UpdateInput{Username: "", Email: "x@y.z"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("blank username: want ErrInvalidInput, got %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateInput{
		FirstName: "Janet",
		LastName:  "Doe",
		Username:  "janetdoe",
		Email:     "Janet@Example.com",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Username != "janetdoe" || updated.Email != "janet@example.com" {
		t.Fatalf("unexpected profile %+v", updated)
	}
}
