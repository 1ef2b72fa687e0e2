package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/football_store/internal/models"
	"github.com/Skotchmaster/football_store/internal/mykafka"
	"github.com/Skotchmaster/football_store/internal/repo"
	pkg_hash "github.com/Skotchmaster/football_store/pkg/hash"
	"github.com/Skotchmaster/football_store/pkg/logging"
	"github.com/Skotchmaster/football_store/pkg/tokens"
)

const (
	DefaultAccessTTL = 15 * time.Minute

	phonePrefix   = "+359"
	maxNameLength = 30

	welcomeSubject = "Welcome to the football store"
	welcomeBody    = "Welcome to our community. Shop easily top-quality football gear."
)

// Notifier delivers best-effort messages; it never reports failure to the caller.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string)
}

type UserService struct {
	Repo      *repo.GormRepo
	Notifier  Notifier
	Events    EventPublisher
	JWTSecret []byte
	AccessTTL time.Duration
	Now       func() time.Time
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	User        *models.User
}

type ProfileInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.register")

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.createUser(ctx, email, password, models.RoleCustomer, "", "")
	if err != nil {
		return nil, err
	}
	l.Info("user_registered", "user_id", user.ID)

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, user.Email, welcomeSubject, welcomeBody)
	}
	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID.String(), map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"at":      user.CreatedAt,
	})
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "user.login")

	user, err := s.Repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	exp := s.now().Add(ttl)
	token, err := tokens.NewAccessToken(s.JWTSecret, user.ID.String(), string(user.Role), exp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &LoginResult{AccessToken: token, AccessExp: exp, User: user}, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// EditProfile stores the national phone number with the +359 prefix; an empty number clears it.
func (s *UserService) EditProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	phone := strings.TrimSpace(in.PhoneNumber)

	if utf8.RuneCountInString(first) > maxNameLength || utf8.RuneCountInString(last) > maxNameLength {
		return nil, fmt.Errorf("names are limited to %d characters: %w", maxNameLength, ErrValidation)
	}
	if phone != "" && !isNationalPhone(phone) {
		return nil, fmt.Errorf("phone number must be 9 digits: %w", ErrValidation)
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = first
	user.LastName = last
	user.PhoneNumber = ""
	if phone != "" {
		user.PhoneNumber = phonePrefix + phone
	}
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

// ChangeRole flips a user between CUSTOMER and ADMIN.
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Role == models.RoleAdmin {
		user.Role = models.RoleCustomer
	} else {
		user.Role = models.RoleAdmin
	}
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the configured admin account unless that email is already taken.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return false, err
	}
	if password == "" {
		return false, fmt.Errorf("admin password is required: %w", ErrValidation)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	user, err := s.createUser(ctx, email, password, models.RoleAdmin, "ADMIN", "ADMIN")
	if err != nil {
		return false, err
	}
	logging.FromContext(ctx).Info("admin_created", "user_id", user.ID)
	return true, nil
}

func (s *UserService) createUser(ctx context.Context, email, password string, role models.Role, first, last string) (*models.User, error) {
	pwHash, err := pkg_hash.HashPassword(password)
	if errors.Is(err, pkg_hash.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
		FirstName:    first,
		LastName:     last,
		CreatedAt:    s.now(),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("invalid email %q: %w", email, ErrValidation)
	}
	return email, nil
}

// validatePassword wants at least 8 characters with at least one letter and one digit.
func validatePassword(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", ErrValidation)
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return fmt.Errorf("password must contain a letter and a digit: %w", ErrValidation)
	}
	return nil
}

func isNationalPhone(s string) bool {
	if len(s) != 9 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
