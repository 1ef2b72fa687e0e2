package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/football_store/internal/models"
	"github.com/Skotchmaster/football_store/internal/repo"
	"github.com/Skotchmaster/football_store/internal/testutil"
	"github.com/Skotchmaster/football_store/pkg/tokens"
)

var testSecret = []byte("test-secret")

func newUserService(t *testing.T) (*UserService, *fakeNotifier, *fakePublisher) {
	t.Helper()
	db := testutil.NewDB(t)
	n := &fakeNotifier{}
	pub := &fakePublisher{}
	return &UserService{
		Repo:      &repo.GormRepo{DB: db},
		Notifier:  n,
		Events:    pub,
		JWTSecret: testSecret,
		AccessTTL: 15 * time.Minute,
	}, n, pub
}

func TestRegister(t *testing.T) {
	svc, n, pub := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Fan@Example.com ", "striker9")
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", u.Email)
	assert.Equal(t, models.RoleCustomer, u.Role)
	assert.NotEqual(t, "striker9", u.PasswordHash)

	require.Len(t, n.sent, 1)
	assert.Equal(t, "fan@example.com", n.sent[0].To)
	assert.Equal(t, []string{"user_registered"}, pub.types())

	_, err = svc.Register(ctx, "fan@example.com", "another1")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc, n, _ := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"bad email", "not-an-email", "striker9"},
		{"short password", "a@example.com", "abc1"},
		{"no digit", "a@example.com", "onlyletters"},
		{"no letter", "a@example.com", "123456789"},
		{"too long", "a@example.com", strings.Repeat("a1", 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, n.sent)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "keeper@example.com", "gloves123")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "keeper@example.com", "gloves123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, string(models.RoleCustomer), claims.Role)

	_, err = svc.Login(ctx, "keeper@example.com", "wrong-pass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "gloves123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEditProfile(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "edit@example.com", "winger77")
	require.NoError(t, err)

	got, err := svc.EditProfile(ctx, u.ID, ProfileInput{FirstName: "Hristo", LastName: "Stoichkov", PhoneNumber: "888123456"})
	require.NoError(t, err)
	assert.Equal(t, "+359888123456", got.PhoneNumber)

	got, err = svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hristo", got.FirstName)
	assert.Equal(t, "+359888123456", got.PhoneNumber)

	got, err = svc.EditProfile(ctx, u.ID, ProfileInput{FirstName: "Hristo"})
	require.NoError(t, err)
	assert.Empty(t, got.PhoneNumber)
	assert.Empty(t, got.LastName)

	_, err = svc.EditProfile(ctx, u.ID, ProfileInput{PhoneNumber: "12ab"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.EditProfile(ctx, u.ID, ProfileInput{FirstName: strings.Repeat("x", 31)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.EditProfile(ctx, uuid.New(), ProfileInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangeRoleToggles(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "role@example.com", "defender4")
	require.NoError(t, err)

	got, err := svc.ChangeRole(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	got, err = svc.ChangeRole(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, got.Role)

	_, err = svc.ChangeRole(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "admin@example.com", "admin-pass-1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin@example.com", "admin-pass-1")
	require.NoError(t, err)
	assert.False(t, created)

	res, err := svc.Login(ctx, "admin@example.com", "admin-pass-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	_, err = svc.EnsureAdmin(ctx, "admin2@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListUsersNewestFirst(t *testing.T) {
	svc, _, _ := newUserService(t)
	clk := newClock()
	svc.Now = clk.Now
	ctx := context.Background()

	_, err := svc.Register(ctx, "first@example.com", "passw0rd")
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = svc.Register(ctx, "second@example.com", "passw0rd")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "second@example.com", users[0].Email)
}
