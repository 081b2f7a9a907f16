package auth

import (
	"context"
	"testing"
	"time"

	"concertly/internal/shared/config"
	"concertly/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byEmail map[string]*users.User
	byID    map[string]*users.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byEmail: make(map[string]*users.User),
		byID:    make(map[string]*users.User),
	}
}

func (f *fakeRepo) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	f.byEmail[user.Email] = user
	f.byID[user.ID.String()] = user
	return nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func registerReq() *RegisterRequest {
	return &RegisterRequest{
		FirstName: "Greta",
		LastName:  "Olsen",
		Email:     "greta@example.com",
		Password:  "Test@1234",
	}
}

func TestRegister(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	assert.Equal(t, "greta@example.com", resp.User.Email)
	assert.Equal(t, string(users.RoleUser), resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.ExpiresIn)

	// Password is never echoed back, and the stored one is hashed
	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq())
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	testCases := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "greta@example.com", "Test@1234", nil},
		{"wrong password", "greta@example.com", "wrong", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "Test@1234", ErrInvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), &LoginRequest{
				Email:    tc.email,
				Password: tc.password,
			})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.AccessToken)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// An access token is not accepted as a refresh token
	_, err = svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.NoError(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with a different secret is rejected
	other := NewService(newFakeRepo(), &config.Config{
		JWT: config.JWTConfig{
			Secret:       "other-secret",
			JWTExpiresIn: 15 * time.Minute,
		},
	})
	otherResp, err := other.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.ValidateToken(otherResp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
