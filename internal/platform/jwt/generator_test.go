package jwtmw

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:     "test-secret",
		Issuer:     "test-issuer",
		Audience:   "test-audience",
		Expiration: time.Hour,
	}
}

// fixedClock returns a clock that always reports t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		cfg                Config
		wantErr            error
		expectedIssuer     string
		expectedAudience   string
		expectedExpiration time.Duration
	}{
		{
			name:               "standard config",
			cfg:                testConfig(),
			expectedIssuer:     "test-issuer",
			expectedAudience:   "test-audience",
			expectedExpiration: time.Hour,
		},
		{
			name:               "defaults for empty issuer, audience and expiration",
			cfg:                Config{Secret: "s"},
			expectedIssuer:     DefaultIssuer,
			expectedAudience:   DefaultAudience,
			expectedExpiration: time.Hour,
		},
		{
			name:    "missing secret",
			cfg:     Config{Issuer: "x"},
			wantErr: ErrMissingSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, err := NewService(tt.cfg)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Secret, string(svc.secret))
			assert.Equal(t, tt.expectedIssuer, svc.issuer)
			assert.Equal(t, tt.expectedAudience, svc.audience)
			assert.Equal(t, tt.expectedExpiration, svc.expiration)
		})
	}
}

func TestService_IssueAndValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userID   uint
		username string
	}{
		{"basic user", 1, "alice"},
		{"dotted username", 42, "bob.smith"},
		{"large user id", 999999, "c_user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, err := NewService(testConfig())
			require.NoError(t, err)

			tokenStr, err := svc.Issue(tt.userID, tt.username)
			require.NoError(t, err)
			require.NotEmpty(t, tokenStr)

			claims, err := svc.Validate(tokenStr)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, "test-issuer", claims.Issuer)
			assert.Contains(t, claims.Audience, "test-audience")
			assert.NotEmpty(t, claims.ID, "jti should be set")
		})
	}
}

func TestService_Issue_Expiration(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc, err := NewService(testConfig())
	require.NoError(t, err)
	svc.now = fixedClock(issuedAt)

	tokenStr, err := svc.Issue(1, "alice")
	require.NoError(t, err)

	claims, err := svc.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issuedAt.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestService_Validate_AfterExpiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc, err := NewService(testConfig())
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt)
	tokenStr, err := svc.Issue(1, "alice")
	require.NoError(t, err)

	// Still valid just before the one-hour lifetime ends.
	svc.now = fixedClock(issuedAt.Add(59 * time.Minute))
	_, err = svc.Validate(tokenStr)
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(time.Hour + time.Second))
	claims, err := svc.Validate(tokenStr)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestService_Validate_Rejects(t *testing.T) {
	t.Parallel()

	svc, err := NewService(testConfig())
	require.NoError(t, err)

	other := testConfig()
	other.Secret = "wrong-secret"
	wrongSecret, _ := NewService(other)

	other = testConfig()
	other.Issuer = "someone-else"
	wrongIssuer, _ := NewService(other)

	other = testConfig()
	other.Audience = "another-app"
	wrongAudience, _ := NewService(other)

	mustIssue := func(s *Service) string {
		tok, err := s.Issue(1, "alice")
		require.NoError(t, err)
		return tok
	}

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Audience:  jwt.ClaimStrings{"test-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   "test-issuer",
			Audience: jwt.ClaimStrings{"test-audience"},
		},
	}).SignedString([]byte("test-secret"))

	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Audience:  jwt.ClaimStrings{"test-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"wrong secret", mustIssue(wrongSecret)},
		{"wrong issuer", mustIssue(wrongIssuer)},
		{"wrong audience", mustIssue(wrongAudience)},
		{"none algorithm", noneToken},
		{"missing expiry", noExpiry},
		{"missing user id", noUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := svc.Validate(tt.token)

			assert.Nil(t, claims)
			assert.True(t, errors.Is(err, ErrInvalidToken), "expected ErrInvalidToken, got %v", err)
		})
	}
}

func TestService_Issue_DifferentUsersProduceDifferentTokens(t *testing.T) {
	t.Parallel()

	svc, err := NewService(testConfig())
	require.NoError(t, err)

	token1, _ := svc.Issue(1, "user1")
	token2, _ := svc.Issue(2, "user2")

	assert.NotEqual(t, token1, token2)
}
