package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T) *TokenService {
	t.Helper()
	s, err := NewTokenService(testKey, "vocabdex", "vocabdex-api")
	require.NoError(t, err)
	return s
}

func TestNewTokenService_ShortKey(t *testing.T) {
	_, err := NewTokenService("short", "iss", "aud")
	assert.Error(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	s := newService(t)

	token, err := s.Issue("alice", []string{identity.RoleManager}, []string{"ec-*"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	id, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.ID())
	assert.True(t, id.HasRole(identity.RoleManager))
	assert.Equal(t, []string{"ec-*"}, id.PIDScopes())
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	s := newService(t)
	a, err := s.Issue("alice", nil, nil, time.Hour)
	require.NoError(t, err)
	b, err := s.Issue("alice", nil, nil, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssue_RequiresSubject(t *testing.T) {
	_, err := newService(t).Issue("", nil, nil, time.Hour)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidate_Rejects(t *testing.T) {
	s := newService(t)
	valid, err := s.Issue("alice", nil, nil, time.Hour)
	require.NoError(t, err)

	expired, err := s.Issue("alice", nil, nil, -time.Minute)
	require.NoError(t, err)

	otherKey, err := NewTokenService("fedcba9876543210fedcba9876543210", "vocabdex", "vocabdex-api")
	require.NoError(t, err)
	forged, err := otherKey.Issue("alice", nil, nil, time.Hour)
	require.NoError(t, err)

	otherAud, err := NewTokenService(testKey, "vocabdex", "someone-else")
	require.NoError(t, err)
	wrongAudience, err := otherAud.Issue("alice", nil, nil, time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"truncated", valid[:len(valid)-4]},
		{"expired", expired},
		{"wrong key", forged},
		{"wrong audience", wrongAudience},
		{"alg none", unsigned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Validate(tc.token)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}
