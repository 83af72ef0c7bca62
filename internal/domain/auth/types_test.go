package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeFor(t *testing.T) {
	assert.Equal(t, PersistenceDurable, ModeFor(true))
	assert.Equal(t, PersistenceSession, ModeFor(false))
	assert.True(t, PersistenceDurable.Durable())
	assert.False(t, PersistenceSession.Durable())
}

func TestSocialProvider_Valid(t *testing.T) {
	assert.True(t, ProviderGoogle.Valid())
	assert.True(t, ProviderGitHub.Valid())
	assert.False(t, SocialProvider("facebook").Valid())
	assert.False(t, SocialProvider("").Valid())
}

func TestIdentity_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		fallback string
		want     string
	}{
		{
			name:     "email wins",
			identity: Identity{Email: "a@example.com", DisplayName: "A"},
			fallback: "GitHub User",
			want:     "a@example.com",
		},
		{
			name:     "display name when no email",
			identity: Identity{DisplayName: "octocat"},
			fallback: "GitHub User",
			want:     "octocat",
		},
		{
			name:     "placeholder when nothing else",
			identity: Identity{},
			fallback: ProviderGoogle.Placeholder(),
			want:     "Google User",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.Resolve(tt.fallback))
		})
	}
}

func TestSession_Active(t *testing.T) {
	assert.False(t, Session{}.Active())
	assert.True(t, Session{UserID: "a@example.com"}.Active())
}
