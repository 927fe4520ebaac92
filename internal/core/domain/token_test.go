package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOAuthToken_Expiry(t *testing.T) {
	epoch := int64(1700000000)
	token := OAuthToken{ExpiresAt: epoch}

	assert.Equal(t, time.Unix(epoch, 0), token.Expiry())
}

func TestOAuthToken_Expiry_Unset(t *testing.T) {
	token := OAuthToken{}

	assert.True(t, token.Expiry().IsZero())
}

func TestOAuthToken_IsExpired(t *testing.T) {
	past := OAuthToken{ExpiresAt: time.Now().Add(-time.Hour).Unix()}
	future := OAuthToken{ExpiresAt: time.Now().Add(time.Hour).Unix()}
	unset := OAuthToken{}

	assert.True(t, past.IsExpired())
	assert.False(t, future.IsExpired())
	assert.False(t, unset.IsExpired())
}
