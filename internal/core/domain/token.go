package domain

import "time"

// OAuthToken represents Strava OAuth credentials.
type OAuthToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type,omitempty"`
	// ExpiresAt is when the access token expires, in epoch seconds.
	// Strava reports expiry as an absolute timestamp rather than a TTL.
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// Expiry returns the token expiry as a time.Time.
// Returns the zero time if the provider reported no expiry.
func (t *OAuthToken) Expiry() time.Time {
	if t.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(t.ExpiresAt, 0)
}

// IsExpired returns true if the token has expired.
func (t *OAuthToken) IsExpired() bool {
	if t.ExpiresAt == 0 {
		return false
	}
	return time.Now().After(t.Expiry())
}

// TokenExchange is the outcome of a successful code-for-token exchange.
// Raw is the verbatim provider response body; it is what gets persisted so
// provider fields we do not model (e.g. the athlete summary) survive.
type TokenExchange struct {
	Token OAuthToken
	Raw   []byte
}
