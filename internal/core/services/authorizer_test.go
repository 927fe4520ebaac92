package services

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
)

// fakeListener implements CodeListener without any networking.
type fakeListener struct {
	code     string
	waitErr  error
	startErr error

	started bool
	stopped bool
}

func (f *fakeListener) Start() error {
	f.started = true
	return f.startErr
}

func (f *fakeListener) Stop() error {
	f.stopped = true
	return nil
}

func (f *fakeListener) WaitForCode(timeout time.Duration) (string, error) {
	if f.waitErr != nil {
		return "", f.waitErr
	}
	return f.code, nil
}

func (f *fakeListener) RedirectURI() string {
	return "http://localhost:8000"
}

// fakeExchanger implements driven.TokenExchanger.
type fakeExchanger struct {
	result *domain.TokenExchange
	err    error

	gotCode string
	calls   int
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (*domain.TokenExchange, error) {
	f.calls++
	f.gotCode = code
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeTokenStore implements driven.TokenStore in memory.
type fakeTokenStore struct {
	saved   []byte
	saveErr error
}

func (f *fakeTokenStore) Save(raw []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = raw
	return nil
}

func (f *fakeTokenStore) Load() (*domain.OAuthToken, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeTokenStore) Path() string {
	return "/tmp/strava_tokens.json"
}

func TestAuthorizer_ConsentURL(t *testing.T) {
	listener := &fakeListener{}
	authorizer := NewAuthorizer("client-123", listener, &fakeExchanger{}, &fakeTokenStore{}, nil)

	consentURL := authorizer.ConsentURL()

	parsed, err := url.Parse(consentURL)
	require.NoError(t, err)
	assert.Equal(t, "www.strava.com", parsed.Host)
	assert.Equal(t, "/oauth/authorize", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://localhost:8000", q.Get("redirect_uri"))
	assert.Equal(t, "force", q.Get("approval_prompt"))
	assert.Equal(t, "activity:read_all", q.Get("scope"))
}

func TestAuthorizer_Run_Success(t *testing.T) {
	listener := &fakeListener{code: "auth-code-1"}
	exchanger := &fakeExchanger{
		result: &domain.TokenExchange{
			Token: domain.OAuthToken{
				AccessToken:  "access-xyz",
				RefreshToken: "refresh-abc",
				ExpiresAt:    time.Now().Add(6 * time.Hour).Unix(),
			},
			Raw: []byte(`{"access_token":"access-xyz"}`),
		},
	}
	tokens := &fakeTokenStore{}
	authorizer := NewAuthorizer("client-123", listener, exchanger, tokens, nil)

	var out bytes.Buffer
	err := authorizer.Run(context.Background(), &out, time.Second)

	require.NoError(t, err)
	assert.True(t, listener.started)
	assert.True(t, listener.stopped)
	assert.Equal(t, "auth-code-1", exchanger.gotCode)
	assert.Equal(t, []byte(`{"access_token":"access-xyz"}`), tokens.saved)

	// Operator output carries both tokens and the persistence location
	assert.Contains(t, out.String(), "access-xyz")
	assert.Contains(t, out.String(), "refresh-abc")
	assert.Contains(t, out.String(), "/tmp/strava_tokens.json")
}

func TestAuthorizer_Run_Timeout(t *testing.T) {
	listener := &fakeListener{waitErr: domain.ErrAuthorizeTimeout}
	exchanger := &fakeExchanger{}
	tokens := &fakeTokenStore{}
	authorizer := NewAuthorizer("client-123", listener, exchanger, tokens, nil)

	var out bytes.Buffer
	err := authorizer.Run(context.Background(), &out, time.Second)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthorizeTimeout)
	// No exchange attempted, nothing persisted
	assert.Zero(t, exchanger.calls)
	assert.Nil(t, tokens.saved)
}

func TestAuthorizer_Run_ExchangeFailure_NothingPersisted(t *testing.T) {
	listener := &fakeListener{code: "auth-code-1"}
	exchanger := &fakeExchanger{err: domain.ErrProviderRejected}
	tokens := &fakeTokenStore{}
	authorizer := NewAuthorizer("client-123", listener, exchanger, tokens, nil)

	var out bytes.Buffer
	err := authorizer.Run(context.Background(), &out, time.Second)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderRejected)
	assert.Nil(t, tokens.saved)
	assert.Equal(t, 1, exchanger.calls)
}

func TestAuthorizer_Run_ListenerStartFailure(t *testing.T) {
	listener := &fakeListener{startErr: errors.New("address in use")}
	authorizer := NewAuthorizer("client-123", listener, &fakeExchanger{}, &fakeTokenStore{}, nil)

	var out bytes.Buffer
	err := authorizer.Run(context.Background(), &out, time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting callback listener")
}

func TestAuthorizer_Run_BrowserFailureIsNonFatal(t *testing.T) {
	listener := &fakeListener{code: "auth-code-1"}
	exchanger := &fakeExchanger{
		result: &domain.TokenExchange{Raw: []byte(`{}`)},
	}
	tokens := &fakeTokenStore{}

	browserErr := errors.New("no display")
	authorizer := NewAuthorizer("client-123", listener, exchanger, tokens,
		func(string) error { return browserErr })

	var out bytes.Buffer
	err := authorizer.Run(context.Background(), &out, time.Second)

	require.NoError(t, err)
	assert.Equal(t, 1, exchanger.calls)
}

func TestAuthorizer_Run_ListenerStartsBeforeBrowser(t *testing.T) {
	listener := &fakeListener{code: "auth-code-1"}
	exchanger := &fakeExchanger{result: &domain.TokenExchange{Raw: []byte(`{}`)}}

	listenerRunning := false
	authorizer := NewAuthorizer("client-123", listener, exchanger, &fakeTokenStore{},
		func(string) error {
			listenerRunning = listener.started
			return nil
		})

	var out bytes.Buffer
	require.NoError(t, authorizer.Run(context.Background(), &out, time.Second))

	assert.True(t, listenerRunning, "listener must be accepting before browser navigation")
}
