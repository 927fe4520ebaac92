package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/cadence-labs/cadence-cli/internal/core/ports/driven"
	"github.com/cadence-labs/cadence-cli/internal/logger"
)

const (
	authorizeURL   = "https://www.strava.com/oauth/authorize"
	requestedScope = "activity:read_all"
)

// DefaultAuthorizeTimeout bounds the wait for the browser round-trip.
// The flow is interactive; two minutes is plenty for a human to click
// through the consent screen.
const DefaultAuthorizeTimeout = 120 * time.Second

// CodeListener is the local callback server the authorizer drives.
// The concrete implementation lives in the driving oauth adapter.
type CodeListener interface {
	Start() error
	Stop() error
	WaitForCode(timeout time.Duration) (string, error)
	RedirectURI() string
}

// Authorizer drives the interactive OAuth handshake end to end: consent
// URL, browser, callback wait, token exchange, persistence.
type Authorizer struct {
	clientID    string
	listener    CodeListener
	exchanger   driven.TokenExchanger
	tokens      driven.TokenStore
	openBrowser func(string) error
}

// NewAuthorizer creates an authorizer. openBrowser may be nil to skip
// browser navigation entirely (the consent URL is always printed).
func NewAuthorizer(
	clientID string,
	listener CodeListener,
	exchanger driven.TokenExchanger,
	tokens driven.TokenStore,
	openBrowser func(string) error,
) *Authorizer {
	return &Authorizer{
		clientID:    clientID,
		listener:    listener,
		exchanger:   exchanger,
		tokens:      tokens,
		openBrowser: openBrowser,
	}
}

// ConsentURL builds the provider consent URL. approval_prompt=force makes
// Strava show the consent screen even for a previously authorized app,
// guaranteeing a fresh code each run.
func (a *Authorizer) ConsentURL() string {
	params := url.Values{
		"client_id":       {a.clientID},
		"response_type":   {"code"},
		"redirect_uri":    {a.listener.RedirectURI()},
		"approval_prompt": {"force"},
		"scope":           {requestedScope},
	}
	return authorizeURL + "?" + params.Encode()
}

// Run performs one authorization round-trip. Progress and the resulting
// tokens are written to out for the operator. Timeout and provider denial
// come back as errors for the caller to report; neither is a crash.
func (a *Authorizer) Run(ctx context.Context, out io.Writer, timeout time.Duration) error {
	// Listener must be accepting connections before the browser navigates
	if err := a.listener.Start(); err != nil {
		return fmt.Errorf("starting callback listener: %w", err)
	}
	defer func() { _ = a.listener.Stop() }()

	consentURL := a.ConsentURL()

	fmt.Fprintln(out, "Opening browser for Strava authorization...")
	fmt.Fprintf(out, "If the browser does not open, visit:\n\n  %s\n\n", consentURL)

	if a.openBrowser != nil {
		if err := a.openBrowser(consentURL); err != nil {
			// Non-fatal: the user can navigate manually
			logger.Warn("could not open browser: %v", err)
		}
	}

	fmt.Fprintf(out, "Waiting for authorization (up to %s)...\n", timeout)

	code, err := a.listener.WaitForCode(timeout)
	if err != nil {
		return err
	}
	logger.Debug("authorization code received (%d characters)", len(code))

	fmt.Fprintln(out, "Exchanging authorization code for tokens...")

	result, err := a.exchanger.Exchange(ctx, code)
	if err != nil {
		// Nothing is persisted on a failed exchange
		return fmt.Errorf("token exchange: %w", err)
	}

	if err := a.tokens.Save(result.Raw); err != nil {
		return fmt.Errorf("persisting tokens: %w", err)
	}

	fmt.Fprintln(out, "\nAuthorization successful!")
	fmt.Fprintf(out, "  Access token:  %s\n", result.Token.AccessToken)
	fmt.Fprintf(out, "  Refresh token: %s\n", result.Token.RefreshToken)
	if expiry := result.Token.Expiry(); !expiry.IsZero() {
		fmt.Fprintf(out, "  Expires at:    %s\n", expiry.Format(time.RFC1123))
	}
	fmt.Fprintf(out, "\nTokens saved to %s\n", a.tokens.Path())

	return nil
}
