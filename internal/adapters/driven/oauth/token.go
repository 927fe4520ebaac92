// Package oauth performs the out-of-band code-for-token exchange with Strava.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
	"github.com/cadence-labs/cadence-cli/internal/core/ports/driven"
	"github.com/cadence-labs/cadence-cli/internal/logger"
)

//nolint:gosec // G101: Not credentials, OAuth endpoint URL
const defaultTokenURL = "https://www.strava.com/oauth/token"

// Exchanger exchanges a one-time authorization code for a token pair.
// It performs exactly one attempt per invocation; authorization codes are
// consumed provider-side on first use, so a retry would fail anyway.
type Exchanger struct {
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client
}

var _ driven.TokenExchanger = (*Exchanger)(nil)

// NewExchanger creates an exchanger for the Strava token endpoint.
func NewExchanger(clientID, clientSecret string) *Exchanger {
	return NewExchangerWithURL(defaultTokenURL, clientID, clientSecret)
}

// NewExchangerWithURL creates an exchanger against a custom token endpoint.
// Used by tests to point at a local fake.
func NewExchangerWithURL(tokenURL, clientID, clientSecret string) *Exchanger {
	return &Exchanger{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Exchange posts the authorization code to the token endpoint and parses
// the response. The status code is deliberately ignored: Strava signals
// rejection through the body, and the body is what we report.
func (e *Exchanger) Exchange(ctx context.Context, code string) (*domain.TokenExchange, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", domain.ErrInvalidInput)
	}

	data := url.Values{}
	data.Set("client_id", e.clientID)
	data.Set("client_secret", e.clientSecret)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	logger.Debug("exchanging authorization code at %s", e.tokenURL)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("parsing token response: %w (raw response: %s)", err, string(body))
	}

	// A structurally valid body without access_token is a provider-side
	// rejection; surface whatever error fields Strava included.
	if _, ok := fields["access_token"]; !ok {
		return nil, rejectionError(body)
	}

	var token domain.OAuthToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("parsing token response: %w (raw response: %s)", err, string(body))
	}

	logger.Debug("token exchange succeeded, expires at %s", token.Expiry().Format(time.RFC3339))

	return &domain.TokenExchange{Token: token, Raw: body}, nil
}

// rejectionError builds an error from Strava's error-shaped response body,
// e.g. {"message":"Bad Request","errors":[{"resource":"AuthorizationCode",
// "field":"code","code":"invalid"}]}.
func rejectionError(body []byte) error {
	var errResp struct {
		Message string `json:"message"`
		Errors  []struct {
			Resource string `json:"resource"`
			Field    string `json:"field"`
			Code     string `json:"code"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &errResp); err == nil &&
		(errResp.Message != "" || len(errResp.Errors) > 0) {
		details := make([]string, 0, len(errResp.Errors))
		for _, e := range errResp.Errors {
			details = append(details, fmt.Sprintf("%s.%s: %s", e.Resource, e.Field, e.Code))
		}
		if len(details) > 0 {
			return fmt.Errorf("%w: %s (%s)", domain.ErrProviderRejected,
				errResp.Message, strings.Join(details, "; "))
		}
		return fmt.Errorf("%w: %s", domain.ErrProviderRejected, errResp.Message)
	}

	return fmt.Errorf("%w: response missing access_token (raw response: %s)",
		domain.ErrProviderRejected, string(body))
}
