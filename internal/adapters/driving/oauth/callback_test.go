//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
)

// startServer starts a callback server on a random port and returns it.
func startServer(t *testing.T) *CallbackServer {
	t.Helper()

	server := NewCallbackServer(0)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })

	return server
}

func TestNewCallbackServer(t *testing.T) {
	server := NewCallbackServer(8000)

	require.NotNil(t, server)
	assert.Equal(t, 8000, server.port)
	assert.NotNil(t, server.resultCh)
	assert.Nil(t, server.result)
	assert.Nil(t, server.server)
}

func TestCallbackServer_Start_RandomPort(t *testing.T) {
	server := startServer(t)

	// Port 0 should have been replaced with the bound port
	assert.NotZero(t, server.Port())
	assert.Equal(t, fmt.Sprintf("http://localhost:%d", server.Port()), server.RedirectURI())
}

func TestCallbackServer_Start_PortInUse(t *testing.T) {
	server1 := startServer(t)

	server2 := NewCallbackServer(server1.Port())
	err := server2.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestCallbackServer_HandleCallback_Success(t *testing.T) {
	server := startServer(t)

	resp, err := http.Get(server.RedirectURI() + "/?code=auth-code-xyz789")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))

	code, err := server.WaitForCode(1 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "auth-code-xyz789", code)
}

func TestCallbackServer_HandleCallback_MissingCode(t *testing.T) {
	server := startServer(t)

	resp, err := http.Get(server.RedirectURI() + "/?scope=activity:read_all")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, server.Result())
}

func TestCallbackServer_HandleCallback_EmptyQuery(t *testing.T) {
	server := startServer(t)

	resp, err := http.Get(server.RedirectURI() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, server.Result())
}

func TestCallbackServer_HandleCallback_MalformedQuery(t *testing.T) {
	server := startServer(t)

	// Percent signs that do not form valid escapes; must be "no code",
	// never a crash
	resp, err := http.Get(server.RedirectURI() + "/?code=%zz%")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, server.Result())
}

func TestCallbackServer_HandleCallback_UnknownPath(t *testing.T) {
	server := startServer(t)

	resp, err := http.Get(server.RedirectURI() + "/favicon.ico")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Nil(t, server.Result())
}

func TestCallbackServer_HandleCallback_DenialNotRecorded(t *testing.T) {
	server := startServer(t)

	resp, err := http.Get(server.RedirectURI() + "/?error=access_denied")
	require.NoError(t, err)
	defer resp.Body.Close()

	// A denial gets a 400 but does not consume the result slot
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, server.Result())
}

func TestCallbackServer_DenyThenApprove(t *testing.T) {
	server := startServer(t)

	resp1, err := http.Get(server.RedirectURI() + "/?error=access_denied")
	require.NoError(t, err)
	resp1.Body.Close()

	// The user changes their mind within the window; the retry must win
	resp2, err := http.Get(server.RedirectURI() + "/?code=retry-code")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	code, err := server.WaitForCode(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "retry-code", code)
}

func TestCallbackServer_FirstCodeWins(t *testing.T) {
	server := startServer(t)

	resp1, err := http.Get(server.RedirectURI() + "/?code=first")
	require.NoError(t, err)
	resp1.Body.Close()

	resp2, err := http.Get(server.RedirectURI() + "/?code=second")
	require.NoError(t, err)
	resp2.Body.Close()

	// Late callbacks are still answered with 200
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	// But never re-recorded
	result := server.Result()
	require.NotNil(t, result)
	assert.Equal(t, "first", result.Code)
}

func TestCallbackServer_ConcurrentCallbacks_RecordsExactlyOne(t *testing.T) {
	server := startServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			resp, err := http.Get(fmt.Sprintf("%s/?code=code-%d", server.RedirectURI(), index))
			if err == nil {
				resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()

	// Exactly one code recorded, and the wait observes that same code
	result := server.Result()
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Code)

	code, err := server.WaitForCode(1 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, result.Code, code)
}

func TestCallbackServer_WaitForCode_Timeout(t *testing.T) {
	server := NewCallbackServer(8000)

	start := time.Now()
	code, err := server.WaitForCode(100 * time.Millisecond)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthorizeTimeout)
	assert.Empty(t, code)
	// Bounded: timeout plus scheduling slack, not an indefinite block
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestCallbackServer_Stop_NotStarted(t *testing.T) {
	server := NewCallbackServer(8000)

	require.NoError(t, server.Stop())
}

func TestCallbackServer_Stop_Twice(t *testing.T) {
	server := NewCallbackServer(0)
	require.NoError(t, server.Start())

	require.NoError(t, server.Stop())
	require.NoError(t, server.Stop())
}

func TestCallbackServer_RespondsAfterRecording(t *testing.T) {
	server := startServer(t)

	resp, err := http.Get(server.RedirectURI() + "/?code=recorded")
	require.NoError(t, err)
	resp.Body.Close()

	// The server stays up to answer stray requests until stopped externally
	resp2, err := http.Get(server.RedirectURI() + "/?scope=whatever")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	result := server.Result()
	require.NotNil(t, result)
	assert.Equal(t, "recorded", result.Code)
}

func TestCallbackHTML(t *testing.T) {
	page := callbackHTML("Authorization Successful!", "You can close this window.")

	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "Authorization Successful!")
	assert.Contains(t, page, "You can close this window.")
	assert.Contains(t, page, "Cadence - Strava Authorization")
}

func TestCallbackHTML_EscapesSpecialCharacters(t *testing.T) {
	page := callbackHTML("<script>alert(1)</script>", "a & b")

	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.Contains(t, page, "&lt;script&gt;")
	assert.Contains(t, page, "a &amp; b")
}
