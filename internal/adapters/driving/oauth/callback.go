// Package oauth provides the local OAuth callback server and browser helpers.
package oauth

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
	"github.com/cadence-labs/cadence-cli/internal/logger"
)

// DefaultPort is the callback port Strava apps are typically registered
// with (http://localhost:8000).
const DefaultPort = 8000

// CallbackResult holds the authorization code the provider's redirect
// carried. Only successful redirects are recorded, at most once per
// server; the first code wins.
type CallbackResult struct {
	Code string
}

// CallbackServer handles the OAuth redirect on a local port.
// It serves the callback path until stopped, but records the redirect
// outcome at most once.
type CallbackServer struct {
	mu       sync.Mutex
	port     int
	result   *CallbackResult
	resultCh chan CallbackResult
	server   *http.Server
	listener net.Listener
}

// NewCallbackServer creates a callback server for the given local port.
// Strava redirects to the registered redirect URI root, so the handler is
// mounted at "/".
func NewCallbackServer(port int) *CallbackServer {
	return &CallbackServer{
		port:     port,
		resultCh: make(chan CallbackResult, 1),
	}
}

// Start binds the listener and begins serving in a background goroutine.
// The bind is synchronous: once Start returns, the server is ready to
// accept the provider's redirect. If port is 0, a random available port
// is chosen.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Store the actual port (important when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	// The serving goroutine is daemon-like: it must never keep the
	// process alive once the orchestrator is done with it.
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Warn("callback server stopped: %v", err)
		}
	}()

	return nil
}

// handleCallback processes one inbound redirect.
// A request carrying a code gets 200 and may record the result; a request
// to the callback path without a code gets 400; anything else gets 404.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		// Strava reports denials as error=access_denied on the redirect.
		// Malformed or empty query strings land here too. Either way
		// nothing is recorded: the user may deny and then re-approve, so
		// the wait keeps going until a code arrives or the timeout fires.
		if errParam := query.Get("error"); errParam != "" {
			logger.Debug("callback reported %q, still waiting for a code", errParam)
		}
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, callbackHTML("Authorization Failed",
			"No authorization code was received. Close this window and try again."))
		return
	}

	s.record(CallbackResult{Code: code})

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, callbackHTML("Authorization Successful!",
		"You can close this window and return to your terminal."))
}

// record stores the result if nothing has been recorded yet.
// Duplicate or late callbacks are answered but never re-recorded.
func (s *CallbackServer) record(res CallbackResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		logger.Debug("ignoring duplicate callback")
		return
	}
	s.result = &res

	select {
	case s.resultCh <- res:
	default:
	}
}

// Result returns the recorded callback result, or nil if none arrived yet.
func (s *CallbackServer) Result() *CallbackResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// WaitForCode blocks until an authorization code is recorded or the timeout
// elapses. Denied or malformed redirects do not end the wait; only a code
// or the deadline does.
func (s *CallbackServer) WaitForCode(timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case res := <-s.resultCh:
		return res.Code, nil
	case <-ctx.Done():
		return "", domain.ErrAuthorizeTimeout
	}
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
// This exact value must be registered as the Strava app's callback domain.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}

func callbackHTML(title, message string) string {
	escapedTitle := html.EscapeString(title)
	escapedMessage := html.EscapeString(message)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Cadence - Strava Authorization</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 40px 60px;
            border-radius: 16px;
            border-top: 4px solid #FC4C02;
            box-shadow: 0 10px 40px rgba(0,0,0,0.1);
        }
        h1 { color: #333; margin-bottom: 10px; }
        p { color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, escapedTitle, escapedMessage)
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
