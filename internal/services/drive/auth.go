package drive

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// Scope grants read/write access to Drive files.
const Scope = "https://www.googleapis.com/auth/drive"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

type clientSecrets struct {
	Installed *secretEntry `json:"installed"`
	Web       *secretEntry `json:"web"`
}

type secretEntry struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// LoadOAuthConfig reads a Google client secrets file. Both the
// "installed" and "web" layouts are accepted.
func LoadOAuthConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	var secrets clientSecrets
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	entry := secrets.Installed
	if entry == nil {
		entry = secrets.Web
	}
	if entry == nil || entry.ClientID == "" {
		return nil, errors.New("client secrets missing installed/web credentials")
	}
	return &oauth2.Config{
		ClientID:     entry.ClientID,
		ClientSecret: entry.ClientSecret,
		Endpoint:     googleEndpoint,
		Scopes:       []string{Scope},
	}, nil
}

// LoadToken reads a previously saved OAuth token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return &token, nil
}

// SaveToken writes the OAuth token next to the other state files.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// NewHTTPClient returns an HTTP client that authenticates with the saved
// token and persists refreshed tokens back to disk.
func NewHTTPClient(ctx context.Context, secretsPath, tokenPath string) (*http.Client, error) {
	cfg, err := LoadOAuthConfig(secretsPath)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("no saved credentials, run the auth command first: %w", err)
	}
	source := &persistingTokenSource{
		path:    tokenPath,
		source:  cfg.TokenSource(ctx, token),
		current: token,
	}
	return oauth2.NewClient(ctx, source), nil
}

// persistingTokenSource saves tokens whenever a refresh produces a new
// access token, so long-running watch sessions survive restarts.
type persistingTokenSource struct {
	path    string
	source  oauth2.TokenSource
	mu      sync.Mutex
	current *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}
	if s.current == nil || token.AccessToken != s.current.AccessToken {
		s.current = token
		if err := SaveToken(s.path, token); err != nil {
			return nil, err
		}
	}
	return token, nil
}

// Authorize runs the local-redirect OAuth flow and saves the resulting
// token. The user opens the printed URL; consent redirects back to a
// loopback listener that captures the code.
func Authorize(ctx context.Context, secretsPath, tokenPath string, out io.Writer) error {
	cfg, err := LoadOAuthConfig(secretsPath)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("start redirect listener: %w", err)
	}
	defer listener.Close()
	cfg.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	state, err := randomState()
	if err != nil {
		return err
	}
	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(out, "Open the following URL in your browser and approve access:\n\n  %s\n\n", authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- errors.New("oauth state mismatch")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- errors.New("oauth redirect missing code")
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this tab.")
		codeCh <- code
	})}
	go server.Serve(listener)
	defer server.Close()

	var code string
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	case code = <-codeCh:
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := SaveToken(tokenPath, token); err != nil {
		return err
	}
	fmt.Fprintf(out, "Credentials saved to %s\n", tokenPath)
	return nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
