package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/worklog/internal/logger"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// TokenPath returns the token file under the worklog config directory.
func TokenPath(configDir string) string {
	return filepath.Join(configDir, "auth", "msgraph_tokens.json")
}

// oauth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// loadToken loads a previously saved token from disk. A missing file yields
// a nil token and no error.
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading token file")
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, errors.Wrapf(err, "corrupt token file (delete %s to re-authenticate)", path)
	}
	return &tok, nil
}

// saveToken atomically persists a token to disk.
func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "creating auth directory")
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling token")
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return errors.Wrap(err, "writing token file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "saving token file")
	}
	return nil
}

// AuthOptions configures Authenticate.
type AuthOptions struct {
	TenantID  string
	ClientID  string
	TokenPath string
	// Prompt receives the device code instructions.
	Prompt io.Writer
	Log    *zap.Logger
}

// Authenticate returns a token for Microsoft Graph. It loads the saved token,
// refreshes it if needed, or runs the device code flow when no usable token
// is available.
func Authenticate(ctx context.Context, opts AuthOptions) (*oauth2.Token, *oauth2.Config, error) {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	cfg := oauth2Config(opts.TenantID, opts.ClientID)

	tok, err := loadToken(opts.TokenPath)
	if err != nil {
		// Corrupt token, re-auth.
		log.Warn("discarding saved token", zap.Error(err))
		tok = nil
	}

	if tok != nil && tok.Valid() {
		log.Debug("using saved token", zap.Time("expiry", tok.Expiry))
		return tok, cfg, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := saveToken(opts.TokenPath, refreshed); err != nil {
				log.Warn("could not save refreshed token", zap.Error(err))
			}
			return refreshed, cfg, nil
		}
		log.Warn("token refresh failed, re-authenticating", zap.Error(err))
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "device auth request failed")
	}

	if opts.Prompt != nil {
		fmt.Fprintln(opts.Prompt)
		fmt.Fprintln(opts.Prompt, "To sign in, use a web browser to open the page:")
		fmt.Fprintf(opts.Prompt, "  %s\n", resp.VerificationURI)
		fmt.Fprintf(opts.Prompt, "Enter the code: %s\n", resp.UserCode)
		fmt.Fprintln(opts.Prompt)
	}

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, nil, errors.Wrap(err, "device authentication failed")
	}

	if err := saveToken(opts.TokenPath, newTok); err != nil {
		log.Warn("could not save token", zap.Error(err))
	}
	return newTok, cfg, nil
}
