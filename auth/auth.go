package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/oauth2"
)

const (
	// DefaultClientID is the Azure AD application the CLI signs in as.
	DefaultClientID = "9bc3ab49-b65d-410a-85ad-de819febfddc"

	// DefaultAuthority is the Azure AD v2.0 authority used when no tenant
	// is configured.
	DefaultAuthority = "https://login.microsoftonline.com/common"

	// expiryLeeway is subtracted from the cached expiry so a token is never
	// used in its final seconds.
	expiryLeeway = 60 * time.Second
)

// ErrNotConnected is returned when a command needs a token but no sign-in
// has happened.
var ErrNotConnected = errors.New("not connected to SharePoint Online; run 'office365 spo connect <url>' first")

// Authenticator resolves cached bearer tokens per resource and performs the
// device-code sign-in.
type Authenticator struct {
	store     *Store
	clientID  string
	authority string
	now       func() time.Time
}

func NewAuthenticator(store *Store, clientID, authority string) *Authenticator {
	if strings.TrimSpace(clientID) == "" {
		clientID = DefaultClientID
	}
	if strings.TrimSpace(authority) == "" {
		authority = DefaultAuthority
	}
	return &Authenticator{
		store:     store,
		clientID:  clientID,
		authority: strings.TrimRight(authority, "/"),
		now:       time.Now,
	}
}

func (a *Authenticator) oauthConfig(resource string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: a.clientID,
		Scopes:   []string{resource + "/.default", "offline_access"},
		Endpoint: oauth2.Endpoint{
			AuthURL:       a.authority + "/oauth2/v2.0/authorize",
			TokenURL:      a.authority + "/oauth2/v2.0/token",
			DeviceAuthURL: a.authority + "/oauth2/v2.0/devicecode",
		},
	}
}

// Login runs the device-code flow for the given resource and caches the
// resulting token. Sign-in instructions are written to out.
func (a *Authenticator) Login(ctx context.Context, resource string, out io.Writer) error {
	cfg := a.oauthConfig(resource)

	deviceAuth, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return fmt.Errorf("start device code flow: %w", err)
	}

	fmt.Fprintf(
		out,
		"To sign in, use a web browser to open %s and enter the code %s.\n",
		deviceAuth.VerificationURI,
		deviceAuth.UserCode,
	)

	token, err := cfg.DeviceAccessToken(ctx, deviceAuth)
	if err != nil {
		return fmt.Errorf("complete device code flow: %w", err)
	}

	if err := a.store.SaveToken(resource, token); err != nil {
		return err
	}
	log.Debug().Str("resource", resource).Time("expiry", token.Expiry).Msg("token cached")
	return nil
}

// AccessToken returns a non-expired bearer token for the resource. Cached
// tokens are reused until close to expiry, then renewed with the refresh
// token; without any cached credentials ErrNotConnected is returned.
func (a *Authenticator) AccessToken(ctx context.Context, resource string) (string, error) {
	cached, found, err := a.store.Token(resource)
	if err != nil {
		return "", err
	}
	if found && cached.AccessToken != "" && a.now().Before(cached.Expiry.Add(-expiryLeeway)) {
		return cached.AccessToken, nil
	}

	refreshToken := ""
	if found {
		refreshToken = cached.RefreshToken
	}
	if refreshToken == "" {
		// A sign-in for another resource of the same tenant still carries a
		// usable refresh token.
		refreshToken, found, err = a.store.AnyRefreshToken()
		if err != nil {
			return "", err
		}
		if !found {
			return "", ErrNotConnected
		}
	}

	token, err := a.redeemRefreshToken(ctx, resource, refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token for %s: %w", resource, err)
	}
	if err := a.store.SaveToken(resource, token); err != nil {
		return "", err
	}
	log.Debug().Str("resource", resource).Time("expiry", token.Expiry).Msg("token refreshed")
	return token.AccessToken, nil
}

func (a *Authenticator) redeemRefreshToken(ctx context.Context, resource, refreshToken string) (*oauth2.Token, error) {
	cfg := a.oauthConfig(resource)
	seed := &oauth2.Token{RefreshToken: refreshToken, Expiry: a.now().Add(-time.Hour)}
	return cfg.TokenSource(ctx, seed).Token()
}
