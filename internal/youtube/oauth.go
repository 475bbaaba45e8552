package youtube

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

// Refresher exchanges a refresh token for a fresh access token at Google's
// token endpoint.
type Refresher struct {
	conf *oauth2.Config
}

func NewRefresher(clientID, clientSecret string) *Refresher {
	return &Refresher{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
		},
	}
}

// RefreshedToken is the result of a token refresh. RefreshToken is empty
// unless Google rotated it (it usually only issues one on first consent).
type RefreshedToken struct {
	AccessToken  string
	RefreshToken string
}

// Refresh exchanges the stored refresh token for a new access token.
// A rejection by the token endpoint is an auth failure; anything else is
// transient.
func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (*RefreshedToken, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", model.ErrAuth)
	}

	src := r.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			retrieveErr.Response.StatusCode >= 400 && retrieveErr.Response.StatusCode < 500 {
			return nil, fmt.Errorf("%w: token refresh rejected: %v", model.ErrAuth, err)
		}
		return nil, fmt.Errorf("%w: token refresh: %v", model.ErrTransient, err)
	}

	out := &RefreshedToken{AccessToken: tok.AccessToken}
	if tok.RefreshToken != refreshToken {
		out.RefreshToken = tok.RefreshToken
	}
	return out, nil
}
