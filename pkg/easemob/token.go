package easemob

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/easemob/pkg/cryptox"
)

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenResponse is the body of a successful client_credentials grant.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	// ExpiresIn is the token lifetime in seconds. The client does not track
	// it; callers persisting tokens can.
	ExpiresIn   int64  `json:"expires_in"`
	Application string `json:"application"`
}

// Token returns the cached access token, fetching it with the client
// credentials when none is cached. Concurrent callers share one grant.
func (c *Client) Token(ctx context.Context) (string, error) {
	if tok := c.cachedToken(); tok != "" {
		return tok, nil
	}

	v, err, _ := c.tokenGroup.Do("token", func() (any, error) {
		// A caller may have finished the grant while we waited on the group.
		if tok := c.cachedToken(); tok != "" {
			return tok, nil
		}
		tr, err := c.FetchToken(ctx)
		if err != nil {
			return "", err
		}
		return tr.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// FetchToken performs the client_credentials grant unconditionally and
// caches the resulting token.
func (c *Client) FetchToken(ctx context.Context) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "token", nil, tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
	}, nil, "")
	if err != nil {
		c.logger.WarnContext(ctx, "easemob token request failed", "error", err)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseErrorResponse(resp)
		c.logger.WarnContext(ctx, "easemob token request rejected",
			"status", resp.StatusCode,
			"code", apiErr.Code,
		)
		return nil, apiErr
	}

	var tr TokenResponse
	if err := resp.DecodeJSON(&tr); err != nil {
		return nil, err
	}
	if tr.AccessToken == "" {
		return nil, ErrTokenResponseMalformed
	}

	c.SetToken(tr.AccessToken)
	c.logger.InfoContext(ctx, "easemob token fetched",
		"token_fp", cryptox.ShortFingerprint(tr.AccessToken),
		"expires_in", tr.ExpiresIn,
	)

	if c.onToken != nil {
		c.onToken(ctx, &tr)
	}
	return &tr, nil
}

// SetToken replaces the cached token. Subsequent calls use it without
// contacting the token endpoint.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ResetToken clears the cached token so the next call fetches a new one.
func (c *Client) ResetToken() {
	c.SetToken("")
}

func (c *Client) cachedToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}
