package easemob_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/easemob/pkg/easemob"
	"github.com/stretchr/testify/require"
)

func TestTokenFetchedOnceAcrossCalls(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, fakeConfig{})
	c := newTestClient(t, fs)
	ctx := context.Background()

	for range 3 {
		_, err := c.UserDetails(ctx, "alice")
		require.NoError(t, err)
	}

	require.EqualValues(t, 1, fs.tokenCalls.Load())
	require.Equal(t, "Bearer "+testToken, fs.last(t).Header.Get("Authorization"))
}

func TestTokenRequest(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, fakeConfig{})
	newTestClient(t, fs)

	req := fs.last(t)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/acme/chat/token", req.Path)
	require.Empty(t, req.Header.Get("Authorization"), "token request must be unauthenticated")
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))

	body := decodeBody(t, req.Body)
	require.Equal(t, "client_credentials", body["grant_type"])
	require.Equal(t, "YXA6client", body["client_id"])
	require.Equal(t, "YXA6secret", body["client_secret"])
}

func TestInjectedTokenSkipsGrant(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, fakeConfig{})
	c := newTestClient(t, fs, withToken("injected"))

	ok, err := c.Activate(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, ok)

	require.EqualValues(t, 0, fs.tokenCalls.Load())
	require.Equal(t, "Bearer injected", fs.last(t).Header.Get("Authorization"))
}

func TestSetTokenAfterConstruction(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, fakeConfig{})
	c := newTestClient(t, fs)

	c.SetToken("replacement")
	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "replacement", tok)

	_, err = c.Deactivate(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "Bearer replacement", fs.last(t).Header.Get("Authorization"))
	require.EqualValues(t, 1, fs.tokenCalls.Load())
}

func TestResetTokenRefetches(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	fs := newFakeServer(t, fakeConfig{
		Token: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": fmt.Sprintf("tok-%d", n.Add(1)),
				"expires_in":   60,
			})
		},
	})
	c := newTestClient(t, fs)

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)

	c.ResetToken()
	_, err = c.UserDetails(context.Background(), "alice")
	require.NoError(t, err)

	require.EqualValues(t, 2, fs.tokenCalls.Load())
	require.Equal(t, "Bearer tok-2", fs.last(t).Header.Get("Authorization"))
}

func TestConcurrentFirstFetchIsCoalesced(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, fakeConfig{
		Token: func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(50 * time.Millisecond)
			writeJSON(w, http.StatusOK, map[string]any{"access_token": testToken})
		},
	})
	// Start with a token so New does not fetch, then drop it.
	c := newTestClient(t, fs, withToken("seed"))
	c.ResetToken()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := c.Token(context.Background())
			if err == nil && tok != testToken {
				err = fmt.Errorf("unexpected token %q", tok)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, fs.tokenCalls.Load())
}

func TestOnTokenFetched(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t, fakeConfig{})

	var got *easemob.TokenResponse
	newTestClient(t, fs, func(c *easemob.Config) {
		c.OnTokenFetched = func(_ context.Context, tr *easemob.TokenResponse) { got = tr }
	})

	require.NotNil(t, got)
	require.Equal(t, testToken, got.AccessToken)
	require.EqualValues(t, 5184000, got.ExpiresIn)
	require.NotEmpty(t, got.Application)
}

func TestTokenFailures(t *testing.T) {
	t.Parallel()

	t.Run("missing access token", func(t *testing.T) {
		t.Parallel()
		fs := newFakeServer(t, fakeConfig{
			Token: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"expires_in": 60})
			},
		})

		_, err := easemob.New(context.Background(), fs.config())
		require.ErrorIs(t, err, easemob.ErrTokenResponseMalformed)
	})

	t.Run("body not json", func(t *testing.T) {
		t.Parallel()
		fs := newFakeServer(t, fakeConfig{
			Token: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>gateway</html>"))
			},
		})

		_, err := easemob.New(context.Background(), fs.config())
		var decodeErr *easemob.ResponseDecodeError
		require.True(t, errors.As(err, &decodeErr), "got %v", err)
		require.Equal(t, http.StatusOK, decodeErr.StatusCode)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		t.Parallel()
		fs := newFakeServer(t, fakeConfig{
			Token: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"error":             "invalid_grant",
					"error_description": "client_id does not exist",
				})
			},
		})

		c := newTestClient(t, fs, withToken("seed"))
		c.ResetToken()

		_, err := c.Token(context.Background())
		apiErr, ok := easemob.IsAPIError(err)
		require.True(t, ok, "got %v", err)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "invalid_grant", apiErr.Code)
		require.Equal(t, "client_id does not exist", apiErr.Description)

		// The token call is still recorded.
		require.Equal(t, http.StatusBadRequest, c.LastResponse().StatusCode)
	})

	t.Run("non json error body", func(t *testing.T) {
		t.Parallel()
		fs := newFakeServer(t, fakeConfig{
			Token: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("upstream down"))
			},
		})

		_, err := easemob.New(context.Background(), fs.config())
		apiErr, ok := easemob.IsAPIError(err)
		require.True(t, ok, "got %v", err)
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		require.Empty(t, apiErr.Code)
		require.Equal(t, "upstream down", apiErr.Description)
	})
}
