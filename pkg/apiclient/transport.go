package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

type ctxKey int

// retriedKey marks a request that already went through one refresh cycle so
// a second 401 is returned to the caller as-is.
const retriedKey ctxKey = 0

// Transport is an http.RoundTripper that attaches the bearer token from the
// store and, on a 401, refreshes the token pair once and replays the
// request. When the refresh itself fails the stored credentials are cleared,
// OnSessionExpired fires, and the refresh error is returned to the caller.
type Transport struct {
	Base       http.RoundTripper
	Store      TokenStore
	RefreshURL string

	// OnSessionExpired is called once per failed refresh, after the store
	// has been cleared. Optional.
	OnSessionExpired func()

	// refreshMu serializes concurrent refresh attempts so only one request
	// hits the refresh endpoint at a time.
	refreshMu sync.Mutex
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	pair, ok := t.Store.Get()

	// Clone before mutating headers; RoundTrippers must not modify the
	// caller's request.
	out := req.Clone(req.Context())
	if ok && pair.AccessToken != "" {
		out.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !ok {
		return resp, nil
	}
	if req.Context().Value(retriedKey) != nil {
		return resp, nil
	}

	refreshed, refreshErr := t.refresh(req.Context(), pair)
	if refreshErr != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		t.Store.Clear()
		if t.OnSessionExpired != nil {
			t.OnSessionExpired()
		}
		return nil, fmt.Errorf("apiclient: refresh session: %w", refreshErr)
	}

	// Replay the original request once with the fresh token. Requests with
	// a body need GetBody to be replayable.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	retry := req.Clone(context.WithValue(req.Context(), retriedKey, struct{}{}))
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, fmt.Errorf("apiclient: cannot replay request without GetBody")
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("apiclient: replay request body: %w", err)
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+refreshed.AccessToken)
	return t.base().RoundTrip(retry)
}

// refresh exchanges the refresh token for a new pair. Under the lock it
// first re-reads the store: another request may have refreshed already.
func (t *Transport) refresh(ctx context.Context, stale TokenPair) (TokenPair, error) {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	if current, ok := t.Store.Get(); ok && current.AccessToken != stale.AccessToken {
		return current, nil
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": stale.RefreshToken})
	if err != nil {
		return TokenPair{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.RefreshURL, bytes.NewReader(payload))
	if err != nil {
		return TokenPair{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return TokenPair{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return TokenPair{}, fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var body struct {
		Data TokenPair `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return TokenPair{}, fmt.Errorf("decode refresh response: %w", err)
	}
	if body.Data.AccessToken == "" {
		return TokenPair{}, fmt.Errorf("refresh response missing access token")
	}
	if err := t.Store.Set(body.Data); err != nil {
		return TokenPair{}, err
	}
	return body.Data, nil
}
