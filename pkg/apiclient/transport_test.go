package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBackend spins up a fake API that accepts only validToken as bearer and
// serves refreshes at /api/v1/auth/refresh.
func newBackend(t *testing.T, validToken string, refresh http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var apiCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/refresh", refresh)
	mux.HandleFunc("/api/v1/protected", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Echo", string(body))
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &apiCalls
}

func refreshHandler(t *testing.T, wantRefreshToken string, issue TokenPair, calls *int32) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken != wantRefreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": issue})
	}
}

func newTestClient(srv *httptest.Server, store TokenStore, onExpired func()) *http.Client {
	return &http.Client{Transport: &Transport{
		Store:            store,
		RefreshURL:       srv.URL + "/api/v1/auth/refresh",
		OnSessionExpired: onExpired,
	}}
}

func TestTransportAttachesBearer(t *testing.T) {
	var refreshCalls int32
	srv, apiCalls := newBackend(t, "good-access", refreshHandler(t, "", TokenPair{}, &refreshCalls))

	store := NewMemoryTokenStore()
	store.Set(TokenPair{AccessToken: "good-access", RefreshToken: "good-refresh"})

	resp, err := newTestClient(srv, store, nil).Get(srv.URL + "/api/v1/protected")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(apiCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls))
}

func TestTransportRefreshesOnceAndReplays(t *testing.T) {
	fresh := TokenPair{AccessToken: "fresh-access", RefreshToken: "fresh-refresh"}
	var refreshCalls int32
	srv, apiCalls := newBackend(t, "fresh-access", refreshHandler(t, "old-refresh", fresh, &refreshCalls))

	store := NewMemoryTokenStore()
	store.Set(TokenPair{AccessToken: "expired-access", RefreshToken: "old-refresh"})

	body := bytes.NewReader([]byte(`{"q":"aspirin"}`))
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/protected", body)
	require.NoError(t, err)

	resp, err := newTestClient(srv, store, nil).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(apiCalls), "original request plus one replay")
	assert.Equal(t, `{"q":"aspirin"}`, resp.Header.Get("X-Echo"), "replayed request must carry the original body")

	current, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, fresh, current)
}

func TestTransportSecondUnauthorizedPassesThrough(t *testing.T) {
	// The refresh succeeds but the issued token is still rejected by the API.
	stillBad := TokenPair{AccessToken: "still-bad", RefreshToken: "still-bad-refresh"}
	var refreshCalls int32
	srv, apiCalls := newBackend(t, "never-valid", refreshHandler(t, "old-refresh", stillBad, &refreshCalls))

	store := NewMemoryTokenStore()
	store.Set(TokenPair{AccessToken: "expired-access", RefreshToken: "old-refresh"})

	resp, err := newTestClient(srv, store, nil).Get(srv.URL + "/api/v1/protected")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls), "refresh runs at most once per request")
	assert.Equal(t, int32(2), atomic.LoadInt32(apiCalls))
}

func TestTransportRefreshFailureExpiresSession(t *testing.T) {
	var refreshCalls int32
	refuse := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}
	srv, _ := newBackend(t, "never-valid", refuse)

	store := NewMemoryTokenStore()
	store.Set(TokenPair{AccessToken: "expired-access", RefreshToken: "revoked-refresh"})

	expired := false
	resp, err := newTestClient(srv, store, func() { expired = true }).Get(srv.URL + "/api/v1/protected")

	// The refresh failure surfaces as an error, not as the original 401.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh session")
	assert.Nil(t, resp)
	assert.True(t, expired, "OnSessionExpired must fire when the refresh is rejected")
	_, ok := store.Get()
	assert.False(t, ok, "stored credentials must be cleared")
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
}

func TestTransportNoTokenNoRefresh(t *testing.T) {
	var refreshCalls int32
	srv, apiCalls := newBackend(t, "whatever", refreshHandler(t, "", TokenPair{}, &refreshCalls))

	resp, err := newTestClient(srv, NewMemoryTokenStore(), nil).Get(srv.URL + "/api/v1/protected")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls), "anonymous 401s are not refreshable")
	assert.Equal(t, int32(1), atomic.LoadInt32(apiCalls))
}

func TestTransportCoalescesConcurrentRefresh(t *testing.T) {
	fresh := TokenPair{AccessToken: "fresh-access", RefreshToken: "fresh-refresh"}
	var refreshCalls int32
	srv, _ := newBackend(t, "fresh-access", refreshHandler(t, "old-refresh", fresh, &refreshCalls))

	store := NewMemoryTokenStore()
	store.Set(TokenPair{AccessToken: "expired-access", RefreshToken: "old-refresh"})
	client := newTestClient(srv, store, nil)

	done := make(chan int, 4)
	for i := 0; i < 4; i++ {
		go func() {
			resp, err := client.Get(srv.URL + "/api/v1/protected")
			if err != nil {
				done <- 0
				return
			}
			resp.Body.Close()
			done <- resp.StatusCode
		}()
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, <-done)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls), "concurrent 401s must share one refresh")
}
