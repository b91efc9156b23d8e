package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"dog-adoption-search/internal/adapters/fetchapi"
	"dog-adoption-search/internal/adapters/fetchapi/fetchapitest"
	"dog-adoption-search/internal/adapters/storage/memory"
	"dog-adoption-search/internal/domain/auth"
	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/domain/search"
	"dog-adoption-search/internal/platform/httpclient"
	"dog-adoption-search/internal/router"
	"dog-adoption-search/internal/session"
)

type testEnv struct {
	upstream *fetchapitest.Server
	sessions *session.Manager
	ts       *httptest.Server
	client   *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// 60 perros con edad 0..10 (default del filtro) => 3 páginas
	upstream := fetchapitest.NewServer(fetchapitest.Catalog(80))
	t.Cleanup(upstream.Close)

	base, err := httpclient.New(upstream.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("base client: %v", err)
	}

	sessions := session.NewManager(time.Hour, nil)
	authSvc := auth.NewService(fetchapi.NewFactory(base), sessions, auth.Options{
		Store:    memory.NewLocalStore(),
		Debounce: 20 * time.Millisecond,
	})

	ts := httptest.NewServer(router.NewRouter(router.Options{
		Auth:     authSvc,
		Sessions: sessions,
		Breeds:   dogs.NewBreedService(time.Minute),
	}))
	t.Cleanup(ts.Close)

	jar, _ := cookiejar.New(nil)
	return &testEnv{
		upstream: upstream,
		sessions: sessions,
		ts:       ts,
		client:   &http.Client{Jar: jar, Timeout: 5 * time.Second},
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func (e *testEnv) snapshot(t *testing.T, method, path string, body any, want int) search.Snapshot {
	t.Helper()
	st, raw := e.do(t, method, path, body)
	if st != want {
		t.Fatalf("%s %s: expected %d, got %d body=%s", method, path, want, st, string(raw))
	}
	var snap search.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestHTTP_EndToEnd_SearchFavoritesMatch(t *testing.T) {
	e := newTestEnv(t)

	// 1) Sin sesión => 401
	if st, _ := e.do(t, "GET", "/search", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", st)
	}

	// 2) Login
	{
		st, body := e.do(t, "POST", "/auth/login", map[string]string{"name": "Ana", "email": "ana@example.com"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
		}
		if e.sessions.Len() != 1 {
			t.Fatalf("expected 1 session, got %d", e.sessions.Len())
		}
	}

	// 3) Razas
	{
		st, body := e.do(t, "GET", "/breeds", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 breeds, got %d body=%s", st, string(body))
		}
		var breeds []string
		_ = json.Unmarshal(body, &breeds)
		if len(breeds) != 3 || breeds[0] != "Akita" {
			t.Fatalf("unexpected breeds %v", breeds)
		}
	}

	// 4) Primera búsqueda (lazy)
	snap := e.snapshot(t, "GET", "/search", nil, http.StatusOK)
	if snap.Total != 60 || len(snap.Dogs) != search.PageSize || snap.Page != 1 || snap.TotalPages != 3 {
		t.Fatalf("unexpected first page: total=%d dogs=%d page=%d/%d", snap.Total, len(snap.Dogs), snap.Page, snap.TotalPages)
	}
	if !snap.HasNext || snap.HasPrev {
		t.Fatalf("first page must have next only")
	}

	// 5) Paginación hasta el final
	if st, _ := e.do(t, "POST", "/search/prev", nil); st != http.StatusConflict {
		t.Fatalf("expected 409 prev on first page, got %d", st)
	}
	snap = e.snapshot(t, "POST", "/search/next", nil, http.StatusOK)
	if snap.From != 25 || snap.Page != 2 {
		t.Fatalf("expected page 2, got from=%d page=%d", snap.From, snap.Page)
	}
	snap = e.snapshot(t, "POST", "/search/next", nil, http.StatusOK)
	if snap.From != 50 || len(snap.Dogs) != 10 || snap.HasNext {
		t.Fatalf("unexpected last page: from=%d dogs=%d next=%v", snap.From, len(snap.Dogs), snap.HasNext)
	}
	if st, _ := e.do(t, "POST", "/search/next", nil); st != http.StatusConflict {
		t.Fatalf("expected 409 next on last page, got %d", st)
	}

	// 6) Filtro por raza => busca en el acto y vuelve a la primera página
	snap = e.snapshot(t, "PATCH", "/search/filters", map[string]any{"breeds": []string{"Beagle"}}, http.StatusOK)
	if snap.From != 0 || snap.Total != 22 {
		t.Fatalf("unexpected Beagle page: from=%d total=%d", snap.From, snap.Total)
	}
	for _, d := range snap.Dogs {
		if d.Breed != "Beagle" {
			t.Fatalf("unexpected breed %q in results", d.Breed)
		}
	}
	first := snap.Dogs[0]

	// 7) Favorito con solo el id (se resuelve desde los resultados)
	{
		st, body := e.do(t, "POST", "/favorites/toggle", map[string]string{"id": first.ID})
		if st != http.StatusOK {
			t.Fatalf("expected 200 toggle, got %d body=%s", st, string(body))
		}
		st, _ = e.do(t, "POST", "/favorites/toggle", map[string]string{"id": "dog-missing"})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 toggle unknown id, got %d", st)
		}
	}

	// 8) Match
	{
		st, body := e.do(t, "POST", "/favorites/match", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 match, got %d body=%s", st, string(body))
		}
		var resp struct {
			Match dogs.Dog `json:"match"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Match.ID != first.ID {
			t.Fatalf("expected match %s, got %s", first.ID, resp.Match.ID)
		}

		st, _ = e.do(t, "POST", "/favorites/match", nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 match without favorites, got %d", st)
		}
	}

	// 9) Favoritos vacíos, historial con el match
	{
		st, body := e.do(t, "GET", "/favorites", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 favorites, got %d", st)
		}
		var resp struct {
			Favorites       []dogs.Dog `json:"favorites"`
			PreviousMatches []dogs.Dog `json:"previous_matches"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Favorites) != 0 || len(resp.PreviousMatches) != 1 {
			t.Fatalf("unexpected favorites state: %s", string(body))
		}
	}

	// 10) Logout => la cookie deja de valer
	if st, body := e.do(t, "POST", "/auth/logout", nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 logout, got %d body=%s", st, string(body))
	}
	if st, _ := e.do(t, "GET", "/search", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", st)
	}
}

func TestHTTP_UpstreamSearchFailureKeepsState(t *testing.T) {
	e := newTestEnv(t)

	if st, _ := e.do(t, "POST", "/auth/login", map[string]string{"name": "Ana", "email": "ana@example.com"}); st != http.StatusOK {
		t.Fatalf("login failed: %d", st)
	}
	t.Cleanup(func() { _, _ = e.do(t, "POST", "/auth/logout", nil) })

	before := e.snapshot(t, "GET", "/search", nil, http.StatusOK)

	e.upstream.Fail("/dogs/search", http.StatusInternalServerError)
	st, body := e.do(t, "POST", "/search/apply", nil)
	if st != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", st, string(body))
	}

	after := e.snapshot(t, "GET", "/search", nil, http.StatusOK)
	if after.Error != search.MsgSearchFailed {
		t.Fatalf("expected error message in snapshot, got %q", after.Error)
	}
	if len(after.Dogs) != len(before.Dogs) {
		t.Fatalf("previous results must be kept on failure")
	}
	e.upstream.Fail("/dogs/search", 0)
}

func TestHTTP_UpstreamSessionExpiredDropsSession(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		warm   bool // buscar antes de que venza la cookie
	}{
		{name: "first search", method: "GET", path: "/search"},
		{name: "apply", method: "POST", path: "/search/apply", warm: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv(t)

			if st, _ := e.do(t, "POST", "/auth/login", map[string]string{"name": "Ana", "email": "ana@example.com"}); st != http.StatusOK {
				t.Fatalf("login failed: %d", st)
			}
			if tc.warm {
				e.snapshot(t, "GET", "/search", nil, http.StatusOK)
			}

			e.upstream.Fail("/dogs/search", http.StatusUnauthorized)

			st, body := e.do(t, tc.method, tc.path, nil)
			if st != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d body=%s", st, string(body))
			}
			var er struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(body, &er)
			if er.Error != dogs.MsgSessionExpired {
				t.Fatalf("expected %q, got %q", dogs.MsgSessionExpired, er.Error)
			}
			if n := e.sessions.Len(); n != 0 {
				t.Fatalf("expired session must be dropped, got %d sessions", n)
			}

			for _, path := range []string{"/breeds", "/search", "/favorites"} {
				if st, _ := e.do(t, "GET", path, nil); st != http.StatusUnauthorized {
					t.Fatalf("GET %s: expected 401 after expiry, got %d", path, st)
				}
			}
		})
	}
}

func TestHTTP_HealthMetricsAndSessionHeader(t *testing.T) {
	e := newTestEnv(t)

	if st, body := e.do(t, "GET", "/health", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health %d %s", st, string(body))
	}
	if st, _ := e.do(t, "GET", "/metrics", nil); st != http.StatusOK {
		t.Fatalf("expected 200 metrics, got %d", st)
	}
	if st, _ := e.do(t, "GET", "/swagger/doc.json", nil); st != http.StatusOK {
		t.Fatalf("expected 200 swagger doc, got %d", st)
	}

	// Cliente sin cookies: header X-Session-ID
	_, body := e.do(t, "POST", "/auth/login", map[string]string{"name": "Ana", "email": "ana@example.com"})
	var login struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(body, &login); err != nil || login.SessionID == "" {
		t.Fatalf("missing session id: %s", string(body))
	}
	t.Cleanup(func() { e.sessions.Delete(login.SessionID) })

	req, _ := http.NewRequest("GET", e.ts.URL+"/favorites", nil)
	req.Header.Set("X-Session-ID", login.SessionID)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with session header, got %d", resp.StatusCode)
	}
}
