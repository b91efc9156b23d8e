package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newSearchRouter(t *testing.T, c *Coordinator) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, func(context.Context) (*Coordinator, bool) { return c, c != nil })
	return r
}

func doReq(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeSnapshot(t *testing.T, rr *httptest.ResponseRecorder) Snapshot {
	t.Helper()
	var s Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode snapshot: %v body=%s", err, rr.Body.String())
	}
	return s
}

func TestSearchHandlers_Unauthorized(t *testing.T) {
	h := newSearchRouter(t, nil)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/search"},
		{http.MethodPatch, "/search/filters"},
		{http.MethodPost, "/search/apply"},
		{http.MethodPost, "/search/next"},
		{http.MethodPost, "/search/prev"},
	} {
		if rr := doReq(t, h, tc.method, tc.path, nil); rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, rr.Code)
		}
	}
}

func TestGetSearch_LoadsOnFirstCall(t *testing.T) {
	api := newFakeAPI(30)
	c := newTestCoordinator(t, api, nil)
	h := newSearchRouter(t, c)

	rr := doReq(t, h, http.MethodGet, "/search", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	s := decodeSnapshot(t, rr)
	if len(s.Dogs) != 25 || s.Filters.Sort != DefaultSort {
		t.Fatalf("unexpected snapshot %+v", s)
	}

	_ = doReq(t, h, http.MethodGet, "/search", nil)
	if api.searchCount() != 1 {
		t.Fatalf("second GET must not search again, got %d searches", api.searchCount())
	}
}

func TestGetSearch_FailureStillReturnsState(t *testing.T) {
	api := newFakeAPI(3)
	api.searchErr = errors.New("down")
	h := newSearchRouter(t, newTestCoordinator(t, api, nil))

	rr := doReq(t, h, http.MethodGet, "/search", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if s := decodeSnapshot(t, rr); s.Error != MsgSearchFailed {
		t.Fatalf("expected %q in snapshot, got %q", MsgSearchFailed, s.Error)
	}
}

func TestUpdateFilters(t *testing.T) {
	api := newFakeAPI(30)
	c := newTestCoordinator(t, api, nil)
	h := newSearchRouter(t, c)

	// inmediato
	rr := doReq(t, h, http.MethodPatch, "/search/filters", map[string]any{
		"breeds": []string{"Beagle"},
		"sort":   "nameDesc",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	s := decodeSnapshot(t, rr)
	if len(s.Filters.Breeds) != 1 || s.Filters.Sort != SortNameDesc {
		t.Fatalf("filters not applied: %+v", s.Filters)
	}
	if api.lastQuery().Sort != "name:desc" {
		t.Fatalf("unexpected sort param %q", api.lastQuery().Sort)
	}

	// debounce: solo age_max, age_min sale del valor actual
	rr = doReq(t, h, http.MethodPatch, "/search/filters", map[string]any{"age_max": 4})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}
	s = decodeSnapshot(t, rr)
	if !s.Pending || s.Filters.AgeInput != (AgeRange{Min: 0, Max: 4}) {
		t.Fatalf("expected pending age input 0..4, got %+v pending=%v", s.Filters.AgeInput, s.Pending)
	}

	rr = doReq(t, h, http.MethodPost, "/search/apply", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("apply: expected 200, got %d", rr.Code)
	}
	if s = decodeSnapshot(t, rr); s.Pending || s.Filters.AgeRange.Max != 4 {
		t.Fatalf("apply should flush pending age, got %+v", s)
	}
}

func TestUpdateFilters_BadRequests(t *testing.T) {
	c := newTestCoordinator(t, newFakeAPI(3), nil)
	h := newSearchRouter(t, c)

	cases := []struct {
		name string
		body any
	}{
		{"invalid json", "{"},
		{"unknown field", `{"color":"brown"}`},
		{"empty", `{}`},
		{"bad sort", map[string]any{"sort": "breed:asc"}},
		{"min over max", map[string]any{"age_min": 12}},
		{"negative", map[string]any{"age_min": -1, "age_max": 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rr := doReq(t, h, http.MethodPatch, "/search/filters", tc.body); rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestPaging_ConflictAndBadGateway(t *testing.T) {
	api := newFakeAPI(60)
	c := newTestCoordinator(t, api, nil)
	h := newSearchRouter(t, c)

	if rr := doReq(t, h, http.MethodPost, "/search/prev", nil); rr.Code != http.StatusConflict {
		t.Fatalf("prev without cursor: expected 409, got %d", rr.Code)
	}

	_ = doReq(t, h, http.MethodGet, "/search", nil)
	rr := doReq(t, h, http.MethodPost, "/search/next", nil)
	if rr.Code != http.StatusOK || decodeSnapshot(t, rr).From != 25 {
		t.Fatalf("next: expected from=25, got %d %s", rr.Code, rr.Body.String())
	}

	api.set(func(f *fakeAPI) { f.fetchErr = errors.New("500") })
	rr = doReq(t, h, http.MethodPost, "/search/prev", nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	var er errorResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &er)
	if er.Error != MsgDetailsFailed {
		t.Fatalf("expected %q, got %q", MsgDetailsFailed, er.Error)
	}
}

func TestUpdateFilters_DebouncedSearchRunsLater(t *testing.T) {
	api := newFakeAPI(30)
	c := newTestCoordinator(t, api, nil)
	h := newSearchRouter(t, c)

	rr := doReq(t, h, http.MethodPatch, "/search/filters", map[string]any{"zip_codes": "10001"})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}

	deadline := time.Now().Add(time.Second)
	for api.searchCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if api.searchCount() != 1 {
		t.Fatalf("expected debounced search, got %d", api.searchCount())
	}
	if z := api.lastQuery().ZipCodes; len(z) != 1 || z[0] != "10001" {
		t.Fatalf("unexpected zip codes %v", z)
	}
}
