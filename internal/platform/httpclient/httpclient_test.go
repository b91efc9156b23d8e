package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoJSON_RelativePathAndDecode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dogs" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing content type")
		}
		var ids []string
		_ = json.NewDecoder(r.Body).Decode(&ids)
		_ = json.NewEncoder(w).Encode(map[string]int{"n": len(ids)})
	}))
	defer ts.Close()

	c, err := New(ts.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out struct {
		N int `json:"n"`
	}
	if err := c.DoJSON(context.Background(), http.MethodPost, "dogs", nil, []string{"a", "b"}, &out); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.N != 2 {
		t.Fatalf("expected 2, got %d", out.N)
	}
}

func TestDoJSON_Non2xxReturnsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer ts.Close()

	c, _ := New(ts.URL, time.Second)
	err := c.DoJSON(context.Background(), http.MethodGet, "/dogs/breeds", nil, nil, nil)

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if he.StatusCode != http.StatusUnauthorized || he.Body != "Unauthorized" {
		t.Fatalf("unexpected error %+v", he)
	}
	if got := StatusCode(fmt.Errorf("wrapped: %w", err)); got != http.StatusUnauthorized {
		t.Fatalf("StatusCode through wrap = %d", got)
	}
}

func TestDoJSON_RelativeWithoutBaseURL(t *testing.T) {
	c, err := New("", time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil); err == nil {
		t.Fatalf("expected error for relative path without BaseURL")
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	if _, err := New("::not a url", time.Second); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}

func TestWithJar_KeepsCookiesPerClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "fetch-access-token", Value: "tok", Path: "/"})
			_, _ = w.Write([]byte("OK"))
		case "/dogs/breeds":
			if _, err := r.Cookie("fetch-access-token"); err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode([]string{"Akita"})
		}
	}))
	defer ts.Close()

	base, _ := New(ts.URL, time.Second)
	jarA, _ := cookiejar.New(nil)
	jarB, _ := cookiejar.New(nil)
	a, b := base.WithJar(jarA), base.WithJar(jarB)

	ctx := context.Background()
	if err := a.DoJSON(ctx, http.MethodPost, "/auth/login", nil, map[string]string{"name": "n"}, nil); err != nil {
		t.Fatalf("login: %v", err)
	}

	var breeds []string
	if err := a.DoJSON(ctx, http.MethodGet, "/dogs/breeds", nil, nil, &breeds); err != nil {
		t.Fatalf("client with cookie should be authorized: %v", err)
	}
	if err := b.DoJSON(ctx, http.MethodGet, "/dogs/breeds", nil, nil, &breeds); StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("client with another jar must not share cookies, got %v", err)
	}
}
