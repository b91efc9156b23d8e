package fetchapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/platform/httpclient"
	"dog-adoption-search/internal/ports/dogsapi"
)

var (
	ErrUnauthorized = dogs.ErrUnauthorized
	ErrUpstream     = errors.New("fetch api upstream error")
	ErrTooManyIDs   = fmt.Errorf("at most %d ids per request", dogsapi.MaxBatch)
)

const (
	pathLogin  = "/auth/login"
	pathLogout = "/auth/logout"
	pathBreeds = "/dogs/breeds"
	pathSearch = "/dogs/search"
	pathDogs   = "/dogs"
	pathMatch  = "/dogs/match"
)

// Client habla con la API de perros para UNA sesión: la auth es la cookie
// HttpOnly que deja /auth/login en el jar del http.Client.
type Client struct {
	hc *httpclient.Client
}

var _ dogsapi.Client = (*Client)(nil)

func NewClient(hc *httpclient.Client) *Client {
	return &Client{hc: hc}
}

// NewFactory devuelve un dogsapi.Factory: cada llamada crea un Client con jar propio
// sobre el mismo transport (pool de conexiones compartido).
func NewFactory(base *httpclient.Client) dogsapi.Factory {
	return func() (dogsapi.Client, error) {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		return NewClient(base.WithJar(jar)), nil
	}
}

func (c *Client) Login(ctx context.Context, name, email string) error {
	body := map[string]string{
		"name":  strings.TrimSpace(name),
		"email": strings.TrimSpace(email),
	}
	// responde "OK" en texto plano; no se decodifica
	return normalize(c.hc.DoJSON(ctx, http.MethodPost, pathLogin, nil, body, nil))
}

func (c *Client) Logout(ctx context.Context) error {
	return normalize(c.hc.DoJSON(ctx, http.MethodPost, pathLogout, nil, nil, nil))
}

func (c *Client) Breeds(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.hc.DoJSON(ctx, http.MethodGet, pathBreeds, nil, nil, &out); err != nil {
		return nil, normalize(err)
	}
	return out, nil
}

func (c *Client) Search(ctx context.Context, q dogsapi.SearchQuery) (dogsapi.SearchPage, error) {
	var out dogsapi.SearchPage
	path := pathSearch
	if qs := EncodeQuery(q); qs != "" {
		path += "?" + qs
	}
	if err := c.hc.DoJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return dogsapi.SearchPage{}, normalize(err)
	}
	if out.ResultIDs == nil {
		out.ResultIDs = []string{}
	}
	return out, nil
}

func (c *Client) FetchDogs(ctx context.Context, ids []string) ([]dogs.Dog, error) {
	if len(ids) == 0 {
		return []dogs.Dog{}, nil
	}
	if len(ids) > dogsapi.MaxBatch {
		return nil, ErrTooManyIDs
	}

	var out []dogs.Dog
	if err := c.hc.DoJSON(ctx, http.MethodPost, pathDogs, nil, ids, &out); err != nil {
		return nil, normalize(err)
	}
	return out, nil
}

func (c *Client) Match(ctx context.Context, ids []string) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: no ids to match", ErrUpstream)
	}
	if len(ids) > dogsapi.MaxBatch {
		return "", ErrTooManyIDs
	}

	var out struct {
		Match string `json:"match"`
	}
	if err := c.hc.DoJSON(ctx, http.MethodPost, pathMatch, nil, ids, &out); err != nil {
		return "", normalize(err)
	}

	out.Match = strings.TrimSpace(out.Match)
	if out.Match == "" {
		return "", fmt.Errorf("%w: response missing match", ErrUpstream)
	}
	return out.Match, nil
}

// EncodeQuery arma el query string de /dogs/search.
// breeds y zipCodes van repetidos; vacíos/nil no se envían.
func EncodeQuery(q dogsapi.SearchQuery) string {
	v := url.Values{}
	for _, b := range q.Breeds {
		v.Add("breeds", b)
	}
	for _, z := range q.ZipCodes {
		v.Add("zipCodes", z)
	}
	if q.AgeMin != nil {
		v.Set("ageMin", strconv.Itoa(*q.AgeMin))
	}
	if q.AgeMax != nil {
		v.Set("ageMax", strconv.Itoa(*q.AgeMax))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.From > 0 {
		v.Set("from", strconv.Itoa(q.From))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v.Encode()
}

// normalize clasifica el error sin perder el HTTPError original.
func normalize(err error) error {
	if err == nil {
		return nil
	}
	switch httpclient.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}
