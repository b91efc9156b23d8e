// Package fetchapitest levanta una API de perros en memoria para tests.
package fetchapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"dog-adoption-search/internal/domain/dogs"
)

const CookieName = "fetch-access-token"

// Server imita el contrato de la API: cookie de sesión, search paginado con
// cursores, POST /dogs en orden invertido y match determinístico.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	dogs     []dogs.Dog
	fail     map[string]int
	calls    map[string]int
	lastQS   map[string]string
	matchIdx int
	block    map[string]chan struct{}
}

func NewServer(catalog []dogs.Dog) *Server {
	s := &Server{
		dogs:   append([]dogs.Dog(nil), catalog...),
		fail:   map[string]int{},
		calls:  map[string]int{},
		lastQS: map[string]string{},
		block:  map[string]chan struct{}{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", s.login)
	mux.HandleFunc("/auth/logout", s.authed(s.logout))
	mux.HandleFunc("/dogs/breeds", s.authed(s.breeds))
	mux.HandleFunc("/dogs/search", s.authed(s.search))
	mux.HandleFunc("/dogs/match", s.authed(s.match))
	mux.HandleFunc("/dogs", s.authed(s.details))

	s.Server = httptest.NewServer(mux)
	return s
}

// Fail hace que path responda status hasta que se llame Fail(path, 0).
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, path)
		return
	}
	s.fail[path] = status
}

// Block retiene las respuestas de path hasta que se cierre el canal devuelto.
func (s *Server) Block(path string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.block[path] = ch
	return ch
}

// Unblock deja de retener path (los requests ya retenidos siguen esperando su canal).
func (s *Server) Unblock(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.block, path)
}

// MatchIndex elige qué posición de los ids recibidos devuelve /dogs/match.
func (s *Server) MatchIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchIdx = i
}

func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// LastQuery devuelve el último query string recibido en path.
func (s *Server) LastQuery(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQS[path]
}

func (s *Server) track(r *http.Request) (int, chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[r.URL.Path]++
	s.lastQS[r.URL.Path] = r.URL.RawQuery
	return s.fail[r.URL.Path], s.block[r.URL.Path]
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, wait := s.track(r)
		if wait != nil {
			select {
			case <-wait:
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		if c, err := r.Cookie(CookieName); err != nil || c.Value == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	status, _ := s.track(r)
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.Email == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "tok-" + body.Email, Path: "/", HttpOnly: true})
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) breeds(w http.ResponseWriter, r *http.Request) {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, d := range s.catalog() {
		if _, ok := seen[d.Breed]; ok {
			continue
		}
		seen[d.Breed] = struct{}{}
		out = append(out, d.Breed)
	}
	sort.Strings(out)
	writeJSON(w, out)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	breeds := toSet(q["breeds"])
	zips := toSet(q["zipCodes"])
	ageMin, hasMin := atoi(q.Get("ageMin"))
	ageMax, hasMax := atoi(q.Get("ageMax"))

	matched := make([]dogs.Dog, 0)
	for _, d := range s.catalog() {
		if len(breeds) > 0 && !breeds[d.Breed] {
			continue
		}
		if len(zips) > 0 && !zips[d.ZipCode] {
			continue
		}
		if hasMin && d.Age < ageMin {
			continue
		}
		if hasMax && d.Age > ageMax {
			continue
		}
		matched = append(matched, d)
	}

	sortDogs(matched, q.Get("sort"))

	size, ok := atoi(q.Get("size"))
	if !ok || size <= 0 {
		size = 25
	}
	from, _ := atoi(q.Get("from"))
	if from < 0 {
		from = 0
	}

	ids := make([]string, 0, size)
	for i := from; i < len(matched) && i < from+size; i++ {
		ids = append(ids, matched[i].ID)
	}

	resp := map[string]any{
		"resultIds": ids,
		"total":     len(matched),
	}
	if from+size < len(matched) {
		resp["next"] = cursor(q, from+size)
	}
	if from > 0 {
		prev := from - size
		if prev < 0 {
			prev = 0
		}
		resp["prev"] = cursor(q, prev)
	}
	writeJSON(w, resp)
}

func (s *Server) details(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil || len(ids) > 100 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	byID := map[string]dogs.Dog{}
	for _, d := range s.catalog() {
		byID[d.ID] = d
	}
	// orden invertido a propósito: la API no garantiza orden
	out := make([]dogs.Dog, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if d, ok := byID[ids[i]]; ok {
			out = append(out, d)
		}
	}
	writeJSON(w, out)
}

func (s *Server) match(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil || len(ids) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	idx := s.matchIdx
	s.mu.Unlock()
	if idx < 0 || idx >= len(ids) {
		idx = 0
	}
	writeJSON(w, map[string]string{"match": ids[idx]})
}

func (s *Server) catalog() []dogs.Dog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dogs.Dog(nil), s.dogs...)
}

func cursor(q map[string][]string, from int) string {
	parts := make([]string, 0)
	for _, k := range []string{"breeds", "zipCodes", "ageMin", "ageMax", "size", "sort"} {
		for _, v := range q[k] {
			parts = append(parts, k+"="+v)
		}
	}
	parts = append(parts, fmt.Sprintf("from=%d", from))
	return "/dogs/search?" + strings.Join(parts, "&")
}

func sortDogs(list []dogs.Dog, param string) {
	field, dir, _ := strings.Cut(param, ":")
	if field == "" {
		field = "breed"
	}
	less := func(a, b dogs.Dog) bool {
		switch field {
		case "name":
			return a.Name < b.Name
		case "age":
			return a.Age < b.Age
		default:
			return a.Breed < b.Breed
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if dir == "desc" {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

func toSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, v := range in {
		out[v] = true
	}
	return out
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Catalog genera n perros con breeds/edades/zips rotando, útil para paginar.
func Catalog(n int) []dogs.Dog {
	breeds := []string{"Akita", "Beagle", "Corgi"}
	out := make([]dogs.Dog, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, dogs.Dog{
			ID:      fmt.Sprintf("dog-%03d", i),
			Img:     fmt.Sprintf("https://img.example/%03d.jpg", i),
			Name:    fmt.Sprintf("Dog %03d", i),
			Age:     i % 15,
			ZipCode: fmt.Sprintf("%05d", 10000+i%4),
			Breed:   breeds[i%len(breeds)],
		})
	}
	return out
}
