// Package session guarda en memoria las sesiones activas: quién es el usuario,
// su cliente upstream (cookie jar propio) y su estado de búsqueda/favoritos.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"dog-adoption-search/internal/domain/favorites"
	"dog-adoption-search/internal/domain/search"
	"dog-adoption-search/internal/platform/logger"
	"dog-adoption-search/internal/platform/metrics"
	"dog-adoption-search/internal/ports/dogsapi"
)

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Session struct {
	ID        string
	User      User
	Namespace string // clave de persistencia (email normalizado)

	API       dogsapi.Client
	Search    *search.Coordinator
	Favorites *favorites.Store
	Matcher   *favorites.Matcher

	CreatedAt time.Time
}

// Close libera timers del coordinador. Idempotente.
func (s *Session) Close() {
	if s != nil && s.Search != nil {
		s.Search.Close()
	}
}

// NamespaceFor normaliza el email para usarlo como namespace de persistencia.
func NamespaceFor(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// Manager expira sesiones sin uso por más de ttl. Si antes vence la cookie
// upstream, Guard descarta la sesión en el primer 401.
type Manager struct {
	ttl time.Duration
	now func() time.Time
	log logger.Logger

	mu   sync.RWMutex
	byID map[string]*entry
}

func NewManager(ttl time.Duration, log logger.Logger) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		ttl:  ttl,
		now:  time.Now,
		log:  log.With(map[string]any{"component": "sessions"}),
		byID: make(map[string]*entry),
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byID[s.ID]; ok && old.sess != s {
		old.sess.Close()
	}
	m.byID[s.ID] = &entry{sess: s, lastSeen: m.now()}
	metrics.ActiveSessions.Set(float64(len(m.byID)))
}

// Get devuelve la sesión y renueva su lastSeen. Expiradas no se devuelven.
func (m *Manager) Get(id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	now := m.now()
	if now.Sub(e.lastSeen) > m.ttl {
		return nil, false
	}
	e.lastSeen = now
	return e.sess, true
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	e, ok := m.byID[id]
	delete(m.byID, id)
	metrics.ActiveSessions.Set(float64(len(m.byID)))
	m.mu.Unlock()

	if ok {
		e.sess.Close()
	}
}

// Sweep elimina las sesiones expiradas. Devuelve cuántas quitó.
func (m *Manager) Sweep() int {
	now := m.now()
	expired := make([]*Session, 0)

	m.mu.Lock()
	for id, e := range m.byID {
		if now.Sub(e.lastSeen) > m.ttl {
			expired = append(expired, e.sess)
			delete(m.byID, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.byID)))
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		m.log.Info("expired sessions removed", map[string]any{"count": len(expired)})
	}
	return len(expired)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// Run barre cada interval hasta que ctx termine; al salir cierra todo.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-t.C:
			m.Sweep()
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.byID))
	for id, e := range m.byID {
		all = append(all, e.sess)
		delete(m.byID, id)
	}
	metrics.ActiveSessions.Set(0)
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
