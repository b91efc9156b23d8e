package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/domain/favorites"
	"dog-adoption-search/internal/domain/search"
	"dog-adoption-search/internal/platform/logger"
	"dog-adoption-search/internal/ports/dogsapi"
	"dog-adoption-search/internal/ports/localstore"
	"dog-adoption-search/internal/session"

	"github.com/google/uuid"
)

const (
	MsgLoginFailed  = "Login failed"
	MsgLogoutFailed = "Logout failed"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrLoginFailed  = errors.New(MsgLoginFailed)
	ErrLogoutFailed = errors.New(MsgLogoutFailed)
)

type Options struct {
	Store          localstore.Store // nil => estado solo en memoria
	Debounce       time.Duration
	RequestTimeout time.Duration
	Log            logger.Logger
}

// Service abre y cierra sesiones: login upstream con un cliente (cookie jar) nuevo
// y armado del estado de búsqueda/favoritos restaurado del namespace del usuario.
type Service struct {
	newClient dogsapi.Factory
	sessions  *session.Manager
	store     localstore.Store
	debounce  time.Duration
	timeout   time.Duration
	log       logger.Logger
	now       func() time.Time
}

func NewService(newClient dogsapi.Factory, sessions *session.Manager, opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		newClient: newClient,
		sessions:  sessions,
		store:     opts.Store,
		debounce:  opts.Debounce,
		timeout:   opts.RequestTimeout,
		log:       log.With(map[string]any{"component": "auth"}),
		now:       time.Now,
	}
}

func (s *Service) Login(ctx context.Context, name, email string) (*session.Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidInput
	}

	api, err := s.newClient()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if err := api.Login(ctx, name, email); err != nil {
		s.log.Warn("upstream login failed", map[string]any{"err": err})
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	// si el upstream vence la cookie, la sesión local se descarta en el primer 401
	id := uuid.NewString()
	api = s.sessions.Guard(id, api)

	ns := session.NamespaceFor(email)
	favs := favorites.NewStore(ctx, favorites.Options{Namespace: ns, Store: s.store, Log: s.log})
	sess := &session.Session{
		ID:        id,
		User:      session.User{Name: name, Email: email},
		Namespace: ns,
		API:       api,
		Search: search.NewCoordinator(ctx, api, search.Options{
			Namespace:      ns,
			Store:          s.store,
			Debounce:       s.debounce,
			RequestTimeout: s.timeout,
			Log:            s.log,
		}),
		Favorites: favs,
		Matcher:   favorites.NewMatcher(api, favs, s.log),
		CreatedAt: s.now().UTC(),
	}
	s.sessions.Add(sess)

	s.log.Info("login ok", map[string]any{"session_id": sess.ID, "namespace": ns})
	return sess, nil
}

// Logout cierra la sesión upstream. Solo si responde OK (o la cookie ya había
// vencido) se borra el estado persistido del namespace y se descarta la sesión local.
func (s *Service) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return ErrInvalidInput
	}
	if err := sess.API.Logout(ctx); err != nil && !errors.Is(err, dogs.ErrUnauthorized) {
		s.log.Warn("upstream logout failed", map[string]any{"session_id": sess.ID, "err": err})
		return fmt.Errorf("%w: %w", ErrLogoutFailed, err)
	}

	if s.store != nil {
		if err := s.store.Clear(context.WithoutCancel(ctx), sess.Namespace); err != nil {
			s.log.Warn("clear local state failed", map[string]any{"namespace": sess.Namespace, "err": err})
		}
	}
	s.sessions.Delete(sess.ID)

	s.log.Info("logout ok", map[string]any{"session_id": sess.ID})
	return nil
}
