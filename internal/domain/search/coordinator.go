package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/platform/debounce"
	"dog-adoption-search/internal/platform/logger"
	"dog-adoption-search/internal/platform/metrics"
	"dog-adoption-search/internal/ports/dogsapi"
	"dog-adoption-search/internal/ports/localstore"
)

// Mensajes que ve el usuario; cualquier falla upstream se reduce a uno de estos.
const (
	MsgSearchFailed  = "Failed to search dogs"
	MsgDetailsFailed = "Failed to fetch dog details"
)

var (
	ErrSearchFailed  = errors.New(MsgSearchFailed)
	ErrDetailsFailed = errors.New(MsgDetailsFailed)
	ErrClosed        = errors.New("search coordinator closed")
)

const (
	DefaultDebounce       = 500 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
	persistTimeout        = 3 * time.Second
)

type Options struct {
	// Namespace agrupa lo persistido (el email normalizado del usuario).
	Namespace string
	Store     localstore.Store // nil => no persiste
	Debounce  time.Duration
	// RequestTimeout acota los refresh disparados por debounce (sin request HTTP detrás).
	RequestTimeout time.Duration
	Log            logger.Logger
}

// Update agrupa cambios de filtros. nil = no tocar.
type Update struct {
	Breeds  *[]string
	Sort    *SortOrder
	Age     *AgeRange
	ZipText *string
}

// Immediate indica si el update dispara búsqueda inmediata (breeds/sort).
func (u Update) Immediate() bool {
	return u.Breeds != nil || u.Sort != nil
}

func (u Update) Empty() bool {
	return u.Breeds == nil && u.Sort == nil && u.Age == nil && u.ZipText == nil
}

// Filters es la vista de filtros de un Snapshot.
type Filters struct {
	Breeds   []string  `json:"breeds"`
	Sort     SortOrder `json:"sort"`
	AgeRange AgeRange  `json:"age_range"` // aplicado
	AgeInput AgeRange  `json:"age_input"` // último valor recibido (puede estar en debounce)
	ZipText  string    `json:"zip_text"`  // texto crudo recibido
	ZipCodes []string  `json:"zip_codes"` // zips aplicados a la búsqueda
}

// Snapshot es el estado que la UI renderiza.
type Snapshot struct {
	Dogs       []dogs.Dog `json:"dogs"`
	Total      int        `json:"total"`
	From       int        `json:"from"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	HasNext    bool       `json:"has_next"`
	HasPrev    bool       `json:"has_prev"`
	Filters    Filters    `json:"filters"`
	Pending    bool       `json:"pending"`
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`
}

// Coordinator mantiene filtros, paginación y resultados de una sesión.
// breeds/sort buscan en el acto; edad y zip pasan por debounce ("last input wins").
// Cada refresh toma un número de secuencia y solo el último escribe resultados.
type Coordinator struct {
	api     dogsapi.Searcher
	store   localstore.Store
	ns      string
	log     logger.Logger
	timeout time.Duration

	ageDebounce *debounce.Debouncer
	zipDebounce *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	// persistMu ordena las escrituras: el último estado en memoria es el último persistido.
	persistMu sync.Mutex
	mu        sync.Mutex

	breeds   []string
	sort     SortOrder
	ageInput AgeRange
	age      AgeRange
	zipInput string
	zipUsed  string
	zipValid string
	from     int

	seq      uint64
	searched bool
	loading  bool
	closed   bool

	results []dogs.Dog
	total   int
	next    string
	prev    string
	errMsg  string
}

// NewCoordinator restaura los filtros persistidos en opts.Namespace.
// Valores persistidos inválidos se ignoran (se usan los defaults).
func NewCoordinator(ctx context.Context, api dogsapi.Searcher, opts Options) *Coordinator {
	delay := opts.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	base, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		api:         api,
		store:       opts.Store,
		ns:          opts.Namespace,
		log:         log.With(map[string]any{"component": "search", "namespace": opts.Namespace}),
		timeout:     timeout,
		ageDebounce: debounce.New(delay),
		zipDebounce: debounce.New(delay),
		ctx:         base,
		cancel:      cancel,
		breeds:      []string{},
		sort:        DefaultSort,
		ageInput:    DefaultAgeRange,
		age:         DefaultAgeRange,
		results:     []dogs.Dog{},
	}
	c.restore(ctx)
	return c
}

func (c *Coordinator) restore(ctx context.Context) {
	if c.store == nil {
		return
	}

	var breeds []string
	if ok, err := localstore.LoadJSON(ctx, c.store, c.ns, localstore.KeySelectedBreeds, &breeds); err != nil {
		c.log.Warn("restore selected breeds failed", map[string]any{"err": err})
	} else if ok {
		c.breeds = NormalizeBreeds(breeds)
	}

	var pair [2]int
	if ok, err := localstore.LoadJSON(ctx, c.store, c.ns, localstore.KeyAgeRange, &pair); err != nil {
		c.log.Warn("restore age range failed", map[string]any{"err": err})
	} else if ok {
		if a := ageFromPair(pair); a.Validate() == nil {
			c.age, c.ageInput = a, a
		}
	}

	var zip string
	if ok, err := localstore.LoadJSON(ctx, c.store, c.ns, localstore.KeyZipCodes, &zip); err != nil {
		c.log.Warn("restore zip codes failed", map[string]any{"err": err})
	} else if ok {
		c.zipInput = zip
		if HasValidZipCodes(zip) {
			c.zipUsed, c.zipValid = zip, zip
		}
	}
}

// SetBreeds reemplaza las razas seleccionadas y busca desde la primera página.
func (c *Coordinator) SetBreeds(ctx context.Context, breeds []string) error {
	return c.Update(ctx, Update{Breeds: &breeds})
}

// SetSort cambia el orden y busca desde la primera página.
func (c *Coordinator) SetSort(ctx context.Context, order SortOrder) error {
	return c.Update(ctx, Update{Sort: &order})
}

// SetAgeRange persiste en el acto y agenda la búsqueda (debounce).
func (c *Coordinator) SetAgeRange(ages AgeRange) error {
	return c.Update(context.Background(), Update{Age: &ages})
}

// SetZipCodes persiste el texto crudo y agenda la búsqueda (debounce).
func (c *Coordinator) SetZipCodes(text string) error {
	return c.Update(context.Background(), Update{ZipText: &text})
}

// Update valida todo antes de tocar el estado. Edad/zip se agendan;
// si hay breeds o sort, se busca una sola vez con todo lo inmediato.
func (c *Coordinator) Update(ctx context.Context, u Update) error {
	if u.Sort != nil && !u.Sort.Valid() {
		return ErrInvalidSort
	}
	if u.Age != nil {
		if err := u.Age.Validate(); err != nil {
			return err
		}
	}

	c.persistMu.Lock()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.persistMu.Unlock()
		return ErrClosed
	}
	if u.Breeds != nil {
		c.breeds = NormalizeBreeds(*u.Breeds)
	}
	if u.Sort != nil {
		c.sort = *u.Sort
	}
	if u.Age != nil {
		c.ageInput = *u.Age
	}
	if u.ZipText != nil {
		c.zipInput = *u.ZipText
	}
	if u.Immediate() {
		c.from = 0
	}
	breeds := append([]string{}, c.breeds...)
	c.mu.Unlock()

	if u.Breeds != nil {
		c.persist(localstore.KeySelectedBreeds, breeds)
	}
	if u.Age != nil {
		c.persist(localstore.KeyAgeRange, u.Age.pair())
	}
	if u.ZipText != nil {
		c.persist(localstore.KeyZipCodes, *u.ZipText)
	}
	c.persistMu.Unlock()

	if u.Age != nil {
		c.ageDebounce.Trigger(func() {
			if c.commitAge() {
				c.refreshInBackground()
			}
		})
	}
	if u.ZipText != nil {
		c.zipDebounce.Trigger(func() {
			if c.commitZip() {
				c.refreshInBackground()
			}
		})
	}

	if u.Immediate() {
		return c.Refresh(ctx)
	}
	return nil
}

// ApplyNow descarta los timers pendientes, aplica edad/zip tal cual y busca.
func (c *Coordinator) ApplyNow(ctx context.Context) error {
	c.ageDebounce.Cancel()
	c.zipDebounce.Cancel()
	c.commitAge()
	c.commitZip()
	return c.Refresh(ctx)
}

// commitAge aplica la edad recibida. Devuelve true si cambió el filtro.
func (c *Coordinator) commitAge() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.age == c.ageInput {
		return false
	}
	c.age = c.ageInput
	c.from = 0
	return true
}

// commitZip aplica el texto de zips:
// - todos válidos => se usa y pasa a ser el último válido
// - vacío => se limpia el filtro
// - si no => se mantiene el último válido (nunca se manda un filtro malformado)
func (c *Coordinator) commitZip() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	text := c.zipInput
	prev := c.zipUsed
	switch {
	case HasValidZipCodes(text):
		c.zipUsed, c.zipValid = text, text
	case strings.TrimSpace(text) == "":
		c.zipUsed, c.zipValid = "", ""
	default:
		c.zipUsed = c.zipValid
	}

	if slices.Equal(ParseZipCodes(prev), ParseZipCodes(c.zipUsed)) {
		return false
	}
	c.from = 0
	return true
}

func (c *Coordinator) refreshInBackground() {
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrClosed) {
		c.log.Debug("debounced refresh failed", map[string]any{"err": err})
	}
}

// Next avanza al cursor `next`. Sin cursor (o en la última página) => ErrNoPage.
func (c *Coordinator) Next(ctx context.Context) error {
	return c.page(ctx, true)
}

// Prev vuelve al cursor `prev`. Sin cursor => ErrNoPage.
func (c *Coordinator) Prev(ctx context.Context) error {
	return c.page(ctx, false)
}

func (c *Coordinator) page(ctx context.Context, forward bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	cursor := c.prev
	if forward {
		cursor = c.next
		if c.from+PageSize >= c.total {
			cursor = ""
		}
	}
	from, err := OffsetFromCursor(cursor)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.from = normalizeOffset(from, c.total)
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh busca con los filtros aplicados: ids ordenados, luego detalle por lote,
// luego reorden. Si otro refresh empezó después, este resultado se descarta.
// Si el total bajó y el offset quedó fuera de rango, se pide una vez más la última página.
func (c *Coordinator) Refresh(ctx context.Context) error {
	retry, err := c.refresh(ctx)
	if retry {
		_, err = c.refresh(ctx)
	}
	return err
}

func (c *Coordinator) refresh(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrClosed
	}
	c.seq++
	seq := c.seq
	q := c.queryLocked()
	c.loading = true
	c.searched = true
	c.mu.Unlock()

	page, err := c.api.Search(ctx, q)
	if err != nil {
		return false, c.fail(seq, "search_failed", MsgSearchFailed, fmt.Errorf("%w: %w", ErrSearchFailed, err))
	}

	records := []dogs.Dog{}
	if len(page.ResultIDs) > 0 {
		got, err := c.api.FetchDogs(ctx, page.ResultIDs)
		if err != nil {
			return false, c.fail(seq, "details_failed", MsgDetailsFailed, fmt.Errorf("%w: %w", ErrDetailsFailed, err))
		}
		records = dogs.Reorder(page.ResultIDs, got)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		metrics.Searches.WithLabelValues("stale").Inc()
		return false, nil
	}
	c.results = records
	c.total = page.Total
	c.next = page.Next
	c.prev = page.Prev
	c.errMsg = ""
	c.loading = false
	metrics.Searches.WithLabelValues("ok").Inc()

	// el offset nunca queda más allá del total
	from := normalizeOffset(c.from, c.total)
	moved := from != c.from
	c.from = from
	return moved && len(records) == 0 && c.total > 0, nil
}

// fail registra el mensaje solo si seq sigue siendo el último refresh.
// Los resultados anteriores se conservan.
func (c *Coordinator) fail(seq uint64, outcome, msg string, err error) error {
	c.mu.Lock()
	stale := seq != c.seq
	if !stale {
		c.errMsg = msg
		c.loading = false
	}
	c.mu.Unlock()

	if stale {
		metrics.Searches.WithLabelValues("stale").Inc()
		return nil
	}
	metrics.Searches.WithLabelValues(outcome).Inc()
	c.log.Warn("search refresh failed", map[string]any{"err": err, "outcome": outcome})
	return err
}

func (c *Coordinator) queryLocked() dogsapi.SearchQuery {
	minAge, maxAge := c.age.Min, c.age.Max
	return dogsapi.SearchQuery{
		Breeds:   append([]string(nil), c.breeds...),
		ZipCodes: ParseZipCodes(c.zipUsed),
		AgeMin:   &minAge,
		AgeMax:   &maxAge,
		Size:     PageSize,
		From:     c.from,
		Sort:     c.sort.Param(),
	}
}

// EnsureLoaded hace la primera búsqueda si nunca se buscó.
func (c *Coordinator) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	searched := c.searched
	c.mu.Unlock()
	if searched {
		return nil
	}
	return c.Refresh(ctx)
}

// Lookup busca un perro entre los resultados actuales.
func (c *Coordinator) Lookup(id string) (dogs.Dog, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := dogs.IndexByID(c.results, id); i >= 0 {
		return c.results[i], true
	}
	return dogs.Dog{}, false
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, pages := pageInfo(c.from, c.total)
	return Snapshot{
		Dogs:       append([]dogs.Dog{}, c.results...),
		Total:      c.total,
		From:       c.from,
		Page:       page,
		TotalPages: pages,
		HasNext:    c.next != "" && c.from+PageSize < c.total,
		HasPrev:    c.prev != "",
		Filters: Filters{
			Breeds:   append([]string{}, c.breeds...),
			Sort:     c.sort,
			AgeRange: c.age,
			AgeInput: c.ageInput,
			ZipText:  c.zipInput,
			ZipCodes: ParseZipCodes(c.zipUsed),
		},
		Pending: c.ageDebounce.Pending() || c.zipDebounce.Pending(),
		Loading: c.loading,
		Error:   c.errMsg,
	}
}

// Close detiene timers y cancela refresh en background. Idempotente.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.ageDebounce.Cancel()
	c.zipDebounce.Cancel()
	c.cancel()
}

func (c *Coordinator) persist(key string, v any) {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := localstore.SaveJSON(ctx, c.store, c.ns, key, v); err != nil {
		c.log.Warn("persist search state failed", map[string]any{"key": key, "err": err})
	}
}
