// Package debounce colapsa ráfagas de llamadas en una sola ejecución diferida.
package debounce

import (
	"sync"
	"time"
)

// Debouncer ejecuta la última fn recibida cuando pasa delay sin nuevas llamadas.
// Un timer reemplazado nunca ejecuta: aunque ya haya disparado, el chequeo de
// generación lo descarta ("last input wins").
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger agenda fn, cancelando cualquier fn pendiente.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Cancel descarta la fn pendiente. Devuelve true si había una.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending indica si hay una fn agendada que aún no corrió.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
