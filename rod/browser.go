package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages served by one Chrome process
// before it is replaced. Chrome's memory baseline grows with every page
// and never returns to its initial level.
const DefaultMaxPages = 75

// instance is one Chrome process and the pages currently open in it.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	served   int
	inflight int
}

func (i *instance) shutdown() error {
	err := i.browser.Close()
	i.launcher.Kill()
	return err
}

// browser owns a headless Chrome process and recycles it every maxPages
// pages. A replaced process is shut down once its last open page is
// released. It is safe for concurrent use.
type browser struct {
	mu       sync.Mutex
	current  *instance
	retired  map[*instance]struct{}
	maxPages int
	closed   bool
}

func newBrowser(maxPages int) (*browser, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	b := &browser{maxPages: maxPages, retired: make(map[*instance]struct{})}
	inst, err := launch()
	if err != nil {
		return nil, err
	}
	b.current = inst
	return b, nil
}

// acquire returns the browser to open the next page in, counting the page
// toward the recycling threshold. The returned release func must be called
// once the page is closed. It fails once the browser is closed.
func (b *browser) acquire() (*rod.Browser, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, errClosed
	}
	if b.current.served >= b.maxPages {
		b.recycle()
	}

	inst := b.current
	inst.served++
	inst.inflight++

	var once sync.Once
	release := func() {
		once.Do(func() { b.release(inst) })
	}
	return inst.browser, release, nil
}

func (b *browser) release(inst *instance) {
	b.mu.Lock()
	defer b.mu.Unlock()

	inst.inflight--
	if _, ok := b.retired[inst]; ok && inst.inflight == 0 {
		delete(b.retired, inst)
		_ = inst.shutdown()
	}
}

// close shuts down every Chrome process, including retired ones that still
// have pages open.
func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	err := b.current.shutdown()
	for inst := range b.retired {
		_ = inst.shutdown()
		delete(b.retired, inst)
	}
	return err
}

func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}
	return b.current.launcher.PID()
}

// launch starts and connects to a Chrome process.
func launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	current := rod.New().ControlURL(u)
	if err := current.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &instance{browser: current, launcher: l}, nil
}

// recycle swaps in a fresh Chrome process. If the new one fails to start
// the old one keeps serving. The old process is shut down now if it is
// idle, otherwise by the release of its last page. Must be called with mu
// held.
func (b *browser) recycle() {
	next, err := launch()
	if err != nil {
		return
	}
	old := b.current
	b.current = next
	if old.inflight == 0 {
		_ = old.shutdown()
		return
	}
	b.retired[old] = struct{}{}
}
