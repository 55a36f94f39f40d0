package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/cellundo/internal/event"
	"github.com/dshills/cellundo/internal/history"
	"github.com/dshills/cellundo/internal/store"
)

// Host owns a Lua state, a store and the store's history manager.
//
// gopher-lua states are not goroutine-safe. Host serializes every call
// with a mutex, so a Host may be shared but scripts never run in parallel.
type Host struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool

	store   *store.Store
	mgr     *history.Manager
	histOpt []history.Option

	logger *zap.Logger
	out    io.Writer
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger. The store and manager inherit it.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithOutput redirects Lua print. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		if w != nil {
			h.out = w
		}
	}
}

// WithHistoryOptions configures the manager created on first mutation.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(h *Host) {
		h.histOpt = append(h.histOpt, opts...)
	}
}

// NewHost creates a host with an empty store.
func NewHost(opts ...Option) *Host {
	h := &Host{
		logger: zap.NewNop(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(h)
	}

	bus := event.NewBus(event.WithLogger(h.logger))
	h.store = store.New(store.WithBus(bus), store.WithLogger(h.logger))

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	h.installPrint()
	newCellsModule(h).register(h.L)
	newHistoryModule(h).register(h.L)
	return h
}

// DoString runs a chunk of Lua. ctx cancellation aborts the script.
func (h *Host) DoString(ctx context.Context, code string) error {
	return h.run(ctx, func() error { return h.L.DoString(code) })
}

// DoFile runs a Lua file.
func (h *Host) DoFile(ctx context.Context, path string) error {
	if err := h.run(ctx, func() error { return h.L.DoFile(path) }); err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}
	return nil
}

func (h *Host) run(ctx context.Context, fn func() error) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}

	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Store returns the host's store.
func (h *Host) Store() *store.Store {
	return h.store
}

// Manager returns the history manager, creating it if no script has
// mutated the store yet.
func (h *Host) Manager() *history.Manager {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.manager()
}

// manager must be called with h.mu held; Lua callbacks run under it.
func (h *Host) manager() *history.Manager {
	if h.mgr == nil {
		opts := append([]history.Option{history.WithLogger(h.logger)}, h.histOpt...)
		h.mgr = history.New(h.store, opts...)
		h.logger.Debug("history attached", zap.Strings("cells", cellNames(h.store.Cells())))
	}
	return h.mgr
}

func (h *Host) sealed() bool {
	return h.mgr != nil
}

// Close releases the Lua state and detaches the manager.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	if h.mgr != nil {
		h.mgr.Close()
	}
	h.L.Close()
	return nil
}

func cellNames(ids []store.CellID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}
