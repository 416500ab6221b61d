// Package glproc is the native lookup runtime called by generated bindings.
//
// Every command binding owns a Proc that resolves its entry point on first use
// and caches the typed function. Extension checks query the context's extension
// list once and cache the answer. Reset drops both caches, e.g. after making a
// different context current on a platform with per-context entry points.
package glproc

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/purego"
)

var (
	// ErrUnavailable reports an entry point the resolver does not know.
	ErrUnavailable = errors.New("entry point unavailable")
	// ErrNoLibrary reports that no OpenGL library could be opened.
	ErrNoLibrary = errors.New("no OpenGL library")
)

// Resolver returns the address of a native entry point. A zero address means
// the entry point is unavailable.
type Resolver func(name string) (uintptr, error)

// ExtensionLister returns the extension names advertised by the current context.
type ExtensionLister func() ([]string, error)

var (
	mu       sync.RWMutex
	resolver Resolver
	lister   ExtensionLister

	generation atomic.Uint64
)

// SetResolver replaces the entry point resolver. Nil restores the platform
// default. Cached addresses are dropped.
func SetResolver(r Resolver) {
	mu.Lock()
	resolver = r
	mu.Unlock()
	Reset()
}

// SetExtensionLister replaces the extension list source. Nil restores the
// default, which asks the context through glGetStringi or glGetString.
func SetExtensionLister(l ExtensionLister) {
	mu.Lock()
	lister = l
	mu.Unlock()
	Reset()
}

// Reset drops every cached entry point and extension answer.
func Reset() {
	generation.Add(1)
}

// LoadError is raised when a binding is called whose entry point cannot be
// resolved.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string { return "glproc: load " + e.Name + ": " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

func resolve(name string) (uintptr, error) {
	mu.RLock()
	r := resolver
	mu.RUnlock()
	if r == nil {
		r = defaultResolver
	}

	addr, err := r(name)
	if err != nil {
		return 0, &LoadError{Name: name, Err: err}
	}
	if addr == 0 {
		return 0, &LoadError{Name: name, Err: ErrUnavailable}
	}
	return addr, nil
}

// Proc is the lazily resolved entry point of one command.
type Proc struct {
	name  string
	mu    sync.Mutex
	state atomic.Pointer[procState]
}

type procState struct {
	gen  uint64
	addr uintptr
	err  error
	fn   any
}

// New returns the entry point of the named command. Nothing is resolved until
// the first call.
func New(name string) *Proc {
	return &Proc{name: name}
}

// Name returns the native command name.
func (p *Proc) Name() string { return p.name }

func (p *Proc) load() *procState {
	gen := generation.Load()
	if st := p.state.Load(); st != nil && st.gen == gen {
		return st
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if st := p.state.Load(); st != nil && st.gen == gen {
		return st
	}
	st := &procState{gen: gen}
	st.addr, st.err = resolve(p.name)
	p.state.Store(st)
	return st
}

// Addr resolves the entry point.
func (p *Proc) Addr() (uintptr, error) {
	st := p.load()
	return st.addr, st.err
}

// Available reports whether the entry point resolves.
func (p *Proc) Available() bool {
	return p.load().err == nil
}

// Load returns the entry point of p as a callable F, which must be a func type
// matching the native signature. Calling a binding whose entry point is
// unavailable panics with a *LoadError.
func Load[F any](p *Proc) F {
	st := p.load()
	if st.err != nil {
		panic(st.err)
	}
	if fn, ok := st.fn.(F); ok {
		return fn
	}

	var fn F
	purego.RegisterFunc(&fn, st.addr)

	p.mu.Lock()
	if p.state.Load() == st {
		p.state.Store(&procState{gen: st.gen, addr: st.addr, fn: fn})
	}
	p.mu.Unlock()
	return fn
}

// Check is the cached availability query of one extension.
type Check struct {
	name  string
	mu    sync.Mutex
	known bool
	gen   uint64
	ok    bool
}

// Extension returns the availability query of the named extension.
func Extension(name string) *Check {
	return &Check{name: name}
}

// Name returns the extension name.
func (c *Check) Name() string { return c.name }

// Supported reports whether the current context advertises the extension. A
// context whose extension list cannot be read supports nothing.
func (c *Check) Supported() bool {
	gen := generation.Load()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.known && c.gen == gen {
		return c.ok
	}
	set, err := extensionSet(gen)
	c.ok = err == nil && set[c.name]
	c.known, c.gen = true, gen
	return c.ok
}

var (
	extMu  sync.Mutex
	extGen uint64
	extSet map[string]bool
	extErr error
)

func extensionSet(gen uint64) (map[string]bool, error) {
	extMu.Lock()
	defer extMu.Unlock()
	if extSet != nil && extGen == gen {
		return extSet, extErr
	}

	mu.RLock()
	l := lister
	mu.RUnlock()
	if l == nil {
		l = contextExtensions
	}

	names, err := l()
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	extGen, extSet, extErr = gen, set, err
	return set, err
}

// Extensions returns the sorted extension names of the current context.
func Extensions() ([]string, error) {
	set, err := extensionSet(generation.Load())
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}
