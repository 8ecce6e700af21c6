package handler

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/fhirvs"
	"github.com/gofhir/rf2/rf2io"
)

// Registered keys.
const (
	KeyRF2     = "RF2"
	KeyDefault = "DEFAULT"
	KeyFHIR    = "FHIR"
)

var (
	_ TranslationHandler = (*rf2io.TranslationCodec)(nil)
	_ RefsetHandler      = (*rf2io.RefsetCodec)(nil)
	_ RefsetHandler      = (*fhirvs.Codec)(nil)
)

// Registry maps case-insensitive keys to handlers.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]*Handler)}
}

// Default returns a registry holding the built-in handlers, all built with
// opts.
func Default(opts ...rf2.Option) *Registry {
	r := NewRegistry()

	rf2Handler := &Handler{
		Key:         KeyRF2,
		Translation: rf2io.NewTranslationCodec(opts...),
		Refset:      rf2io.NewRefsetCodec(opts...),
	}
	r.mustRegister(KeyRF2, rf2Handler)
	r.mustRegister(KeyDefault, rf2Handler)

	r.mustRegister(KeyFHIR, &Handler{
		Key:         KeyFHIR,
		Translation: Unsupported(KeyFHIR),
		Refset:      fhirvs.NewCodec(opts...),
	})
	return r
}

// Register adds h under key. Registering a key twice is an error.
func (r *Registry) Register(key string, h *Handler) error {
	if key == "" {
		return fmt.Errorf("handler key is empty")
	}
	if h == nil || (h.Translation == nil && h.Refset == nil) {
		return fmt.Errorf("handler %s has no codecs", key)
	}

	norm := strings.ToUpper(key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[norm]; exists {
		return fmt.Errorf("handler %s already registered", key)
	}
	r.handlers[norm] = h
	return nil
}

func (r *Registry) mustRegister(key string, h *Handler) {
	if err := r.Register(key, h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler registered under key.
func (r *Registry) Lookup(key string) (*Handler, error) {
	r.mu.RLock()
	h, ok := r.handlers[strings.ToUpper(key)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", rf2.ErrUnknownHandler, key, strings.Join(r.Keys(), ", "))
	}
	return h, nil
}

// Translation returns the translation codec registered under key.
func (r *Registry) Translation(key string) (TranslationHandler, error) {
	h, err := r.Lookup(key)
	if err != nil {
		return nil, err
	}
	if h.Translation == nil {
		return Unsupported(key), nil
	}
	return h.Translation, nil
}

// Refset returns the refset codec registered under key.
func (r *Registry) Refset(key string) (RefsetHandler, error) {
	h, err := r.Lookup(key)
	if err != nil {
		return nil, err
	}
	if h.Refset == nil {
		return nil, fmt.Errorf("refset operations with handler %s: %w", key, rf2.ErrUnsupported)
	}
	return h.Refset, nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
