package stdlayout

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
)

type registryKey struct {
	t       reflect.Type
	variant string
}

// Registry memoizes computed layouts per (Go type, variant) and holds
// custom codec registrations. A layout is computed at most once; the
// returned *StructLayout is immutable and shared by every later caller.
type Registry struct {
	mu      sync.Mutex
	layouts map[registryKey]*StructLayout
	codecs  map[registryKey]Codec
	logger  Logger
}

func NewRegistry() *Registry {
	return &Registry{
		layouts: make(map[registryKey]*StructLayout),
		codecs:  make(map[registryKey]Codec),
		logger:  NewNopLogger(),
	}
}

// SetLogger enables debug logging of layout computation. Pass nil to
// restore the silent default.
func (r *Registry) SetLogger(l Logger) {
	if l == nil {
		l = NewNopLogger()
	}
	r.mu.Lock()
	r.logger = l
	r.mu.Unlock()
}

// RegisterCodec installs a codec for a concrete leaf type under one
// variant, extending the built-in provider set. The prototype value only
// carries the type. Facts reported by the codec are trusted.
func (r *Registry) RegisterCodec(prototype any, variant Variant, c Codec) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.Lock()
	r.codecs[registryKey{t, variant.Name}] = c
	r.mu.Unlock()
}

// Layout computes (or returns the memoized) layout of v's type under the
// given variant. v may be a value or a pointer to one.
func (r *Registry) Layout(v any, variant Variant) (*StructLayout, error) {
	if v == nil {
		return nil, &UnsupportedShapeError{Shape: "nil value"}
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layoutLocked(t, variant)
}

// layoutLocked is the single-writer cache fill. Nested struct fields
// recurse into it while the registry lock is held, so a whole type tree
// is computed and published in one critical section.
func (r *Registry) layoutLocked(t reflect.Type, variant Variant) (*StructLayout, error) {
	key := registryKey{t, variant.Name}
	if l, ok := r.layouts[key]; ok {
		return l, nil
	}

	fields, err := r.structFields(t, variant)
	if err != nil {
		return nil, err
	}

	name := t.Name()
	if name == "" {
		// Anonymous struct types still need a stable handle for
		// diagnostics and WGSL dumps.
		name = "anon_" + uuid.NewString()[:8]
	}

	l, err := BuildLayout(name, fields, variant)
	if err != nil {
		return nil, err
	}

	r.layouts[key] = l
	if r.logger.DebugEnabled() {
		r.logger.Debugf("computed %s layout for %v: size=%d align=%d fields=%d",
			variant.Name, t, l.Size, l.Alignment, len(l.Fields))
	}
	return l, nil
}

// codecForType resolves the codec for a single value type, taking the
// registry lock. Used by Writer and Sizer.
func (r *Registry) codecForType(t reflect.Type, variant Variant) (Codec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codecForLocked(t, variant)
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by LayoutOf,
// Std140Of and Std430Of.
func DefaultRegistry() *Registry { return defaultRegistry }

// LayoutOf computes the layout of v's type under variant using the
// default registry.
func LayoutOf(v any, variant Variant) (*StructLayout, error) {
	return defaultRegistry.Layout(v, variant)
}

// Std140Of computes the uniform-buffer (std140) layout of v's type.
func Std140Of(v any) (*StructLayout, error) {
	return defaultRegistry.Layout(v, Std140)
}

// Std430Of computes the storage-buffer (std430) layout of v's type.
func Std430Of(v any) (*StructLayout, error) {
	return defaultRegistry.Layout(v, Std430)
}
