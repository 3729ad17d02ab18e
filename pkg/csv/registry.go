package csv

import (
	"fmt"
	"sort"
	"sync"
)

// Names of the dialects every registry starts with.
const (
	DialectUnix     = "unix"
	DialectExcel    = "excel"
	DialectExcelTab = "excel_tab"
)

// Registry holds named dialects and the name of the one in use.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	dialects map[string]*Dialect
	current  string
}

// NewRegistry creates a registry with the unix, excel and excel_tab
// dialects. excel is current.
func NewRegistry() *Registry {
	r := &Registry{
		dialects: map[string]*Dialect{
			DialectUnix:     NewDialect().LineTerminator("\n"),
			DialectExcel:    NewDialect(),
			DialectExcelTab: NewDialect().Delimiter("\t"),
		},
		current: DialectExcel,
	}
	return r
}

// ConfigureDialect returns the dialect called name, creating it with default
// settings if needed. A newly created dialect becomes the current one.
func (r *Registry) ConfigureDialect(name string) *Dialect {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.dialects[name]; ok {
		return d
	}

	d := NewDialect()
	r.dialects[name] = d
	r.current = name
	return d
}

// GetDialect returns the dialect called name.
func (r *Registry) GetDialect(name string) (*Dialect, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dialects[name]
	if !ok {
		return nil, fmt.Errorf("dialect %q: %w", name, ErrDialectNotFound)
	}
	return d, nil
}

// UseDialect makes name the current dialect. The current dialect is left
// unchanged if name was never registered.
func (r *Registry) UseDialect(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.dialects[name]; !ok {
		return fmt.Errorf("dialect %q: %w", name, ErrDialectNotFound)
	}
	r.current = name
	return nil
}

// ListDialects returns the registered names in sorted order.
func (r *Registry) ListDialects() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.dialects))
	for name := range r.dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrentDialectName returns the name of the dialect in use.
func (r *Registry) CurrentDialectName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// CurrentDialect returns the dialect in use.
func (r *Registry) CurrentDialect() (*Dialect, error) {
	return r.GetDialect(r.CurrentDialectName())
}
