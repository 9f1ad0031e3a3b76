// Package pending tracks optimistically created entities until the server
// confirms them.
package pending

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
)

// TempPrefix marks ids that exist only locally
const TempPrefix = "tmp-"

// IsTemp reports whether id is a local placeholder id
func IsTemp(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

// Create is one optimistic creation awaiting confirmation
type Create struct {
	Kind      dnd.Kind
	TempID    string
	RequestID string
}

// Item returns the drag identity of the placeholder entity
func (c Create) Item() dnd.Item {
	return dnd.Item{Kind: c.Kind, ID: c.TempID}
}

// Registry records in-flight creations by temp id
type Registry struct {
	mu      sync.Mutex
	creates map[string]Create
	newID   func() string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		creates: make(map[string]Create),
		newID:   func() string { return uuid.NewString() },
	}
}

// Track registers a new creation and returns its temp id and request id.
// The request id doubles as the idempotency key of the POST.
func (r *Registry) Track(kind dnd.Kind) Create {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := Create{
		Kind:      kind,
		TempID:    TempPrefix + r.newID(),
		RequestID: r.newID(),
	}
	r.creates[c.TempID] = c
	return c
}

// Resolve removes a confirmed creation. The caller renames the local
// entity from the temp id to the server id.
func (r *Registry) Resolve(tempID string) (Create, bool) {
	return r.take(tempID)
}

// Fail removes a creation the server rejected
func (r *Registry) Fail(tempID string) (Create, bool) {
	return r.take(tempID)
}

// Lookup returns the creation for tempID
func (r *Registry) Lookup(tempID string) (Create, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.creates[tempID]
	return c, ok
}

// Len returns the number of unconfirmed creations
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.creates)
}

func (r *Registry) take(tempID string) (Create, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.creates[tempID]
	if ok {
		delete(r.creates, tempID)
	}
	return c, ok
}
