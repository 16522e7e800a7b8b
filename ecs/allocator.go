package ecs

import (
	"errors"
	"fmt"

	"github.com/kamstrup/intmap"
)

const defaultLiveCapacity = 256

// ErrEntityNotFound matches any EntityNotFoundError via errors.Is.
var ErrEntityNotFound = errors.New("entity not found")

// EntityNotFoundError is returned when an operation requires a live entity.
type EntityNotFoundError struct {
	Id EntityId
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("Entity with ID %d does not exist and cannot be cloned.", uint64(e.Id))
}

func (e *EntityNotFoundError) Is(target error) bool {
	return target == ErrEntityNotFound
}

// Allocator issues, tracks and recycles entity IDs.
//
// Fresh IDs are minted from a monotonic counter starting at 0. Destroyed IDs
// are kept on a stack and handed out again most-recent-first before any new
// ID is minted. An Allocator is not safe for concurrent use.
type Allocator struct {
	nextId uint64
	free   []EntityId
	live   *intmap.Map[EntityId, struct{}]
}

// NewAllocator creates an empty allocator
func NewAllocator() *Allocator {
	return &Allocator{
		live: intmap.New[EntityId, struct{}](defaultLiveCapacity),
	}
}

// Create returns an ID that was not live before the call and is live after it.
// Recycled IDs are preferred over minting new ones.
func (a *Allocator) Create() EntityId {
	var id EntityId
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		id = EntityId(a.nextId)
		a.nextId++
	}

	a.live.Put(id, struct{}{})
	return id
}

// Exists reports whether id is currently live
func (a *Allocator) Exists(id EntityId) bool {
	_, ok := a.live.Get(id)
	return ok
}

// Destroy releases a live ID for reuse. Destroying an ID that is not live
// does nothing.
func (a *Allocator) Destroy(id EntityId) {
	if !a.Exists(id) {
		return
	}
	a.live.Del(id)
	a.free = append(a.free, id)
}

// Clone issues a new ID for a copy of a live entity. Only the identity is
// produced here; callers copy their own per-entity data.
func (a *Allocator) Clone(id EntityId) (EntityId, error) {
	if !a.Exists(id) {
		return 0, &EntityNotFoundError{Id: id}
	}
	return a.Create(), nil
}

// CreateBatch creates count entities and returns them in creation order
func (a *Allocator) CreateBatch(count int) []EntityId {
	if count <= 0 {
		return []EntityId{}
	}

	ids := make([]EntityId, count)
	for i := range ids {
		ids[i] = a.Create()
	}
	return ids
}

// DestroyBatch destroys each ID in order. Unknown and repeated IDs are ignored.
func (a *Allocator) DestroyBatch(ids []EntityId) {
	for _, id := range ids {
		a.Destroy(id)
	}
}

// Len returns the number of live IDs
func (a *Allocator) Len() int {
	return a.live.Len()
}

// Reset discards all state, returning the allocator to its initial condition
func (a *Allocator) Reset() {
	a.nextId = 0
	a.free = a.free[:0]
	a.live.Clear()
}
