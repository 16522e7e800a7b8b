package ecs

import "strconv"

// EntityId is an opaque handle issued by an Allocator.
// Only equality and liveness are meaningful; the numeric value carries no data.
type EntityId uint64

// String returns the decimal form of the ID
func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e), 10)
}
