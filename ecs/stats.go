package ecs

// AllocatorStats is a point-in-time snapshot of an Allocator.
type AllocatorStats struct {
	LiveCount int
	FreeCount int
	// HighWater is the next fresh ID, i.e. how many IDs have ever been minted.
	HighWater uint64
}

// CollectStats returns a snapshot of the allocator's counters
func (a *Allocator) CollectStats() AllocatorStats {
	return AllocatorStats{
		LiveCount: a.live.Len(),
		FreeCount: len(a.free),
		HighWater: a.nextId,
	}
}
