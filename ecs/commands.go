package ecs

import "errors"

// Commands buffers allocator mutations so they can be applied in one step,
// typically after the caller has finished iterating over its own entity data.
type Commands struct {
	creates  int
	clones   []EntityId
	destroys []EntityId
}

// FlushResult lists the IDs issued during a flush, in issue order.
type FlushResult struct {
	Created []EntityId
	Cloned  []EntityId
}

// NewCommands creates an empty command buffer
func NewCommands() *Commands {
	return &Commands{}
}

// Create queues count entity creations.
func (c *Commands) Create(count int) {
	if count > 0 {
		c.creates += count
	}
}

// Clone queues a clone of the given entity.
func (c *Commands) Clone(id EntityId) {
	c.clones = append(c.clones, id)
}

// Destroy queues entity destructions.
func (c *Commands) Destroy(ids ...EntityId) {
	c.destroys = append(c.destroys, ids...)
}

// Len returns the number of queued operations
func (c *Commands) Len() int {
	return c.creates + len(c.clones) + len(c.destroys)
}

// Flush applies all queued commands to the allocator and resets the buffer.
// Destroys run first, then clones, then creations. A clone whose source is
// not live at that point is skipped and its error is included in the
// returned error; the remaining commands still run.
func (c *Commands) Flush(a *Allocator) (FlushResult, error) {
	var result FlushResult
	var errs []error

	a.DestroyBatch(c.destroys)

	for _, src := range c.clones {
		id, err := a.Clone(src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Cloned = append(result.Cloned, id)
	}

	if c.creates > 0 {
		result.Created = a.CreateBatch(c.creates)
	}

	c.creates = 0
	c.clones = c.clones[:0]
	c.destroys = c.destroys[:0]

	return result, errors.Join(errs...)
}
