package ecs_test

import (
	"errors"
	"testing"

	"github.com/plus3/entalloc/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	t.Run("create entities", func(t *testing.T) {
		alloc := ecs.NewAllocator()
		cmds := ecs.NewCommands()

		cmds.Create(2)
		cmds.Create(1)
		cmds.Create(-3)
		assert.Equal(t, 3, cmds.Len())
		assert.Equal(t, 0, alloc.Len(), "entities created before flush")

		result, err := cmds.Flush(alloc)
		require.NoError(t, err)
		assert.Equal(t, []ecs.EntityId{0, 1, 2}, result.Created)
		assert.Empty(t, result.Cloned)
		assert.Equal(t, 3, alloc.Len())
	})

	t.Run("destroy entities", func(t *testing.T) {
		alloc := ecs.NewAllocator()
		e1 := alloc.Create()
		e2 := alloc.Create()

		cmds := ecs.NewCommands()
		cmds.Destroy(e1)
		assert.True(t, alloc.Exists(e1), "entity destroyed before flush")

		_, err := cmds.Flush(alloc)
		require.NoError(t, err)
		assert.False(t, alloc.Exists(e1))
		assert.True(t, alloc.Exists(e2))
	})

	t.Run("destroys run before creates", func(t *testing.T) {
		alloc := ecs.NewAllocator()
		e1 := alloc.Create()

		cmds := ecs.NewCommands()
		cmds.Create(1)
		cmds.Destroy(e1)

		result, err := cmds.Flush(alloc)
		require.NoError(t, err)
		assert.Equal(t, []ecs.EntityId{e1}, result.Created, "freed id should be recycled")
	})

	t.Run("clone entities", func(t *testing.T) {
		alloc := ecs.NewAllocator()
		src := alloc.Create()

		cmds := ecs.NewCommands()
		cmds.Clone(src)
		cmds.Clone(src)

		result, err := cmds.Flush(alloc)
		require.NoError(t, err)
		require.Len(t, result.Cloned, 2)
		for _, id := range result.Cloned {
			assert.NotEqual(t, src, id)
			assert.True(t, alloc.Exists(id))
		}
	})

	t.Run("clone of destroyed entity fails without stopping flush", func(t *testing.T) {
		alloc := ecs.NewAllocator()
		src := alloc.Create()
		other := alloc.Create()

		cmds := ecs.NewCommands()
		cmds.Clone(src)
		cmds.Clone(other)
		cmds.Clone(999)
		cmds.Destroy(src)
		cmds.Create(1)

		result, err := cmds.Flush(alloc)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ecs.ErrEntityNotFound))
		assert.Contains(t, err.Error(), "Entity with ID 0 does not exist")
		assert.Contains(t, err.Error(), "Entity with ID 999 does not exist")

		assert.Equal(t, []ecs.EntityId{src}, result.Cloned, "clone of other should reuse freed id")
		assert.Equal(t, []ecs.EntityId{2}, result.Created)
		assert.Equal(t, 3, alloc.Len())
	})

	t.Run("flush resets buffer", func(t *testing.T) {
		alloc := ecs.NewAllocator()
		cmds := ecs.NewCommands()
		cmds.Create(2)
		cmds.Destroy(5)
		cmds.Clone(7)

		_, err := cmds.Flush(alloc)
		assert.Error(t, err)
		assert.Equal(t, 0, cmds.Len())

		result, err := cmds.Flush(alloc)
		assert.NoError(t, err)
		assert.Empty(t, result.Created)
		assert.Empty(t, result.Cloned)
		assert.Equal(t, 2, alloc.Len())
	})
}
