package ecs_test

import (
	"fmt"
	"testing"

	"github.com/plus3/entalloc/ecs"
)

func BenchmarkCreate(b *testing.B) {
	alloc := ecs.NewAllocator()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		alloc.Create()
	}
}

func BenchmarkCreateRecycled(b *testing.B) {
	alloc := ecs.NewAllocator()
	alloc.DestroyBatch(alloc.CreateBatch(b.N))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		alloc.Create()
	}
}

func BenchmarkDestroy(b *testing.B) {
	alloc := ecs.NewAllocator()
	ids := alloc.CreateBatch(b.N)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		alloc.Destroy(ids[i])
	}
}

func BenchmarkExists(b *testing.B) {
	alloc := ecs.NewAllocator()
	ids := alloc.CreateBatch(1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = alloc.Exists(ids[i&1023])
	}
}

func BenchmarkChurn(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("batch=%d", size), func(b *testing.B) {
			alloc := ecs.NewAllocator()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				alloc.DestroyBatch(alloc.CreateBatch(size))
			}
		})
	}
}
