package main

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/plus3/entalloc/ecs"
	"go.uber.org/zap"
)

// workload drives an allocator with a random mix of operations and keeps its
// own record of which IDs should be live.
type workload struct {
	cfg   RunConfig
	alloc *ecs.Allocator
	cmds  *ecs.Commands
	rng   *rand.Rand

	tracked []ecs.EntityId
	index   map[ecs.EntityId]int

	destroyed []ecs.EntityId
	ops       opCounts
}

type opCounts struct {
	Creates  int64
	Clones   int64
	Destroys int64
}

func newWorkload(cfg RunConfig) *workload {
	return &workload{
		cfg:   cfg,
		alloc: ecs.NewAllocator(),
		cmds:  ecs.NewCommands(),
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		index: make(map[ecs.EntityId]int, cfg.Entities),
	}
}

func (w *workload) populate() {
	for _, id := range w.alloc.CreateBatch(w.cfg.Entities) {
		w.track(id)
	}
	w.ops.Creates += int64(w.cfg.Entities)
}

func (w *workload) track(id ecs.EntityId) {
	w.index[id] = len(w.tracked)
	w.tracked = append(w.tracked, id)
}

// untrack swap-removes the ID at position i
func (w *workload) untrack(i int) ecs.EntityId {
	id := w.tracked[i]
	last := len(w.tracked) - 1
	moved := w.tracked[last]
	w.tracked[i] = moved
	w.index[moved] = i
	w.tracked = w.tracked[:last]
	delete(w.index, id)
	return id
}

// step queues one frame of operations, flushes them and verifies the result.
func (w *workload) step() error {
	w.destroyed = w.destroyed[:0]
	var clones []ecs.EntityId

	for i := 0; i < w.cfg.Batch; i++ {
		r := w.rng.Float64()
		switch {
		case r < w.cfg.DestroyRatio && len(w.tracked) > 0:
			id := w.untrack(w.rng.Intn(len(w.tracked)))
			w.cmds.Destroy(id)
			w.destroyed = append(w.destroyed, id)
		case r < w.cfg.DestroyRatio+w.cfg.CloneRatio && len(w.tracked) > 0:
			clones = append(clones, w.tracked[w.rng.Intn(len(w.tracked))])
		default:
			w.cmds.Create(1)
			w.ops.Creates++
		}
	}

	// Clone sources are picked after they could have been destroyed, so only
	// queue the ones that survived the frame.
	for _, src := range clones {
		if _, ok := w.index[src]; ok {
			w.cmds.Clone(src)
			w.ops.Clones++
		}
	}
	w.ops.Destroys += int64(len(w.destroyed))

	result, err := w.cmds.Flush(w.alloc)
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	for _, id := range result.Cloned {
		w.track(id)
	}
	for _, id := range result.Created {
		w.track(id)
	}

	return w.verify()
}

func (w *workload) verify() error {
	if got, want := w.alloc.Len(), len(w.tracked); got != want {
		return fmt.Errorf("allocator reports %d live ids, expected %d", got, want)
	}
	for _, id := range w.tracked {
		if !w.alloc.Exists(id) {
			return fmt.Errorf("tracked id %d is not live", id)
		}
	}
	for _, id := range w.destroyed {
		if _, ok := w.index[id]; ok {
			continue // recycled within the same frame
		}
		if w.alloc.Exists(id) {
			return fmt.Errorf("destroyed id %d is still live", id)
		}
	}
	return nil
}

// runWorkload executes frames until the context is done.
func runWorkload(ctx context.Context, cfg RunConfig, log *zap.Logger) (*Report, error) {
	w := newWorkload(cfg)

	log.Info("populating allocator", zap.Int("entities", cfg.Entities))
	w.populate()

	report := &Report{
		Duration:       cfg.Duration,
		Entities:       cfg.Entities,
		Batch:          cfg.Batch,
		DestroyRatio:   cfg.DestroyRatio,
		CloneRatio:     cfg.CloneRatio,
		Seed:           cfg.Seed,
		GCPauseMetrics: cfg.GCPauseMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("running workload", zap.Duration("duration", cfg.Duration), zap.Int("batch", cfg.Batch))
	startTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			frameStart := time.Now()
			if err := w.step(); err != nil {
				return nil, fmt.Errorf("frame %d: %w", report.TotalFrames, err)
			}
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
			report.TotalFrames++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.FrameTime.Finalize()
	report.Ops = w.ops
	report.Allocator = w.alloc.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("workload finished",
		zap.Int64("frames", report.TotalFrames),
		zap.Int("live", report.Allocator.LiveCount),
		zap.Uint64("high_water", report.Allocator.HighWater),
	)
	return report, nil
}
