package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"voxelworld.ai/internal/sim/world/terrain/store"
	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

// walk drives a viewer along a straight line, one tick per step.
type walk struct {
	world *store.World
	start mgl64.Vec3
	dir   mgl64.Vec3
	speed float64

	carveEvery  int
	carveRadius int
	carveWith   voxel.Type

	idleTicks uint64
	snapEvery uint64
	snap      snapshotWriter

	log *zap.Logger
}

// viewerAt is the viewer position at tick; resumed runs continue the same
// line.
func (r walk) viewerAt(tick uint64) mgl64.Vec3 {
	return r.start.Add(r.dir.Mul(r.speed * float64(tick)))
}

// Run executes steps ticks starting at startTick and returns the last tick
// executed.
func (r walk) Run(ctx context.Context, startTick uint64, steps int, delay time.Duration) (uint64, error) {
	last := startTick
	if startTick > 0 {
		last = startTick - 1
	}
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		tick := startTick + uint64(i)
		viewer := r.viewerAt(tick)

		if err := r.world.UpdateChunks(viewer); err != nil {
			r.log.Warn("update chunks", zap.Uint64("tick", tick), zap.Error(err))
		}
		if r.carveEvery > 0 && tick%uint64(r.carveEvery) == 0 {
			c := [3]int{
				int(math.Floor(viewer.X())),
				int(math.Floor(viewer.Y())) - r.carveRadius,
				int(math.Floor(viewer.Z())),
			}
			n, err := r.world.FillSphere(c, r.carveRadius, r.carveWith)
			if err != nil {
				r.log.Warn("carve", zap.Uint64("tick", tick), zap.Error(err))
			} else {
				r.log.Debug("carved", zap.Uint64("tick", tick), zap.Ints("center", c[:]), zap.Int("chunks", n))
			}
		}
		if r.idleTicks > 0 {
			r.world.CompressIdle(r.idleTicks)
		}
		if r.snapEvery > 0 && (tick+1)%r.snapEvery == 0 {
			if _, err := r.snap.Write(r.world, tick); err != nil {
				r.log.Error("snapshot", zap.Uint64("tick", tick), zap.Error(err))
			}
		}
		last = tick
		if err := sleepCtx(ctx, delay); err != nil {
			return last, err
		}
	}
	return last, nil
}

func parseVec3(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return v, nil
}
