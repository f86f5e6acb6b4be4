package renderer

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_DefaultsToCPUCount(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), NewWorkerPool(0).GetNumWorkers())
	assert.Equal(t, runtime.NumCPU(), NewWorkerPool(-3).GetNumWorkers())
	assert.Equal(t, 5, NewWorkerPool(5).GetNumWorkers())
}

func TestWorkerPool_RunsEveryTile(t *testing.T) {
	tiles := NewTileGrid(100, 100, 10)
	var mu sync.Mutex
	seen := make(map[int]bool)

	err := NewWorkerPool(4).Run(context.Background(), tiles, func(tile *Tile) error {
		mu.Lock()
		defer mu.Unlock()
		seen[tile.ID] = true
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, len(tiles))
}

func TestWorkerPool_BoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	err := NewWorkerPool(3).Run(context.Background(), NewTileGrid(64, 64, 4), func(*Tile) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		runtime.Gosched()
		running.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestWorkerPool_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	err := NewWorkerPool(1).Run(context.Background(), NewTileGrid(100, 100, 10), func(tile *Tile) error {
		calls.Add(1)
		if tile.ID == 2 {
			return boom
		}
		return nil
	})
	assert.True(t, errors.Is(err, boom))
	assert.Less(t, calls.Load(), int32(100))
}
