package renderer

import (
	"context"
	"image"
	"runtime"
	"sync"
)

// TileTask asks a worker to render one tile
type TileTask struct {
	Tile   *Tile
	TaskID int // Index into the submitted tile list
}

// TileResult carries one rendered tile back to the collector
type TileResult struct {
	TaskID int
	Image  *image.RGBA // Tile pixels, addressed in image coordinates
	Stats  RenderStats
	Error  error
}

// WorkerPool renders tiles on a fixed number of goroutines. Tasks go in
// through SubmitTask and come back, in completion order, through GetResult.
type WorkerPool struct {
	raytracer  *Raytracer
	numWorkers int
	tasks      chan TileTask
	results    chan TileResult
	wg         sync.WaitGroup
}

// NewWorkerPool creates a pool of numWorkers goroutines (CPU count when <= 0).
// queueSize must be at least the number of tiles submitted per render so
// that submitting never waits on the collector.
func NewWorkerPool(raytracer *Raytracer, numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		raytracer:  raytracer,
		numWorkers: numWorkers,
		tasks:      make(chan TileTask, queueSize),
		results:    make(chan TileResult, queueSize),
	}
}

// Start launches the workers. A task taken after ctx is done is not
// rendered; its result carries ctx's error instead.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.wg.Add(wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		go func() {
			defer wp.wg.Done()
			for task := range wp.tasks {
				wp.results <- wp.renderTile(ctx, task)
			}
		}()
	}
}

// renderTile renders a tile into a buffer of its own using the tile's sampler
func (wp *WorkerPool) renderTile(ctx context.Context, task TileTask) TileResult {
	if err := ctx.Err(); err != nil {
		return TileResult{TaskID: task.TaskID, Error: err}
	}

	tileImage := image.NewRGBA(task.Tile.Bounds)
	stats := wp.raytracer.RenderBounds(task.Tile.Bounds, NewImageWriterFor(tileImage), task.Tile.Sampler)
	return TileResult{TaskID: task.TaskID, Image: tileImage, Stats: stats}
}

// Stop closes the task queue, waits for in-flight tiles and closes the results
func (wp *WorkerPool) Stop() {
	close(wp.tasks)
	wp.wg.Wait()
	close(wp.results)
}

// SubmitTask queues a tile
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.tasks <- task
}

// GetResult waits for the next finished tile. ok is false once the pool is stopped and drained.
func (wp *WorkerPool) GetResult() (result TileResult, ok bool) {
	result, ok = <-wp.results
	return result, ok
}

// GetNumWorkers returns the number of worker goroutines
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}
