package render

import (
	"runtime"
	"sync"
	"time"
)

// RenderStats summarizes a finished render.
type RenderStats struct {
	Width, Height int
	Antialiasing  int
	Workers       int
	// Evaluations is the amount of distance estimations performed, including
	// normal estimation and shadow rays.
	Evaluations uint64
	// Hits and Misses count primary rays.
	Hits, Misses uint64
	Duration     time.Duration
}

// worker renders the rows it owns into the framebuffer. Rows are assigned by
// striping: worker id owns every row y with y%workers == id, so no two workers
// ever write the same pixel.
type worker struct {
	id   int
	rows [][]uint32 // Exclusive row slices of the output, indexed alongside ys.
	ys   []int
	sh   *shader
}

// stripeRows returns the world row indices owned by worker id out of workers.
func stripeRows(height, workers, id int) []int {
	var rows []int
	for y := id; y < height; y += workers {
		rows = append(rows, y)
	}
	return rows
}

func numWorkers(requested, height int) int {
	n := requested
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return max(1, min(n, height))
}

func (w *worker) run(width, gridSize int, wg *sync.WaitGroup) {
	defer wg.Done()
	for i, y := range w.ys {
		row := w.rows[i]
		for x := 0; x < width; x++ {
			row[x] = w.sh.renderPixel(x, y, gridSize)
		}
	}
}

// renderParallel renders sc into fb with the given amount of workers and blocks until
// every worker is done.
func renderParallel(sc *scene, fb *Framebuffer, gridSize, nworkers int) RenderStats {
	start := time.Now()
	workers := make([]*worker, nworkers)
	var wg sync.WaitGroup
	for id := range workers {
		w := &worker{
			id: id,
			ys: stripeRows(fb.height, nworkers, id),
			sh: newShader(sc),
		}
		for _, y := range w.ys {
			w.rows = append(w.rows, fb.worldRow(y))
		}
		workers[id] = w
		wg.Add(1)
		go w.run(fb.width, gridSize, &wg)
	}
	wg.Wait()

	stats := RenderStats{
		Width:        fb.width,
		Height:       fb.height,
		Antialiasing: gridSize,
		Workers:      nworkers,
	}
	for _, w := range workers {
		stats.Evaluations += w.sh.sdf.Evaluations()
		stats.Hits += w.sh.hits
		stats.Misses += w.sh.misses
	}
	stats.Duration = time.Since(start)
	return stats
}
