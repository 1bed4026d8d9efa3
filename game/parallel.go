package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/evergreen/systems"
)

// defaultParallelThreshold is the minimum element count to use the worker pool.
// Below this, single-threaded is faster due to channel overhead.
const defaultParallelThreshold = 2048

// workChunk represents a range of foliage elements for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds the persistent worker pool that evaluates the foliage
// kernel. Workers read only the immutable foliage columns and the uniforms
// published before dispatch, and write disjoint output ranges.
type parallelState struct {
	foliage    *systems.Foliage
	uniforms   systems.Uniforms // written before dispatch, read-only while workers run
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(foliage *systems.Foliage, numWorkers, threshold int) *parallelState {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = defaultParallelThreshold
	}
	return &parallelState{
		foliage:    foliage,
		numWorkers: numWorkers,
		threshold:  threshold,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.foliage.EvaluateRange(chunk.start, chunk.end, p.uniforms)
			p.doneChan <- struct{}{}
		}
	}
}

// evaluate runs the foliage kernel for this frame, choosing single or
// parallel based on element count. It returns once every element is written.
func (p *parallelState) evaluate(u systems.Uniforms) {
	n := p.foliage.Len()
	if n == 0 {
		return
	}

	if n < p.threshold || p.numWorkers == 1 {
		p.foliage.EvaluateRange(0, n, u)
		return
	}

	// Ensure workers are running
	if !p.running {
		p.startWorkers()
	}

	// Published before the sends below, so every worker observes it
	p.uniforms = u

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}
