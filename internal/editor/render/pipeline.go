package render

import (
	"context"
	"sync"
	"sync/atomic"
)

// Result is the outcome of one pipeline call. Err is non-nil when the
// renderer failed; Artifact then holds the failure placeholder.
type Result struct {
	Seq      uint64
	Artifact Artifact
	Err      error
}

// Pipeline serializes render results for a single editing session. Each
// Submit gets a monotonically increasing sequence number; a completed
// render is applied only while its sequence is still the latest issued,
// so a slow render for old source never clobbers a newer one. Stale
// results are discarded, not cancelled.
type Pipeline struct {
	renderer Renderer
	apply    func(Result)

	seq atomic.Uint64

	mu      sync.Mutex // guards applied and orders apply calls
	applied uint64
}

// NewPipeline creates a pipeline delivering results through apply. The
// apply callback runs on a render goroutine and must not call Submit.
func NewPipeline(renderer Renderer, apply func(Result)) *Pipeline {
	return &Pipeline{
		renderer: renderer,
		apply:    apply,
	}
}

// Submit issues a new render call for the given source and returns its
// sequence number. Identical source still counts as a new call.
func (p *Pipeline) Submit(source string) uint64 {
	seq := p.seq.Add(1)
	go p.run(seq, source)
	return seq
}

// Latest returns the sequence number of the most recently issued call.
func (p *Pipeline) Latest() uint64 {
	return p.seq.Load()
}

func (p *Pipeline) run(seq uint64, source string) {
	artifact, err := p.renderer.Render(context.Background(), source)
	if err != nil {
		artifact = Placeholder(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq.Load() || seq <= p.applied {
		// superseded by a later call
		return
	}
	p.applied = seq
	p.apply(Result{Seq: seq, Artifact: artifact, Err: err})
}
