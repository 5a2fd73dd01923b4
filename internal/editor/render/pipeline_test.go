package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCall struct {
	source  string
	release chan struct{}
}

type stubRenderer struct {
	started  chan *stubCall
	failWith error
}

func newStubRenderer() *stubRenderer {
	return &stubRenderer{started: make(chan *stubCall, 16)}
}

func (r *stubRenderer) Render(_ context.Context, source string) (Artifact, error) {
	c := &stubCall{source: source, release: make(chan struct{})}
	r.started <- c
	<-c.release
	if r.failWith != nil {
		return Artifact{}, r.failWith
	}
	return Artifact{SVG: []byte(source)}, nil
}

func next(t *testing.T, r *stubRenderer) *stubCall {
	t.Helper()
	select {
	case c := <-r.started:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for render call")
		return nil
	}
}

func TestPipelineAppliesOnlyLatestCall(t *testing.T) {
	renderer := newStubRenderer()
	applied := make(chan Result, 16)
	p := NewPipeline(renderer, func(res Result) { applied <- res })

	seq1 := p.Submit("one")
	first := next(t, renderer)
	seq2 := p.Submit("two")
	second := next(t, renderer)
	require.Greater(t, seq2, seq1)

	// newest completes first and is applied
	close(second.release)
	res := <-applied
	assert.Equal(t, seq2, res.Seq)
	assert.Equal(t, "two", string(res.Artifact.SVG))

	// the superseded call resolves later and is discarded
	close(first.release)
	select {
	case res := <-applied:
		t.Fatalf("stale result was applied: seq=%d", res.Seq)
	case <-time.After(200 * time.Millisecond):
	}

	// a fresh call still goes through afterwards
	p.Submit("three")
	close(next(t, renderer).release)
	res = <-applied
	assert.Equal(t, "three", string(res.Artifact.SVG))
}

func TestPipelineFailureDeliversPlaceholder(t *testing.T) {
	renderer := newStubRenderer()
	renderer.failWith = &Error{Message: "bad arrow"}
	applied := make(chan Result, 1)
	p := NewPipeline(renderer, func(res Result) { applied <- res })

	p.Submit("graph TD")
	close(next(t, renderer).release)

	res := <-applied
	require.Error(t, res.Err)
	assert.True(t, res.Artifact.Placeholder)
	assert.Contains(t, string(res.Artifact.SVG), "bad arrow")
}

func TestPipelineSequenceIsMonotonic(t *testing.T) {
	renderer := newStubRenderer()
	p := NewPipeline(renderer, func(Result) {})

	a := p.Submit("a")
	b := p.Submit("b")
	c := p.Submit("c")
	assert.Equal(t, a+1, b)
	assert.Equal(t, b+1, c)
	assert.Equal(t, c, p.Latest())

	for i := 0; i < 3; i++ {
		close(next(t, renderer).release)
	}
}

func TestPlaceholderEscapesMessage(t *testing.T) {
	art := Placeholder(errors.New(`unexpected token "<end>"`))
	assert.True(t, art.Placeholder)
	assert.Contains(t, string(art.SVG), "&lt;end&gt;")
}
