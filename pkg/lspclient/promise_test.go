package lspclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromiseUpdateThenWaitReturnsValue(t *testing.T) {
	p := newPromise()
	assert.Equal(t, Unresolved, p.State())

	resp := &Response{Result: []byte(`{"ok":true}`)}
	p.update(resp)
	assert.Equal(t, Ready, p.State())

	got, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, resp, got)
}

func TestPromiseUpdateIsIdempotent(t *testing.T) {
	p := newPromise()
	p.update(&Response{Result: []byte("1")})
	p.update(&Response{Result: []byte("2")}) // must not replace the first resolution
	p.breakWith(errors.New("too late"))       // must not override either

	got, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", string(got.Result))
}

func TestPromiseBreakWithResolvesAsError(t *testing.T) {
	p := newPromise()
	p.breakWith(errors.New("connection closed"))
	assert.Equal(t, Broken, p.State())

	_, err := p.Wait(context.Background())
	assert.EqualError(t, err, "connection closed")
}

func TestPromiseWaitRespectsContextCancellation(t *testing.T) {
	p := newPromise()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPromiseTakeNonBlocking(t *testing.T) {
	p := newPromise()
	_, _, ok := p.Take()
	assert.False(t, ok, "still unresolved")

	p.update(&Response{Result: []byte("1")})
	resp, err, ok := p.Take()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, "1", string(resp.Result))
}
