package async

import (
	"runtime/debug"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/lumora-app/lumora/internal/logger"
)

// Runner executes fire-and-forget work. The engine submits impression
// recording and notification dispatch through this seam so tests can run
// them inline.
type Runner interface {
	Submit(task func()) error
}

// Pool is the ants-backed Runner used in production. Panics inside tasks
// are logged and swallowed; a side-channel task must never take the
// process down.
type Pool struct {
	pool           *ants.Pool
	releaseTimeout time.Duration
}

func NewPool(size int, releaseTimeout time.Duration) (*Pool, error) {
	p, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(r any) {
			logger.Error("async task panic", "panic", r, "stack", string(debug.Stack()))
		}),
	)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p, releaseTimeout: releaseTimeout}, nil
}

func (p *Pool) Submit(task func()) error {
	return p.pool.Submit(task)
}

// Release drains the pool, waiting up to the configured timeout.
func (p *Pool) Release() error {
	if p.releaseTimeout > 0 {
		return p.pool.ReleaseTimeout(p.releaseTimeout)
	}
	p.pool.Release()
	return nil
}

// Sync runs tasks inline. Test helper; also the fallback when no pool is
// configured.
type Sync struct{}

func (Sync) Submit(task func()) error {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("sync task panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	task()
	return nil
}
