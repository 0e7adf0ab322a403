package poll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DoyleJ11/room-status/internal/render"
	"github.com/DoyleJ11/room-status/internal/room"
	"github.com/DoyleJ11/room-status/internal/view"
	"go.uber.org/zap"
)

const DefaultInterval = 7 * time.Second

var ErrNoContainer = errors.New("no container to render into")
var ErrNotStarted = errors.New("poll loop not started")

//go:generate mockgen -destination=../mocks/mock_client.go -package=mocks . Client

// Client is what the loop needs from the room backend.
type Client interface {
	FetchLayout(ctx context.Context) (room.Grid, error)
	render.Mutator
}

type Loop struct {
	client   Client
	renderer *render.Renderer
	policy   render.Policy
	log      *zap.Logger

	mu        sync.RWMutex
	viewer    string
	container *view.Container
}

func New(client Client, policy render.Policy, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Loop{
		client: client,
		policy: policy,
		log:    log,
	}
	l.renderer = render.New(client, l.Refresh, policy, log)
	return l
}

// Handle stops a started loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops future ticks. A tick already fetching or rendering finishes.
func (h *Handle) Cancel() { h.cancel() }

// Done is closed once the scheduler has stopped.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Start renders once before returning, then refreshes every interval until the
// handle is cancelled or ctx ends.
func (l *Loop) Start(ctx context.Context, viewer string, container *view.Container, interval time.Duration) (*Handle, error) {
	if container == nil {
		return nil, ErrNoContainer
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	l.mu.Lock()
	l.viewer = viewer
	l.container = container
	l.mu.Unlock()

	// tick work outlives cancellation of the schedule
	work := context.WithoutCancel(ctx)

	if l.policy.AutoSetStatus != nil {
		if err := l.client.SetStatus(work, *l.policy.AutoSetStatus); err != nil {
			l.log.Warn("initial status update failed",
				zap.String("status", string(*l.policy.AutoSetStatus)), zap.Error(err))
		}
	}

	_ = l.Refresh(work)

	schedCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go l.schedule(schedCtx, work, interval, h.done)

	l.log.Info("poll loop started",
		zap.String("viewer", viewer),
		zap.Duration("interval", interval),
	)
	return h, nil
}

func (l *Loop) schedule(ctx, work context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info("poll loop stopped")
			return
		case <-ticker.C:
			// No guard against a slow previous tick: whichever fetch finishes
			// last is the one left on screen.
			go func() { _ = l.Refresh(work) }()
		}
	}
}

// Refresh fetches the layout and renders it. On a failed fetch the container
// keeps its previous content.
func (l *Loop) Refresh(ctx context.Context) error {
	l.mu.RLock()
	viewer, container := l.viewer, l.container
	l.mu.RUnlock()

	if container == nil {
		return ErrNotStarted
	}

	grid, err := l.client.FetchLayout(ctx)
	if err != nil {
		l.log.Warn("layout fetch failed, keeping previous render", zap.Error(err))
		return err
	}

	if err := l.renderer.Render(ctx, grid, viewer, container); err != nil {
		l.log.Error("layout render failed", zap.Error(err))
		return err
	}
	return nil
}
