package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DoyleJ11/room-status/internal/render"
	"github.com/DoyleJ11/room-status/internal/room"
	"github.com/DoyleJ11/room-status/internal/roomclient"
	"github.com/DoyleJ11/room-status/internal/view"
	"github.com/stretchr/testify/require"
)

// fakeClient serves fetches from fetch, counting calls. Mutations are recorded.
type fakeClient struct {
	fetches atomic.Int32
	fetch   func(n int) (room.Grid, error)

	mu     sync.Mutex
	events []string
}

func (f *fakeClient) FetchLayout(ctx context.Context) (room.Grid, error) {
	n := int(f.fetches.Add(1))
	f.record("fetch")
	return f.fetch(n)
}

func (f *fakeClient) AssignSeat(ctx context.Context, row, col int) error {
	f.record(fmt.Sprintf("assign %d,%d", row, col))
	return nil
}

func (f *fakeClient) SetStatus(ctx context.Context, status room.Status) error {
	f.record("status " + string(status))
	return nil
}

func (f *fakeClient) record(e string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeClient) history() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func named(name string) room.Grid {
	return room.Grid{{{Name: name}}}
}

func newContainer(t *testing.T) *view.Container {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return view.NewContainer(ctx, nil)
}

func state(t *testing.T, c *view.Container) view.State {
	t.Helper()
	st, err := c.State(context.Background())
	require.NoError(t, err)
	return st
}

func TestStart_RequiresContainer(t *testing.T) {
	l := New(&fakeClient{fetch: func(int) (room.Grid, error) { return named("A"), nil }}, render.Policy{}, nil)

	h, err := l.Start(context.Background(), "h1", nil, time.Second)
	require.Nil(t, h)
	require.True(t, errors.Is(err, ErrNoContainer))
}

func TestRefresh_BeforeStart(t *testing.T) {
	l := New(&fakeClient{}, render.Policy{}, nil)
	require.True(t, errors.Is(l.Refresh(context.Background()), ErrNotStarted))
}

func TestStart_CancelBeforeFirstTick_RendersOnce(t *testing.T) {
	client := &fakeClient{fetch: func(int) (room.Grid, error) { return named("A"), nil }}
	l := New(client, render.Policy{}, nil)
	c := newContainer(t)

	interval := 40 * time.Millisecond
	h, err := l.Start(context.Background(), "h1", c, interval)
	require.NoError(t, err)

	// the initial render is in place before Start returns
	require.Equal(t, 1, state(t, c).Version)

	h.Cancel()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop after cancel")
	}

	time.Sleep(5 * interval)
	require.Equal(t, 1, state(t, c).Version)
	require.Equal(t, int32(1), client.fetches.Load())
}

func TestStart_TicksKeepRendering(t *testing.T) {
	client := &fakeClient{fetch: func(n int) (room.Grid, error) { return named(fmt.Sprintf("tick-%d", n)), nil }}
	l := New(client, render.Policy{}, nil)
	c := newContainer(t)

	h, err := l.Start(context.Background(), "h1", c, 15*time.Millisecond)
	require.NoError(t, err)
	defer h.Cancel()

	require.Eventually(t, func() bool { return state(t, c).Version >= 3 }, time.Second, 5*time.Millisecond)
}

func TestStart_FetchErrorsKeepPreviousRender(t *testing.T) {
	var failing atomic.Bool
	client := &fakeClient{fetch: func(n int) (room.Grid, error) {
		if failing.Load() {
			if n%2 == 0 {
				return nil, fmt.Errorf("%w: connection refused", roomclient.ErrTransientFetch)
			}
			return nil, fmt.Errorf("%w: not an array", room.ErrMalformedResponse)
		}
		return named(fmt.Sprintf("grid-%d", n)), nil
	}}
	l := New(client, render.Policy{}, nil)
	c := newContainer(t)

	h, err := l.Start(context.Background(), "h1", c, 10*time.Millisecond)
	require.NoError(t, err)
	defer h.Cancel()

	failing.Store(true)
	// let any tick that fetched before the switch finish rendering
	settled := client.fetches.Load()
	require.Eventually(t, func() bool { return client.fetches.Load() >= settled+2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	before := state(t, c)
	fetchesAtFailure := client.fetches.Load()

	// several failing ticks go by without touching the container
	require.Eventually(t, func() bool { return client.fetches.Load() >= fetchesAtFailure+4 }, time.Second, 5*time.Millisecond)
	during := state(t, c)
	require.Equal(t, before.Version, during.Version)
	require.Equal(t, before.HTML, during.HTML)

	// the loop is still alive and picks up the next good response
	failing.Store(false)
	require.Eventually(t, func() bool { return state(t, c).Version > before.Version }, time.Second, 5*time.Millisecond)
}

func TestRefresh_LastCompletedFetchWins(t *testing.T) {
	slow := make(chan struct{})
	fast := make(chan struct{})
	client := &fakeClient{fetch: func(n int) (room.Grid, error) {
		switch n {
		case 1:
			return named("initial"), nil
		case 2:
			<-slow
			return named("timer-tick"), nil
		default:
			<-fast
			return named("user-action"), nil
		}
	}}
	l := New(client, render.Policy{}, nil)
	c := newContainer(t)

	h, err := l.Start(context.Background(), "h1", c, time.Hour)
	require.NoError(t, err)
	defer h.Cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); _ = l.Refresh(context.Background()) }()
	require.Eventually(t, func() bool { return client.fetches.Load() == 2 }, time.Second, time.Millisecond)

	wg.Add(1)
	go func() { defer wg.Done(); _ = l.Refresh(context.Background()) }()
	require.Eventually(t, func() bool { return client.fetches.Load() == 3 }, time.Second, time.Millisecond)

	// the later request resolves first, the earlier one last
	close(fast)
	require.Eventually(t, func() bool { return state(t, c).Version == 2 }, time.Second, time.Millisecond)
	require.Contains(t, state(t, c).HTML, "user-action")

	close(slow)
	wg.Wait()

	final := state(t, c)
	require.Equal(t, 3, final.Version)
	require.Contains(t, final.HTML, "timer-tick")
	require.NotContains(t, final.HTML, "user-action")
}

func TestStart_AutoSetStatusBeforeFirstRender(t *testing.T) {
	client := &fakeClient{fetch: func(int) (room.Grid, error) {
		return room.Grid{{{Name: "A", Hostname: room.Ptr("h1")}}}, nil
	}}
	l := New(client, render.Policy{AutoSetStatus: room.Ptr(room.StatusGreen)}, nil)
	c := newContainer(t)

	h, err := l.Start(context.Background(), "h1", c, time.Hour)
	require.NoError(t, err)
	defer h.Cancel()

	require.Equal(t, []string{"status green", "fetch"}, client.history())
}

func TestActivation_TriggersImmediateRefresh(t *testing.T) {
	client := &fakeClient{fetch: func(n int) (room.Grid, error) {
		if n == 1 {
			return room.Grid{{nil, {Name: "A"}}}, nil
		}
		return room.Grid{{nil, {Name: "A", Hostname: room.Ptr("h1")}}}, nil
	}}
	l := New(client, render.Policy{}, nil)
	c := newContainer(t)

	h, err := l.Start(context.Background(), "h1", c, time.Hour)
	require.NoError(t, err)
	defer h.Cancel()

	require.NoError(t, c.Activate(context.Background(), render.AssignActionID(0, 1)))

	require.Equal(t, []string{"fetch", "assign 0,1", "fetch"}, client.history())
	st := state(t, c)
	require.Equal(t, 2, st.Version)
	require.Contains(t, st.HTML, "current")
	require.Contains(t, st.HTML, "semaphore")

	// the assign control is gone once the viewer is seated
	err = c.Activate(context.Background(), render.AssignActionID(0, 1))
	require.True(t, errors.Is(err, view.ErrUnknownAction))
}
