package view

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var ErrUnknownAction = errors.New("unknown action")
var ErrClosed = errors.New("container closed")

type Msg interface{ isContainerMsg() }

// Replace swaps the whole tree for a new one.
type Replace struct {
	Children []*Element
	Reply    chan int // receives the new version, may be nil
}

func (Replace) isContainerMsg() {}

type Lookup struct {
	ID    string
	Reply chan Handler
}

func (Lookup) isContainerMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this subscriber wants to receive renders
}

func (Join) isContainerMsg() {}

type Leave struct{ ClientID string }

func (Leave) isContainerMsg() {}

type Shutdown struct{}

func (Shutdown) isContainerMsg() {}

type GetState struct {
	Reply chan State
}

func (GetState) isContainerMsg() {}

// Snapshot is what subscribers receive after every render.
type Snapshot struct {
	Version int
	HTML    string
}

type State struct {
	Version     int
	NumClients  int
	Children    []*Element
	HTML        string
	NumHandlers int
}

// Container owns the rendered tree. Every render replaces it whole.
type Container struct {
	inbox    chan Msg
	children []*Element
	handlers map[string]Handler
	html     string
	version  int
	clients  map[string]chan Snapshot
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewContainer(parent context.Context, log *zap.Logger) *Container {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	c := &Container{
		inbox:    make(chan Msg, 64),
		handlers: make(map[string]Handler),
		clients:  make(map[string]chan Snapshot),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}

	go c.loop()
	return c
}

func (c *Container) loop() {
	for {
		select {
		case <-c.ctx.Done():
			c.shutdown()
			return

		case m := <-c.inbox:
			switch msg := m.(type) {
			case Replace:
				c.replace(msg.Children)
				if msg.Reply != nil {
					msg.Reply <- c.version
				}
				c.broadcast(Snapshot{Version: c.version, HTML: c.html})

			case Lookup:
				msg.Reply <- c.handlers[msg.ID] // may be nil

			case Join:
				c.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: c.version, HTML: c.html}

			case Leave:
				if ch, ok := c.clients[msg.ClientID]; ok {
					close(ch)
					delete(c.clients, msg.ClientID)
				}

			case GetState:
				msg.Reply <- State{
					Version:     c.version,
					NumClients:  len(c.clients),
					Children:    c.children,
					HTML:        c.html,
					NumHandlers: len(c.handlers),
				}

			case Shutdown:
				c.shutdown()
				return
			}
		}
	}
}

func (c *Container) replace(children []*Element) {
	handlers := make(map[string]Handler)
	for _, child := range children {
		child.Walk(func(e *Element) {
			if e.OnClick != nil && e.ID != "" {
				handlers[e.ID] = e.OnClick
			}
		})
	}

	out, err := RenderHTML(children)
	if err != nil {
		c.log.Error("failed to serialize layout", zap.Error(err))
	}

	c.children = children
	c.handlers = handlers
	c.html = out
	c.version++
}

func (c *Container) shutdown() {
	for id, ch := range c.clients {
		close(ch)
		delete(c.clients, id)
	}
	c.cancel()
}

func (c *Container) broadcast(snap Snapshot) {
	for id, ch := range c.clients {
		select {
		case ch <- snap:
		default:
			// Subscriber is slow/full - drop them.
			c.log.Debug("dropping slow layout subscriber", zap.String("client_id", id))
			close(ch)
			delete(c.clients, id)
		}
	}
}

func (c *Container) send(ctx context.Context, m Msg) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case c.inbox <- m:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func recv[T any](ctx context.Context, c *Container, ch chan T) (T, error) {
	var zero T
	select {
	case v := <-ch:
		return v, nil
	case <-c.ctx.Done():
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Replace installs a new tree and returns its version.
func (c *Container) Replace(ctx context.Context, children []*Element) (int, error) {
	reply := make(chan int, 1)
	if err := c.send(ctx, Replace{Children: children, Reply: reply}); err != nil {
		return 0, err
	}
	return recv(ctx, c, reply)
}

// Join subscribes outbox to every render. The current snapshot is sent first,
// so outbox needs room for at least one value.
func (c *Container) Join(ctx context.Context, clientID string, outbox chan Snapshot) error {
	return c.send(ctx, Join{ClientID: clientID, Outbox: outbox})
}

// Leave unsubscribes clientID and closes its outbox.
func (c *Container) Leave(ctx context.Context, clientID string) error {
	return c.send(ctx, Leave{ClientID: clientID})
}

func (c *Container) State(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	if err := c.send(ctx, GetState{Reply: reply}); err != nil {
		return State{}, err
	}
	return recv(ctx, c, reply)
}

// Activate runs the handler registered under id in the current tree.
func (c *Container) Activate(ctx context.Context, id string) error {
	reply := make(chan Handler, 1)
	if err := c.send(ctx, Lookup{ID: id, Reply: reply}); err != nil {
		return err
	}
	h, err := recv(ctx, c, reply)
	if err != nil {
		return err
	}
	if h == nil {
		return ErrUnknownAction
	}
	// Handlers usually trigger a re-render, so they run outside the loop.
	return h(ctx)
}

// Close stops the loop and closes every subscriber outbox. It returns once the
// container no longer accepts messages.
func (c *Container) Close() {
	_ = c.send(context.Background(), Shutdown{})
	<-c.ctx.Done()
}
