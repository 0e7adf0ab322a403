package render

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/DoyleJ11/room-status/internal/room"
	"github.com/DoyleJ11/room-status/internal/view"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Mutator is the part of the room client the layout's controls call.
type Mutator interface {
	AssignSeat(ctx context.Context, row, col int) error
	SetStatus(ctx context.Context, status room.Status) error
}

// RefreshFunc re-fetches and re-renders the layout right away.
type RefreshFunc func(ctx context.Context) error

// Policy covers behavior that differs between deployments of the room page.
type Policy struct {
	// AutoSetStatus, when set, is sent right after a successful seat assignment.
	AutoSetStatus *room.Status
}

type Renderer struct {
	client  Mutator
	refresh RefreshFunc
	policy  Policy
	log     *zap.Logger

	// one in-flight mutation per control
	flight singleflight.Group
}

func New(client Mutator, refresh RefreshFunc, policy Policy, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	if refresh == nil {
		refresh = func(context.Context) error { return nil }
	}
	return &Renderer{
		client:  client,
		refresh: refresh,
		policy:  policy,
		log:     log,
	}
}

func AssignActionID(row, col int) string {
	return fmt.Sprintf("assign-%d-%d", row, col)
}

func StatusActionID(s room.Status) string {
	return "status-" + string(s)
}

// Render replaces everything in container with the tree for grid.
func (r *Renderer) Render(ctx context.Context, grid room.Grid, viewer string, container *view.Container) error {
	children, _ := r.Build(grid, viewer)
	_, err := container.Replace(ctx, children)
	return err
}

// Build returns the element tree for grid and whether viewer holds a seat in it.
func (r *Renderer) Build(grid room.Grid, viewer string) ([]*view.Element, bool) {
	seated := false
	children := make([]*view.Element, 0, len(grid)+1)

	for rIndex, row := range grid {
		rowEl := view.Div("row")

		for cIndex, cell := range row {
			// wrapper so the student name sits below the cell
			wrapper := view.Div("cell-wrapper").
				SetData("row", strconv.Itoa(rIndex)).
				SetData("col", strconv.Itoa(cIndex))

			cellEl := view.Div("cell")
			nameEl := view.Div("student-name")

			if cell != nil {
				cellEl.AddClass("computer", cell.StatusClass())
				if raw, err := json.Marshal(cell); err == nil {
					cellEl.SetData("computer", string(raw))
				}
				nameEl.Text = cell.Name

				switch {
				case cell.OwnedBy(viewer):
					cellEl.AddClass("current")
					seated = true
				case cell.Unassigned():
					cellEl.AddClass("unassigned")
					cellEl.ID = AssignActionID(rIndex, cIndex)
					cellEl.OnClick = r.assignHandler(rIndex, cIndex)
				}
			}

			wrapper.Append(cellEl, nameEl)
			rowEl.Append(wrapper)
		}

		children = append(children, rowEl)
	}

	if seated {
		children = append(children, r.semaphore())
	}
	return children, seated
}

func (r *Renderer) semaphore() *view.Element {
	sem := view.Div("semaphore")
	for _, state := range room.Semaphore {
		ctrl := view.Div("semaphore-state", room.StatusClass(state))
		ctrl.ID = StatusActionID(state)
		ctrl.Title = state.Title()
		ctrl.OnClick = r.statusHandler(state)
		sem.Append(ctrl)
	}
	return sem
}

func (r *Renderer) assignHandler(row, col int) view.Handler {
	return func(ctx context.Context) error {
		return r.once(ctx, AssignActionID(row, col), func(ctx context.Context) error {
			if err := r.client.AssignSeat(ctx, row, col); err != nil {
				r.log.Warn("seat assignment failed", zap.Int("row", row), zap.Int("col", col), zap.Error(err))
				return err
			}
			if r.policy.AutoSetStatus != nil {
				if err := r.client.SetStatus(ctx, *r.policy.AutoSetStatus); err != nil {
					r.log.Warn("status update after assignment failed",
						zap.String("status", string(*r.policy.AutoSetStatus)), zap.Error(err))
					return err
				}
			}
			return nil
		})
	}
}

func (r *Renderer) statusHandler(state room.Status) view.Handler {
	return func(ctx context.Context) error {
		return r.once(ctx, StatusActionID(state), func(ctx context.Context) error {
			if err := r.client.SetStatus(ctx, state); err != nil {
				r.log.Warn("status update failed", zap.String("status", string(state)), zap.Error(err))
				return err
			}
			return nil
		})
	}
}

// once runs mutate followed by a refresh, sharing the run with any activation
// of the same control that arrives while it is in flight. The refresh happens
// even when mutate fails so the view shows the backend's actual state.
// The shared run is detached from the caller that started it, so a
// disconnecting first caller cannot fail the callers that joined it.
func (r *Renderer) once(ctx context.Context, key string, mutate func(context.Context) error) error {
	work := context.WithoutCancel(ctx)
	_, err, shared := r.flight.Do(key, func() (any, error) {
		mutErr := mutate(work)
		if err := r.refresh(work); err != nil {
			r.log.Debug("refresh after activation failed", zap.String("action", key), zap.Error(err))
		}
		return nil, mutErr
	})
	if shared {
		r.log.Debug("activation joined in-flight request", zap.String("action", key))
	}
	return err
}
