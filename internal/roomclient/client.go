package roomclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/DoyleJ11/room-status/internal/room"
	"github.com/DoyleJ11/room-status/pkg/types"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrTransientFetch = errors.New("room backend unavailable")

// Client talks to the room backend. It keeps no room state of its own.
type Client struct {
	http   *resty.Client
	roomID string
	logger *zap.Logger
}

type Options struct {
	BaseURL string
	RoomID  string // empty selects the backend's default room
	Timeout time.Duration
}

func New(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   http,
		roomID: opts.RoomID,
		logger: logger,
	}
}

func (c *Client) layoutPath() string {
	if c.roomID == "" {
		return "/api/room"
	}
	return "/api/room/" + url.PathEscape(c.roomID)
}

// FetchLayout returns the current grid snapshot.
func (c *Client) FetchLayout(ctx context.Context) (room.Grid, error) {
	path := c.layoutPath()

	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		c.logger.Debug("fetch layout failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: GET %s: %v", ErrTransientFetch, path, err)
	}
	if !resp.IsSuccess() {
		c.logger.Debug("fetch layout rejected",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("%w: GET %s: %s", ErrTransientFetch, path, resp.Status())
	}

	grid, err := room.ParseGrid(resp.Body())
	if err != nil {
		return nil, err
	}
	return grid, nil
}

// AssignSeat asks the backend to give the viewer the computer at (row, col).
// The result is only visible on the next fetch.
func (c *Client) AssignSeat(ctx context.Context, row, col int) error {
	c.logger.Info("assigning seat", zap.Int("row", row), zap.Int("col", col))
	return c.post(ctx, "/api/room/assign", types.AssignRequest{Row: row, Col: col})
}

// SetStatus records a status for the viewer's seat. The backend rejects it when
// the viewer holds no seat.
func (c *Client) SetStatus(ctx context.Context, status room.Status) error {
	c.logger.Info("setting status", zap.String("status", string(status)))
	return c.post(ctx, "/api/room/status", types.StatusRequest{Status: string(status)})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		c.logger.Error("room backend call failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: POST %s: %v", ErrTransientFetch, path, err)
	}
	if !resp.IsSuccess() {
		c.logger.Error("room backend returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return fmt.Errorf("%w: POST %s: %s", ErrTransientFetch, path, resp.Status())
	}
	return nil
}
