package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xqrs/pullview"
	"github.com/xqrs/pullview/help"
	"github.com/xqrs/pullview/internal/config"
	"github.com/xqrs/pullview/internal/feed"
	"github.com/xqrs/pullview/pull"
	"golang.org/x/sync/errgroup"
)

type demo struct {
	app    *pullview.Application
	list   *pullview.PullList
	status *statusBar
	root   *layout
	feed   *feed.Feed
	logger *slog.Logger

	// Touched on the event goroutine only.
	items []feed.Item

	ctx   context.Context
	group *errgroup.Group
}

func newDemo(cfg *config.Config, logger *slog.Logger) *demo {
	d := &demo{
		app:    pullview.NewApplication().SetLogger(logger),
		status: newStatusBar(),
		logger: logger,
		feed: feed.New(feed.Options{
			PageSize:  cfg.PageSize,
			MaxPages:  cfg.MaxPages,
			Latency:   cfg.Latency.Duration,
			FailEvery: cfg.FailEvery,
		}),
	}

	d.list = pullview.NewPullList(
		pull.WithLoadMode(cfg.LoadMode),
		pull.WithThreshold(cfg.Threshold),
		pull.WithLabelLayout(cfg.LabelLayout),
		pull.WithNoMoreDataLabel(cfg.NoMoreData),
		pull.WithLogger(logger),
	)
	d.list.SetBorders(pullview.BordersAll)
	d.list.SetTitle(" feed ")
	d.list.SetScrollBarVisible(cfg.ScrollBar)
	d.list.List().SetBuilder(d.buildRow)
	d.list.SetRefreshFunc(d.onRefresh, d.onRejected)
	d.list.SetLoadMoreFunc(d.onLoadMore, d.onRejected)
	d.list.SetScrollFunc(d.status.SetPosition)

	h := help.New()
	d.root = newLayout(d.list, d.status, h)
	h.SetKeyMap(d.root)
	d.status.SetMode(cfg.LoadMode)
	d.root.onToggleMode = func(mode pull.LoadMode) {
		d.logger.Info("load mode changed", "load_mode", mode.String())
		d.status.SetMode(mode)
	}
	return d
}

// run drives the UI until the user quits or ctx is cancelled. Fetches run on
// the same group so that they are waited for on exit.
func (d *demo) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	d.ctx, d.group = ctx, g

	d.app.SetRoot(d.root)
	g.Go(func() error {
		defer cancel()
		return d.app.Run()
	})
	g.Go(func() error {
		<-ctx.Done()
		d.app.Stop()
		return nil
	})
	g.Go(func() error {
		d.app.QueueUpdateDraw(func() {
			if err := d.list.Refresh(); err != nil {
				d.status.SetError(err)
				return
			}
			d.app.Execute(d.list.Animate())
		})
		return nil
	})
	return g.Wait()
}

func (d *demo) buildRow(index, cursor int) pullview.ListItem {
	if index < 0 || index >= len(d.items) {
		return nil
	}
	return newRow(d.items[index], index == cursor)
}

func (d *demo) onRefresh() {
	d.status.SetError(nil)
	d.group.Go(func() error {
		items, more, err := d.feed.Refresh(d.ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		d.app.QueueUpdateDraw(func() {
			if err != nil {
				d.logger.Warn("refresh failed", "error", err)
				d.status.SetError(err)
				d.list.RefreshCompleted()
				return
			}
			d.logger.Debug("refreshed", "items", len(items), "more", more)
			d.items = items
			d.list.List().SetCursor(0).ScrollToStart()
			d.list.RefreshCompleted()
			d.list.LoadMoreCompleted(more)
		})
		return nil
	})
}

func (d *demo) onLoadMore() {
	d.status.SetError(nil)
	d.group.Go(func() error {
		items, more, err := d.feed.Next(d.ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		d.app.QueueUpdateDraw(func() {
			if err != nil {
				d.logger.Warn("load more failed", "error", err)
				d.status.SetError(err)
				d.list.LoadMoreCompleted(true)
				return
			}
			d.logger.Debug("loaded more", "items", len(items), "more", more)
			d.items = append(d.items, items...)
			d.list.LoadMoreCompleted(more)
		})
		return nil
	})
}

func (d *demo) onRejected(code pull.ErrorCode) {
	d.logger.Info("trigger rejected", "error", code.Error())
	d.status.SetError(code)
}
