package client

import (
	"context"
	"net/http"
	"nihongo_backend/internal/aggregate"
	"nihongo_backend/internal/model"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// bookmarkFetchLimit bounds the per-user bookmark requests a teacher load makes.
const bookmarkFetchLimit = 4

// LoadSnapshot fetches every collection concurrently and aggregates them.
// Students get their own bookmarks; teachers and admins get everyone's,
// fetched per user once the user list is known. Any failed fetch fails the
// whole load.
func (c *Client) LoadSnapshot(ctx context.Context) (aggregate.Snapshot, error) {
	username, role := c.Identity()

	var coll aggregate.Collections
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		coll.Lessons, err = c.ListLessons(gctx)
		return err
	})
	g.Go(func() (err error) {
		coll.Users, err = c.ListUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		coll.Results, err = c.ListResults(gctx)
		return err
	})
	g.Go(func() (err error) {
		coll.Activities, err = c.ListActivities(gctx)
		return err
	})
	if role == model.Student && username != "" {
		g.Go(func() (err error) {
			coll.Bookmarks, err = c.Bookmarks(gctx, username)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return aggregate.Snapshot{}, err
	}

	if role == model.Teacher || role == model.Admin {
		byUser, err := c.bookmarksByUser(ctx, coll.Users)
		if err != nil {
			return aggregate.Snapshot{}, err
		}
		coll.Bookmarks = aggregate.FlattenBookmarks(byUser)
	}

	return aggregate.Build(coll, time.Now()), nil
}

func (c *Client) bookmarksByUser(ctx context.Context, users []model.User) (map[string][]model.Bookmark, error) {
	var mu sync.Mutex
	byUser := make(map[string][]model.Bookmark, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bookmarkFetchLimit)
	for _, u := range users {
		name := u.Username
		g.Go(func() error {
			list, err := c.Bookmarks(gctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			byUser[name] = list
			mu.Unlock()
			return nil
		})
	}
	return byUser, g.Wait()
}

// Dashboard fetches the snapshot the server aggregated itself.
func (c *Client) Dashboard(ctx context.Context) (aggregate.Snapshot, error) {
	var snap aggregate.Snapshot
	_, err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &snap)
	return snap, err
}
