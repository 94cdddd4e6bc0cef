// Package profilecache keeps a process-wide read-through cache of user
// display data (name and profile photo). It is populated once by a bulk
// fetch; concurrent first callers share the single in-flight load instead of
// issuing duplicate fetches.
package profilecache

import (
	"context"
	"sync"

	"github.com/jainrajat254/projecthub-backend/pkg/repository"
)

const (
	// FallbackName is returned for any user missing from the cache.
	FallbackName = "Unknown User"
	// FallbackPhotoID is the default avatar.
	FallbackPhotoID = 1
)

// Entry is the cached display data for one user.
type Entry struct {
	Name    string
	PhotoID int
}

type loadState int

const (
	notLoaded loadState = iota
	loading
	loaded
)

type Cache struct {
	users    repository.UserRepo
	profiles repository.ProfileRepo

	mu      sync.Mutex
	state   loadState
	done    chan struct{}
	loadErr error
	entries map[string]Entry
}

func New(users repository.UserRepo, profiles repository.ProfileRepo) *Cache {
	return &Cache{users: users, profiles: profiles}
}

// Preload ensures the cache is populated. The first caller performs the bulk
// fetch; callers arriving while the fetch is in flight wait for it rather
// than starting their own. A failed load resets the cache so a later call
// retries.
func (c *Cache) Preload(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case loaded:
		c.mu.Unlock()
		return nil
	case loading:
		done := c.done
		c.mu.Unlock()
		select {
		case <-done:
			c.mu.Lock()
			err := c.loadErr
			c.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.state = loading
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	entries, err := c.fetch(ctx)

	c.mu.Lock()
	c.loadErr = err
	if err != nil {
		c.state = notLoaded
	} else {
		c.state = loaded
		c.entries = entries
	}
	c.mu.Unlock()
	close(done)

	return err
}

func (c *Cache) fetch(ctx context.Context) (map[string]Entry, error) {
	users, err := c.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(users))
	for _, u := range users {
		e := Entry{Name: u.Name, PhotoID: FallbackPhotoID}
		if e.Name == "" {
			e.Name = FallbackName
		}
		p, err := c.profiles.GetByUserID(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if p != nil && p.ProfilePhotoID > 0 {
			e.PhotoID = p.ProfilePhotoID
		}
		entries[u.ID] = e
	}
	return entries, nil
}

// GetUserName returns the cached display name, falling back on a cache miss.
func (c *Cache) GetUserName(userID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[userID]; ok {
		return e.Name
	}
	return FallbackName
}

// GetProfilePhotoID returns the cached photo id, falling back on a miss.
func (c *Cache) GetProfilePhotoID(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[userID]; ok {
		return e.PhotoID
	}
	return FallbackPhotoID
}
