package repository

import (
	"context"
	"sync"
)

// LikeRepository records directed "from liked to" edges
type LikeRepository interface {
	// Add records the edge. added is false when the edge was already present;
	// the check and the insert happen as one step.
	Add(ctx context.Context, fromUserID, toUserID string) (added bool, err error)
	// Exists reports whether the edge has been recorded
	Exists(ctx context.Context, fromUserID, toUserID string) (bool, error)
}

// LikeKey is the string key of a directed edge
func LikeKey(fromUserID, toUserID string) string {
	return fromUserID + "->" + toUserID
}

// InMemoryLikeRepository keeps edges for the life of the process. Edges are
// never removed.
type InMemoryLikeRepository struct {
	sync.RWMutex
	likes map[string]struct{}
}

// NewInMemoryLikeRepository creates an empty edge set
func NewInMemoryLikeRepository() *InMemoryLikeRepository {
	return &InMemoryLikeRepository{likes: make(map[string]struct{})}
}

func (r *InMemoryLikeRepository) Add(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	key := LikeKey(fromUserID, toUserID)

	r.Lock()
	defer r.Unlock()
	if _, ok := r.likes[key]; ok {
		return false, nil
	}
	r.likes[key] = struct{}{}
	return true, nil
}

func (r *InMemoryLikeRepository) Exists(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	r.RLock()
	defer r.RUnlock()
	_, ok := r.likes[LikeKey(fromUserID, toUserID)]
	return ok, nil
}

// Len returns the number of recorded edges
func (r *InMemoryLikeRepository) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.likes)
}
