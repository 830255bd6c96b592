// Package memory is a process-local store used by tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	pictures map[uuid.UUID]entity.Picture
	statuses map[uuid.UUID]entity.Status
	byPic    map[uuid.UUID]uuid.UUID
}

func New() *Store {
	return &Store{
		pictures: make(map[uuid.UUID]entity.Picture),
		statuses: make(map[uuid.UUID]entity.Status),
		byPic:    make(map[uuid.UUID]uuid.UUID),
	}
}

type PictureRepo struct{ s *Store }

type StatusRepo struct{ s *Store }

func (s *Store) Pictures() *PictureRepo { return &PictureRepo{s} }

func (s *Store) Statuses() *StatusRepo { return &StatusRepo{s} }

// Counts reports how many records are stored.
func (s *Store) Counts() (pictures, statuses int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.pictures), len(s.statuses)
}

func (r *PictureRepo) Insert(_ context.Context, picture *entity.Picture) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pictures[picture.ID]; ok {
		return fmt.Errorf("PictureRepo - Insert: %w", errs.ErrConflict)
	}
	r.s.pictures[picture.ID] = *picture

	return nil
}

func (r *PictureRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Picture, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	picture, ok := r.s.pictures[id]
	if !ok {
		return nil, fmt.Errorf("PictureRepo - FindByID: %w", errs.ErrRecordNotFound)
	}

	return &picture, nil
}

func (r *PictureRepo) FindOrphans(_ context.Context, createdBefore time.Time, limit int) ([]*entity.Picture, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Picture
	for id, picture := range r.s.pictures {
		if _, ok := r.s.byPic[id]; ok || !picture.CreatedAt.Before(createdBefore) {
			continue
		}
		p := picture
		out = append(out, &p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *StatusRepo) Insert(_ context.Context, status *entity.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.statuses[status.ID]; ok {
		return fmt.Errorf("StatusRepo - Insert: %w", errs.ErrConflict)
	}
	if _, ok := r.s.byPic[status.PictureID]; ok {
		return fmt.Errorf("StatusRepo - Insert: %w", errs.ErrConflict)
	}
	r.s.statuses[status.ID] = *status
	r.s.byPic[status.PictureID] = status.ID

	return nil
}

func (r *StatusRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Status, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	status, ok := r.s.statuses[id]
	if !ok {
		return nil, fmt.Errorf("StatusRepo - FindByID: %w", errs.ErrRecordNotFound)
	}

	return &status, nil
}

func (r *StatusRepo) FindAndUpdateAuthorised(
	_ context.Context,
	id uuid.UUID,
	authorised bool,
	updatedAt time.Time,
) (*entity.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	status, ok := r.s.statuses[id]
	if !ok {
		return nil, fmt.Errorf("StatusRepo - FindAndUpdateAuthorised: %w", errs.ErrRecordNotFound)
	}

	status.Authorised = authorised
	status.UpdatedAt = &updatedAt
	r.s.statuses[id] = status

	return &status, nil
}
