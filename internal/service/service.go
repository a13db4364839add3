// Package service holds helpers shared by the per-entity services.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/repository"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

// Clock returns the current time. Services hold one so tests can pin it.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now().UTC() }

// Wrap maps repository.ErrNotFound onto a typed NotFound naming entity.
// AppErrors pass through; anything else is wrapped with the failed action.
func Wrap(err error, entity, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(entity)
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return fmt.Errorf("failed to %s %s: %w", action, strings.ToLower(entity), err)
}

// ParseID parses a uuid from request input.
func ParseID(s, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperrors.BadRequest(fmt.Sprintf("invalid %s", field), err)
	}
	return id, nil
}

// ParseOptionalID is ParseID for optional fields. Nil and empty stay nil.
func ParseOptionalID(s *string, field string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := ParseID(*s, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// CollectIDs gathers the distinct non-nil ids picked from items.
func CollectIDs[T any](items []T, pick func(T) *uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id := pick(item)
		if id == nil || *id == uuid.Nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	return ids
}

// Index keys records by id.
func Index[T interface{ Key() uuid.UUID }](items []T) map[uuid.UUID]T {
	out := make(map[uuid.UUID]T, len(items))
	for _, item := range items {
		out[item.Key()] = item
	}
	return out
}

// Lookup returns m[*id], or the zero value when id is nil.
func Lookup[T any](m map[uuid.UUID]T, id *uuid.UUID) T {
	var zero T
	if id == nil {
		return zero
	}
	return m[*id]
}

// Ref returns a pointer to id, for optional foreign keys.
func Ref(id uuid.UUID) *uuid.UUID { return &id }
