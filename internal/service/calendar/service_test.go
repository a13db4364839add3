package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

func TestCreate(t *testing.T) {
	svc := NewService(memory.NewStore())
	ctx := context.Background()
	orgID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, orgID, &model.CreateEventRequest{
		Title: "Showing", Type: model.EventTypeShowing, StartTime: start, EndTime: start.Add(-time.Hour),
	})
	assert.True(t, errors.Is(err, apperrors.BadRequestErr))

	e, err := svc.Create(ctx, orgID, &model.CreateEventRequest{
		Title: "Showing", Type: model.EventTypeShowing, StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusScheduled, e.Status)

	from, to := start.Add(30*time.Minute), start.Add(48*time.Hour)
	events, err := svc.List(ctx, orgID, model.CalendarFilter{DateRange: model.DateRange{From: &from, To: &to}})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	done, err := svc.Complete(ctx, orgID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusCompleted, done.Status)

	_, err = svc.Cancel(ctx, orgID, e.ID)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))
}
