package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/pkg/logger"
)

type OrganizationLister interface {
	List(ctx context.Context) ([]*model.Organization, error)
}

type OverdueMarker interface {
	MarkOverdue(ctx context.Context, orgID uuid.UUID) (int, error)
}

// OverdueSweeper periodically flips past-due invoices to overdue in every
// organization.
type OverdueSweeper struct {
	orgs     OrganizationLister
	invoices OverdueMarker
	interval time.Duration
	logger   *logger.Logger
}

func NewOverdueSweeper(orgs OrganizationLister, invoices OverdueMarker, interval time.Duration, log *logger.Logger) *OverdueSweeper {
	if interval <= 0 {
		panic("interval must be greater than 0")
	}
	return &OverdueSweeper{
		orgs:     orgs,
		invoices: invoices,
		interval: interval,
		logger:   log,
	}
}

// Start sweeps once immediately, then on every tick until ctx is done.
func (w *OverdueSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("starting overdue sweeper", "interval", w.interval.String())

	for {
		if _, err := w.Sweep(ctx); err != nil {
			w.logger.Error(err, "overdue sweep failed")
		}

		select {
		case <-ctx.Done():
			w.logger.Info("overdue sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

// Sweep runs one pass and returns how many invoices were marked. A failing
// organization is logged and skipped.
func (w *OverdueSweeper) Sweep(ctx context.Context) (int, error) {
	orgs, err := w.orgs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list organizations: %w", err)
	}

	total := 0
	for _, org := range orgs {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		n, err := w.invoices.MarkOverdue(ctx, org.ID)
		if err != nil {
			w.logger.Error(err, "failed to mark overdue invoices", "organization_id", org.ID.String())
			continue
		}
		if n > 0 {
			w.logger.Info("marked invoices overdue", "organization_id", org.ID.String(), "count", n)
		}
		total += n
	}
	return total, nil
}
