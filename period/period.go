// Package period owns the rotation policy: which spreadsheet a
// completed submission lands in, and when a fresh one must be created.
package period

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/teampulse/pulsebot/catalog"
	"github.com/teampulse/pulsebot/log"
	"github.com/teampulse/pulsebot/model"
)

// Store is the slice of the tabular store the registry needs.
type Store interface {
	CreateTable(ctx context.Context, title string, header []string) (string, error)
	GrantAccess(ctx context.Context, sheetID, email, role string) error
	AppendRow(ctx context.Context, sheetID string, row []string) error
}

// Registry maps period numbers to spreadsheets. The mapping is persisted
// so past periods stay listable across restarts; the active period is
// cached in memory and guarded by the registry lock, which also makes
// concurrent staleness checks rotate at most once.
type Registry struct {
	mu        sync.Mutex
	db        *sql.DB
	store     Store
	catalog   *catalog.Catalog
	maxAge    time.Duration
	shareWith []string
	now       func() time.Time

	active *model.Period
}

func NewRegistry(db *sql.DB, store Store, c *catalog.Catalog, maxAge time.Duration, shareWith []string) (*Registry, error) {
	r := &Registry{
		db:        db,
		store:     store,
		catalog:   c,
		maxAge:    maxAge,
		shareWith: shareWith,
		now:       time.Now,
	}

	var p model.Period
	err := db.QueryRow(`
		SELECT number, sheet_id, created_at FROM period
		ORDER BY number DESC LIMIT 1`).
		Scan(&p.Number, &p.SheetID, &p.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// no period yet: the first submission or /newweek creates one
	case err != nil:
		return nil, errors.Wrap(err, "load active period")
	default:
		r.active = &p
	}

	return r, nil
}

// Active returns the current period, rotating first when none exists or
// the staleness threshold has passed. The check is lazy: it runs when a
// submission or operator command needs the period, never on a timer.
func (r *Registry) Active(ctx context.Context) (model.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil && r.now().Sub(r.active.CreatedAt) <= r.maxAge {
		return *r.active, nil
	}
	return r.rotateLocked(ctx)
}

// Rotate starts a new period immediately, stale or not.
func (r *Registry) Rotate(ctx context.Context) (model.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rotateLocked(ctx)
}

func (r *Registry) rotateLocked(ctx context.Context) (model.Period, error) {
	next := model.Period{Number: 1, CreatedAt: r.now()}
	if r.active != nil {
		next.Number = r.active.Number + 1
	}

	sheetID, err := r.store.CreateTable(ctx, next.Title(), model.Header(r.catalog.List()))
	if err != nil {
		return model.Period{}, err
	}
	next.SheetID = sheetID

	for _, email := range r.shareWith {
		if email == "" {
			continue
		}
		if err := r.store.GrantAccess(ctx, sheetID, email, "writer"); err != nil {
			return model.Period{}, err
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO period (number, sheet_id, created_at) VALUES (?, ?, ?)`,
		next.Number, next.SheetID, next.CreatedAt)
	if err != nil {
		return model.Period{}, errors.Wrap(err, "record period")
	}

	r.active = &next
	log.Infof("period.rotate: week %d -> sheet %s", next.Number, next.SheetID)
	return next, nil
}

// Current returns the cached active period without rotating. Reads
// (exports, admin queries) use this so they never spin up an empty
// sheet just by looking.
func (r *Registry) Current() (model.Period, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return model.Period{}, false
	}
	return *r.active, true
}

// Submit appends the submission as one row to the active period's
// sheet, rotating first if needed. Any failure leaves no trace in the
// registry; the caller keeps the session and retries.
func (r *Registry) Submit(ctx context.Context, sub model.Submission) error {
	p, err := r.Active(ctx)
	if err != nil {
		return err
	}
	return r.store.AppendRow(ctx, p.SheetID, sub.Row())
}

// List returns every recorded period in creation order.
func (r *Registry) List(ctx context.Context) ([]model.Period, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT number, sheet_id, created_at FROM period
		ORDER BY number`)
	if err != nil {
		return nil, errors.Wrap(err, "list periods")
	}
	defer rows.Close()

	var periods []model.Period
	for rows.Next() {
		var p model.Period
		if err := rows.Scan(&p.Number, &p.SheetID, &p.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan period")
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}
