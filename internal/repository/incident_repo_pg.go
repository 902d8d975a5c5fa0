package repository

import (
	"context"
	"errors"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IncidentRepository records payments the sweep observed stuck. At most one
// open incident exists per (payment_ref, kind); repeat observations bump
// last_seen_at instead of inserting.
type IncidentRepository interface {
	EnsureSchema(ctx context.Context) error
	OpenOrTouch(ctx context.Context, incident *domain.Incident) error
	Resolve(ctx context.Context, ref, resolution string) ([]domain.Incident, error)
	GetOpenByRef(ctx context.Context, ref string) (*domain.Incident, error)
	ListOpen(ctx context.Context) ([]domain.Incident, error)
	List(ctx context.Context, includeResolved bool) ([]domain.Incident, error)
}

type PGIncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) IncidentRepository {
	return &PGIncidentRepository{db: db}
}

// EnsureSchema creates the incidents table and the partial index that backs
// OpenOrTouch's upsert. Safe to run on every start.
func (r *PGIncidentRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS payment_incidents (
		id uuid PRIMARY KEY,
		payment_ref text NOT NULL,
		booking_id text NOT NULL DEFAULT '',
		kind text NOT NULL,
		payment_status text NOT NULL,
		age_minutes double precision NOT NULL,
		opened_at timestamptz NOT NULL DEFAULT now(),
		last_seen_at timestamptz NOT NULL DEFAULT now(),
		resolved_at timestamptz,
		resolution text NOT NULL DEFAULT ''
	)`)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS payment_incidents_open_key
		ON payment_incidents (payment_ref, kind) WHERE resolved_at IS NULL`)
	return err
}

func (r *PGIncidentRepository) OpenOrTouch(ctx context.Context, incident *domain.Incident) error {
	row := r.db.QueryRow(ctx, `INSERT INTO payment_incidents (id, payment_ref, booking_id, kind, payment_status, age_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (payment_ref, kind) WHERE resolved_at IS NULL
		DO UPDATE SET last_seen_at = now(), payment_status = EXCLUDED.payment_status, age_minutes = EXCLUDED.age_minutes
		RETURNING id, payment_ref, booking_id, kind, payment_status, age_minutes, opened_at, last_seen_at`,
		incident.ID, incident.PaymentRef, incident.BookingID, incident.Kind, incident.PaymentStatus, incident.AgeMinutes)
	return row.Scan(&incident.ID, &incident.PaymentRef, &incident.BookingID, &incident.Kind,
		&incident.PaymentStatus, &incident.AgeMinutes, &incident.OpenedAt, &incident.LastSeenAt)
}

// Resolve closes every open incident for ref and returns the closed rows so
// callers can report what recovered.
func (r *PGIncidentRepository) Resolve(ctx context.Context, ref, resolution string) ([]domain.Incident, error) {
	rows, err := r.db.Query(ctx, `UPDATE payment_incidents SET resolved_at = now(), resolution = $2
		WHERE payment_ref = $1 AND resolved_at IS NULL
		RETURNING id, payment_ref, booking_id, kind, payment_status, age_minutes, opened_at, last_seen_at, resolved_at, resolution`,
		ref, resolution)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIncidents(rows)
}

func (r *PGIncidentRepository) GetOpenByRef(ctx context.Context, ref string) (*domain.Incident, error) {
	row := r.db.QueryRow(ctx, `SELECT id, payment_ref, booking_id, kind, payment_status, age_minutes, opened_at, last_seen_at, resolved_at, resolution
		FROM payment_incidents WHERE payment_ref = $1 AND resolved_at IS NULL
		ORDER BY opened_at LIMIT 1`, ref)
	var inc domain.Incident
	if err := row.Scan(&inc.ID, &inc.PaymentRef, &inc.BookingID, &inc.Kind, &inc.PaymentStatus,
		&inc.AgeMinutes, &inc.OpenedAt, &inc.LastSeenAt, &inc.ResolvedAt, &inc.Resolution); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inc, nil
}

func (r *PGIncidentRepository) ListOpen(ctx context.Context) ([]domain.Incident, error) {
	rows, err := r.db.Query(ctx, `SELECT id, payment_ref, booking_id, kind, payment_status, age_minutes, opened_at, last_seen_at, resolved_at, resolution
		FROM payment_incidents WHERE resolved_at IS NULL ORDER BY opened_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIncidents(rows)
}

func (r *PGIncidentRepository) List(ctx context.Context, includeResolved bool) ([]domain.Incident, error) {
	if !includeResolved {
		return r.ListOpen(ctx)
	}
	rows, err := r.db.Query(ctx, `SELECT id, payment_ref, booking_id, kind, payment_status, age_minutes, opened_at, last_seen_at, resolved_at, resolution
		FROM payment_incidents ORDER BY opened_at DESC LIMIT 200`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIncidents(rows)
}

func scanIncidents(rows pgx.Rows) ([]domain.Incident, error) {
	var incidents []domain.Incident
	for rows.Next() {
		var inc domain.Incident
		if err := rows.Scan(&inc.ID, &inc.PaymentRef, &inc.BookingID, &inc.Kind, &inc.PaymentStatus,
			&inc.AgeMinutes, &inc.OpenedAt, &inc.LastSeenAt, &inc.ResolvedAt, &inc.Resolution); err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

var _ IncidentRepository = (*PGIncidentRepository)(nil)
