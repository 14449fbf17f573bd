// Package plan stores named auto-invest plans and projects them.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/sipplan/internal/domain"
)

// Plan is a saved set of contribution streams sharing one step-up policy and horizon.
type Plan struct {
	ID           int64                       `json:"id"`
	Name         string                      `json:"name"`
	Streams      []domain.ContributionStream `json:"streams"`
	Policy       domain.StepUpPolicy         `json:"stepUp"`
	HorizonYears int                         `json:"horizonYears"`
	CreatedAt    time.Time                   `json:"createdAt"`
}

// Repository defines persistent storage for plans.
type Repository interface {
	Create(ctx context.Context, p Plan) (Plan, error)
	Get(ctx context.Context, id int64) (Plan, error)
	List(ctx context.Context, limit int) ([]Plan, error)
	Delete(ctx context.Context, id int64) error
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL plan repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const planColumns = `id, name, streams, step_up, horizon_years, created_at`

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	var streams, policy []byte
	if err := row.Scan(&p.ID, &p.Name, &streams, &policy, &p.HorizonYears, &p.CreatedAt); err != nil {
		return Plan{}, err
	}
	if err := json.Unmarshal(streams, &p.Streams); err != nil {
		return Plan{}, fmt.Errorf("decoding streams of plan %d: %w", p.ID, err)
	}
	if err := json.Unmarshal(policy, &p.Policy); err != nil {
		return Plan{}, fmt.Errorf("decoding step-up of plan %d: %w", p.ID, err)
	}
	return p, nil
}

func (r *PgRepository) Create(ctx context.Context, p Plan) (Plan, error) {
	streams, err := json.Marshal(p.Streams)
	if err != nil {
		return Plan{}, fmt.Errorf("marshaling streams: %w", err)
	}
	policy, err := json.Marshal(p.Policy)
	if err != nil {
		return Plan{}, fmt.Errorf("marshaling step-up: %w", err)
	}

	created, err := scanPlan(r.pool.QueryRow(ctx,
		`INSERT INTO plans (name, streams, step_up, horizon_years)
		 VALUES ($1, $2::jsonb, $3::jsonb, $4)
		 RETURNING `+planColumns,
		p.Name, streams, policy, p.HorizonYears))
	if err != nil {
		return Plan{}, fmt.Errorf("creating plan: %w", err)
	}
	return created, nil
}

func (r *PgRepository) Get(ctx context.Context, id int64) (Plan, error) {
	p, err := scanPlan(r.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, fmt.Errorf("plan %d: %w", id, domain.ErrNotFound)
		}
		return Plan{}, fmt.Errorf("getting plan %d: %w", id, err)
	}
	return p, nil
}

// List returns plans oldest first. A non-positive limit returns every plan.
func (r *PgRepository) List(ctx context.Context, limit int) ([]Plan, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+planColumns+`
		 FROM plans
		 ORDER BY id
		 LIMIT $1`, lim)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting plan %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
