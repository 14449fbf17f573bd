package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/sipplan/internal/domain"
)

// Repository defines persistent storage for goals.
type Repository interface {
	Create(ctx context.Context, g domain.FinancialGoal) (domain.FinancialGoal, error)
	Get(ctx context.Context, id int64) (domain.FinancialGoal, error)
	List(ctx context.Context, status domain.GoalStatus) ([]domain.FinancialGoal, error)
	Update(ctx context.Context, g domain.FinancialGoal) error
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL goal repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const goalColumns = `id, name, target_amount, current_amount, target_date,
	monthly_contribution, expected_returns_percent, status, achieved_date, created_at`

func scanGoal(row pgx.Row) (domain.FinancialGoal, error) {
	var g domain.FinancialGoal
	var status string
	err := row.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate,
		&g.MonthlyContribution, &g.ExpectedReturnsPercent, &status, &g.AchievedDate, &g.CreatedAt)
	g.Status = domain.GoalStatus(status)
	return g, err
}

func (r *PgRepository) Create(ctx context.Context, g domain.FinancialGoal) (domain.FinancialGoal, error) {
	created, err := scanGoal(r.pool.QueryRow(ctx,
		`INSERT INTO goals (name, target_amount, current_amount, target_date,
		                    monthly_contribution, expected_returns_percent, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+goalColumns,
		g.Name, g.TargetAmount, g.CurrentAmount, g.TargetDate,
		g.MonthlyContribution, g.ExpectedReturnsPercent, string(g.Status)))
	if err != nil {
		return domain.FinancialGoal{}, fmt.Errorf("creating goal: %w", err)
	}
	return created, nil
}

func (r *PgRepository) Get(ctx context.Context, id int64) (domain.FinancialGoal, error) {
	g, err := scanGoal(r.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FinancialGoal{}, fmt.Errorf("goal %d: %w", id, domain.ErrNotFound)
		}
		return domain.FinancialGoal{}, fmt.Errorf("getting goal %d: %w", id, err)
	}
	return g, nil
}

// List returns goals ordered by target date. An empty status returns every goal.
func (r *PgRepository) List(ctx context.Context, status domain.GoalStatus) ([]domain.FinancialGoal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+goalColumns+`
		 FROM goals
		 WHERE $1::text = '' OR status = $1::text
		 ORDER BY target_date, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.FinancialGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}
	return goals, nil
}

func (r *PgRepository) Update(ctx context.Context, g domain.FinancialGoal) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE goals
		 SET name = $2, target_amount = $3, current_amount = $4, target_date = $5,
		     monthly_contribution = $6, expected_returns_percent = $7,
		     status = $8, achieved_date = $9
		 WHERE id = $1`,
		g.ID, g.Name, g.TargetAmount, g.CurrentAmount, g.TargetDate,
		g.MonthlyContribution, g.ExpectedReturnsPercent, string(g.Status), g.AchievedDate)
	if err != nil {
		return fmt.Errorf("updating goal %d: %w", g.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("goal %d: %w", g.ID, domain.ErrNotFound)
	}
	return nil
}
