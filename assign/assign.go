// Package assign selects the admin intermediary that newly created
// inquiries are routed to. Selection is a pluggable strategy so deployments
// can swap the policy without touching the inquiry engine.
package assign

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// ErrNoAdmin signals that no admin account exists to take the assignment.
var ErrNoAdmin = errors.New("assign: no admin user found")

// Querier is the subset of pgx query methods strategies need. Both
// pgxpool.Pool and pgx.Tx satisfy it, so a strategy can run inside the
// caller's transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Strategy picks the admin user an inquiry is assigned to.
type Strategy interface {
	Pick(ctx context.Context, q Querier) (string, error)
}

// FirstAvailable assigns every inquiry to the oldest admin account.
type FirstAvailable struct{}

func (FirstAvailable) Pick(ctx context.Context, q Querier) (string, error) {
	var adminID string
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE role = 'admin' ORDER BY created_at ASC LIMIT 1`).Scan(&adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoAdmin
		}
		return "", fmt.Errorf("assign: pick first admin: %w", err)
	}
	return adminID, nil
}

// RoundRobin rotates assignments across all admin accounts. The cursor is
// in-process only; a restart begins the rotation over, which is acceptable
// because assignment carries no fairness guarantee beyond spreading load.
type RoundRobin struct {
	mu   sync.Mutex
	next int
}

func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

func (r *RoundRobin) Pick(ctx context.Context, q Querier) (string, error) {
	rows, err := q.Query(ctx, `SELECT id FROM users WHERE role = 'admin' ORDER BY id ASC`)
	if err != nil {
		return "", fmt.Errorf("assign: list admins: %w", err)
	}
	defer rows.Close()

	var admins []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("assign: scan admin id: %w", err)
		}
		admins = append(admins, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("assign: iterate admins: %w", err)
	}
	if len(admins) == 0 {
		return "", ErrNoAdmin
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := admins[r.next%len(admins)]
	r.next++
	return id, nil
}

// FromName resolves a strategy by its configuration name.
func FromName(name string) (Strategy, error) {
	switch name {
	case "", "first_available":
		return FirstAvailable{}, nil
	case "round_robin":
		return NewRoundRobin(), nil
	default:
		return nil, fmt.Errorf("assign: unknown strategy %q", name)
	}
}
