package favorite

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrDuplicate signals the (user, property) pair already exists.
	ErrDuplicate = errors.New("favorite: already favorited")
	// ErrNotFound signals the pair (or referenced property) is absent.
	ErrNotFound = errors.New("favorite: not found")
	// ErrPropertyNotFound signals the property does not exist.
	ErrPropertyNotFound = errors.New("favorite: property not found")
)

// Repository handles data access for the favorites ledger.
type Repository interface {
	Add(ctx context.Context, userID, propertyID string) (Record, error)
	Remove(ctx context.Context, userID, propertyID string) error
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	Exists(ctx context.Context, userID, propertyID string) (bool, error)
}

// PGRepository implements Repository backed by PostgreSQL. The unique
// (user_id, property_id) index enforces pair membership.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const recordQuery = `
SELECT f.id, f.user_id, f.property_id, f.created_at,
       p.title, p.price, p.status, p.address->>'city'
FROM favorites f
JOIN properties p ON p.id = f.property_id
`

func (r *PGRepository) Add(ctx context.Context, userID, propertyID string) (Record, error) {
	const insertSQL = `
        INSERT INTO favorites (user_id, property_id)
        VALUES ($1, $2)
        RETURNING id
    `

	var id string
	if err := r.pool.QueryRow(ctx, insertSQL, userID, propertyID).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Record{}, ErrDuplicate
			case "23503":
				return Record{}, ErrPropertyNotFound
			}
		}
		return Record{}, fmt.Errorf("favorite: add: %w", err)
	}

	rec, err := scanRecord(r.pool.QueryRow(ctx, recordQuery+` WHERE f.id = $1`, id))
	if err != nil {
		return Record{}, fmt.Errorf("favorite: read back: %w", err)
	}
	return rec, nil
}

func (r *PGRepository) Remove(ctx context.Context, userID, propertyID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND property_id = $2`, userID, propertyID)
	if err != nil {
		return fmt.Errorf("favorite: remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	rows, err := r.pool.Query(ctx, recordQuery+` WHERE f.user_id = $1 ORDER BY f.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("favorite: list: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("favorite: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("favorite: iterate: %w", err)
	}
	return records, nil
}

func (r *PGRepository) Exists(ctx context.Context, userID, propertyID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND property_id = $2)`,
		userID, propertyID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("favorite: exists: %w", err)
	}
	return exists, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.PropertyID,
		&rec.CreatedAt,
		&rec.Property.Title,
		&rec.Property.Price,
		&rec.Property.Status,
		&rec.Property.City,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Property.ID = rec.PropertyID
	return rec, nil
}
