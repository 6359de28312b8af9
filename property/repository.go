package property

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles data access for the property registry.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Property, error)
	GetByID(ctx context.Context, propertyID string) (Property, error)
	List(ctx context.Context, filters Filters) ([]Property, error)
	UpdateStatus(ctx context.Context, propertyID string, status Status, approvedBy string, approvedAt time.Time) (Property, error)
}

// PGRepository implements Repository backed by PostgreSQL. Nested address,
// details and image documents live in jsonb columns.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const propertyQuery = `
SELECT p.id, p.title, p.description, p.property_type, p.transaction_type, p.price, p.currency,
       p.status, p.address, p.details, p.features, p.amenities, p.images,
       p.seller_id, p.approved_by, p.approved_at, p.created_at, p.updated_at,
       s.email, s.first_name, s.last_name,
       a.email, a.first_name, a.last_name
FROM properties p
JOIN users s ON s.id = p.seller_id
LEFT JOIN users a ON a.id = p.approved_by
`

func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Property, error) {
	address, err := json.Marshal(params.Address)
	if err != nil {
		return Property{}, fmt.Errorf("property: marshal address: %w", err)
	}
	details, err := json.Marshal(params.Details)
	if err != nil {
		return Property{}, fmt.Errorf("property: marshal details: %w", err)
	}
	images, err := json.Marshal(imagesOrEmpty(params.Images))
	if err != nil {
		return Property{}, fmt.Errorf("property: marshal images: %w", err)
	}

	const insertSQL = `
        INSERT INTO properties (title, description, property_type, transaction_type, price, currency,
            status, address, details, features, amenities, images, seller_id)
        VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7::jsonb, $8::jsonb, $9, $10, $11::jsonb, $12)
        RETURNING id
    `

	var id string
	if err := r.pool.QueryRow(ctx, insertSQL,
		params.Title,
		params.Description,
		params.PropertyType,
		params.TransactionType,
		params.Price,
		params.Currency,
		address,
		details,
		featuresOrEmpty(params.Features),
		featuresOrEmpty(params.Amenities),
		images,
		params.SellerID,
	).Scan(&id); err != nil {
		return Property{}, fmt.Errorf("property: insert: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *PGRepository) GetByID(ctx context.Context, propertyID string) (Property, error) {
	prop, err := scanProperty(r.pool.QueryRow(ctx, propertyQuery+` WHERE p.id = $1`, propertyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, fmt.Errorf("property: get by id: %w", err)
	}
	return prop, nil
}

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Property, error) {
	where := []string{"1=1"}
	args := []any{}

	if filters.Status != "" {
		where = append(where, fmt.Sprintf("p.status=$%d", len(args)+1))
		args = append(args, filters.Status)
	}
	if filters.SellerID != "" {
		where = append(where, fmt.Sprintf("p.seller_id=$%d", len(args)+1))
		args = append(args, filters.SellerID)
	}
	if filters.City != "" {
		where = append(where, fmt.Sprintf("p.address->>'city' ILIKE $%d", len(args)+1))
		args = append(args, "%"+filters.City+"%")
	}
	if filters.PropertyType != "" {
		where = append(where, fmt.Sprintf("p.property_type=$%d", len(args)+1))
		args = append(args, filters.PropertyType)
	}
	if filters.TransactionType != "" {
		where = append(where, fmt.Sprintf("p.transaction_type=$%d", len(args)+1))
		args = append(args, filters.TransactionType)
	}
	if filters.MinPrice != nil {
		where = append(where, fmt.Sprintf("p.price >= $%d", len(args)+1))
		args = append(args, *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		where = append(where, fmt.Sprintf("p.price <= $%d", len(args)+1))
		args = append(args, *filters.MaxPrice)
	}

	query := propertyQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY p.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("property: list: %w", err)
	}
	defer rows.Close()

	properties := []Property{}
	for rows.Next() {
		prop, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("property: scan: %w", err)
		}
		properties = append(properties, prop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("property: iterate: %w", err)
	}

	return properties, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, propertyID string, status Status, approvedBy string, approvedAt time.Time) (Property, error) {
	const updateSQL = `
        UPDATE properties
        SET status = $2,
            approved_by = $3,
            approved_at = $4,
            updated_at = $4
        WHERE id = $1
        RETURNING id
    `

	var id string
	if err := r.pool.QueryRow(ctx, updateSQL, propertyID, status, approvedBy, approvedAt).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, fmt.Errorf("property: update status: %w", err)
	}

	return r.GetByID(ctx, id)
}

func scanProperty(row pgx.Row) (Property, error) {
	var (
		prop          Property
		address       []byte
		details       []byte
		images        []byte
		approvedBy    *string
		approvedAt    *time.Time
		approverEmail *string
		approverFirst *string
		approverLast  *string
	)
	err := row.Scan(
		&prop.ID,
		&prop.Title,
		&prop.Description,
		&prop.PropertyType,
		&prop.TransactionType,
		&prop.Price,
		&prop.Currency,
		&prop.Status,
		&address,
		&details,
		&prop.Features,
		&prop.Amenities,
		&images,
		&prop.SellerID,
		&approvedBy,
		&approvedAt,
		&prop.CreatedAt,
		&prop.UpdatedAt,
		&prop.Seller.Email,
		&prop.Seller.FirstName,
		&prop.Seller.LastName,
		&approverEmail,
		&approverFirst,
		&approverLast,
	)
	if err != nil {
		return Property{}, err
	}

	if err := json.Unmarshal(address, &prop.Address); err != nil {
		return Property{}, fmt.Errorf("property: decode address: %w", err)
	}
	if err := json.Unmarshal(details, &prop.Details); err != nil {
		return Property{}, fmt.Errorf("property: decode details: %w", err)
	}
	if err := json.Unmarshal(images, &prop.Images); err != nil {
		return Property{}, fmt.Errorf("property: decode images: %w", err)
	}

	prop.Seller.ID = prop.SellerID
	prop.ApprovedBy = approvedBy
	prop.ApprovedAt = approvedAt
	if approvedBy != nil && approverEmail != nil {
		prop.Approver = &UserSummary{
			ID:        *approvedBy,
			Email:     *approverEmail,
			FirstName: stringOrEmpty(approverFirst),
			LastName:  stringOrEmpty(approverLast),
		}
	}

	return prop, nil
}

func imagesOrEmpty(images []Image) []Image {
	if images == nil {
		return []Image{}
	}
	return images
}

func featuresOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
