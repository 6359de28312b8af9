package inquiry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements Repository backed by PostgreSQL. Mutations run on
// the transaction supplied by the service; reads go through the pool.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// LockProperty reads the property referenced by a new inquiry under a row
// lock so its seller cannot change before the insert commits.
func (r *PGRepository) LockProperty(ctx context.Context, tx pgx.Tx, propertyID string) (PropertyRef, error) {
	const q = `SELECT id, seller_id FROM properties WHERE id = $1 FOR UPDATE`

	var ref PropertyRef
	if err := tx.QueryRow(ctx, q, propertyID).Scan(&ref.ID, &ref.SellerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PropertyRef{}, ErrPropertyNotFound
		}
		return PropertyRef{}, fmt.Errorf("inquiry: lock property: %w", err)
	}
	return ref, nil
}

const inquiryColumns = `id, property_id, buyer_id, seller_id, original_seller_id, message,
       inquiry_type, contact_preference, status, admin_note, response_message, response_date,
       created_at, updated_at`

// Insert creates the inquiry row inside the caller's transaction.
func (r *PGRepository) Insert(ctx context.Context, tx pgx.Tx, params InsertParams) (Inquiry, error) {
	insertSQL := `
        INSERT INTO inquiries (property_id, buyer_id, seller_id, original_seller_id, message, inquiry_type, contact_preference, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + inquiryColumns

	inq, err := scanInquiry(tx.QueryRow(ctx, insertSQL,
		params.PropertyID,
		params.BuyerID,
		params.SellerID,
		params.OriginalSellerID,
		params.Message,
		params.InquiryType,
		params.ContactPreference,
		params.Status,
	))
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: insert: %w", err)
	}
	return inq, nil
}

// GetForUpdate loads an inquiry under a row lock for a transition.
func (r *PGRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, inquiryID string) (Inquiry, error) {
	selectSQL := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = $1 FOR UPDATE`

	inq, err := scanInquiry(tx.QueryRow(ctx, selectSQL, inquiryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, fmt.Errorf("inquiry: get for update: %w", err)
	}
	return inq, nil
}

// Update applies one transition conditionally on the expected prior status.
// A zero-row update means another writer got there first.
func (r *PGRepository) Update(ctx context.Context, tx pgx.Tx, params UpdateParams) (Inquiry, error) {
	updateSQL := `
        UPDATE inquiries
        SET status = $3,
            seller_id = COALESCE($4, seller_id),
            admin_note = COALESCE($5, admin_note),
            response_message = COALESCE($6, response_message),
            response_date = COALESCE($7, response_date),
            updated_at = $8
        WHERE id = $1 AND status = $2
        RETURNING ` + inquiryColumns

	inq, err := scanInquiry(tx.QueryRow(ctx, updateSQL,
		params.InquiryID,
		params.ExpectedStatus,
		params.NextStatus,
		params.SellerID,
		params.Note,
		params.ResponseMessage,
		params.ResponseDate,
		params.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, ErrStaleStatus
		}
		return Inquiry{}, fmt.Errorf("inquiry: update: %w", err)
	}
	return inq, nil
}

// AppendEvent records one audit entry inside the caller's transaction.
func (r *PGRepository) AppendEvent(ctx context.Context, tx pgx.Tx, inquiryID, eventType string, actorID *string, payload map[string]any) error {
	body := []byte(`{}`)
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("inquiry: marshal event payload: %w", err)
		}
	}

	const q = `INSERT INTO inquiry_events (inquiry_id, type, actor_id, payload) VALUES ($1, $2, $3, $4::jsonb)`
	if _, err := tx.Exec(ctx, q, inquiryID, eventType, actorID, body); err != nil {
		return fmt.Errorf("inquiry: append event: %w", err)
	}
	return nil
}

const recordQuery = `
SELECT i.id, i.property_id, i.buyer_id, i.seller_id, i.original_seller_id, i.message,
       i.inquiry_type, i.contact_preference, i.status, i.admin_note, i.response_message, i.response_date,
       i.created_at, i.updated_at,
       p.title, p.address->>'city',
       b.email, b.first_name, b.last_name, b.phone,
       s.email, s.first_name, s.last_name, s.phone,
       o.email, o.first_name, o.last_name, o.phone
FROM inquiries i
JOIN properties p ON p.id = i.property_id
JOIN users b ON b.id = i.buyer_id
JOIN users s ON s.id = i.seller_id
JOIN users o ON o.id = i.original_seller_id
`

// GetByID returns one inquiry enriched with property and party summaries.
func (r *PGRepository) GetByID(ctx context.Context, inquiryID string) (Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, recordQuery+` WHERE i.id = $1`, inquiryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("inquiry: get by id: %w", err)
	}
	return rec, nil
}

// ListByBuyer returns the buyer's inquiries, newest first.
func (r *PGRepository) ListByBuyer(ctx context.Context, buyerID string) ([]Record, error) {
	return r.list(ctx, recordQuery+` WHERE i.buyer_id = $1 ORDER BY i.created_at DESC`, buyerID)
}

// ListByAssignee returns inquiries currently assigned to the given user.
func (r *PGRepository) ListByAssignee(ctx context.Context, userID string) ([]Record, error) {
	return r.list(ctx, recordQuery+` WHERE i.seller_id = $1 ORDER BY i.created_at DESC`, userID)
}

// ListByOriginalSeller returns inquiries about the seller's properties
// regardless of current assignment.
func (r *PGRepository) ListByOriginalSeller(ctx context.Context, sellerID string) ([]Record, error) {
	return r.list(ctx, recordQuery+` WHERE i.original_seller_id = $1 ORDER BY i.created_at DESC`, sellerID)
}

func (r *PGRepository) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("inquiry: list: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("inquiry: scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inquiry: iterate records: %w", err)
	}
	return records, nil
}

// ListEvents returns the audit trail, oldest first.
func (r *PGRepository) ListEvents(ctx context.Context, inquiryID string) ([]Event, error) {
	const q = `
        SELECT id, inquiry_id, type, actor_id, payload, created_at
        FROM inquiry_events
        WHERE inquiry_id = $1
        ORDER BY id ASC
    `
	rows, err := r.pool.Query(ctx, q, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("inquiry: list events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.InquiryID, &ev.Type, &ev.ActorID, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("inquiry: scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inquiry: iterate events: %w", err)
	}
	return events, nil
}

func scanInquiry(row pgx.Row) (Inquiry, error) {
	var inq Inquiry
	err := row.Scan(
		&inq.ID,
		&inq.PropertyID,
		&inq.BuyerID,
		&inq.SellerID,
		&inq.OriginalSellerID,
		&inq.Message,
		&inq.InquiryType,
		&inq.ContactPreference,
		&inq.Status,
		&inq.AdminNote,
		&inq.ResponseMessage,
		&inq.ResponseDate,
		&inq.CreatedAt,
		&inq.UpdatedAt,
	)
	if err != nil {
		return Inquiry{}, err
	}
	return inq, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID,
		&rec.PropertyID,
		&rec.BuyerID,
		&rec.SellerID,
		&rec.OriginalSellerID,
		&rec.Message,
		&rec.InquiryType,
		&rec.ContactPreference,
		&rec.Status,
		&rec.AdminNote,
		&rec.ResponseMessage,
		&rec.ResponseDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.Property.Title,
		&rec.Property.City,
		&rec.Buyer.Email,
		&rec.Buyer.FirstName,
		&rec.Buyer.LastName,
		&rec.Buyer.Phone,
		&rec.Seller.Email,
		&rec.Seller.FirstName,
		&rec.Seller.LastName,
		&rec.Seller.Phone,
		&rec.OriginalSeller.Email,
		&rec.OriginalSeller.FirstName,
		&rec.OriginalSeller.LastName,
		&rec.OriginalSeller.Phone,
	)
	if err != nil {
		return Record{}, err
	}

	rec.Property.ID = rec.PropertyID
	rec.Buyer.ID = rec.BuyerID
	rec.Seller.ID = rec.SellerID
	rec.OriginalSeller.ID = rec.OriginalSellerID
	return rec, nil
}
