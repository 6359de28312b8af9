package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"realtyflow/assign"
)

var (
	// ErrNotFound signals the inquiry or its property does not exist.
	ErrNotFound = errors.New("inquiry: not found")
	// ErrPropertyNotFound signals the referenced property does not exist.
	ErrPropertyNotFound = errors.New("inquiry: property not found")
	// ErrForbidden signals the actor may not perform the operation.
	ErrForbidden = errors.New("inquiry: access denied")
	// ErrEmptyResponse signals a respond call without a response message.
	ErrEmptyResponse = errors.New("inquiry: response message is required")
	// ErrEmptyMessage signals a create call without a message.
	ErrEmptyMessage = errors.New("inquiry: message is required")
	// ErrStaleStatus signals the row changed under a concurrent transition.
	ErrStaleStatus = errors.New("inquiry: status changed concurrently")
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PropertyRef is the property slice the engine reads at creation time.
type PropertyRef struct {
	ID       string
	SellerID string
}

// InsertParams enumerates the columns written when an inquiry is created.
type InsertParams struct {
	PropertyID        string
	BuyerID           string
	SellerID          string
	OriginalSellerID  string
	Message           string
	InquiryType       Type
	ContactPreference ContactPreference
	Status            Status
}

// UpdateParams enumerates one conditional read-modify-write on an inquiry.
// ExpectedStatus guards the write: the update applies only while the row
// still carries the status observed under the lock.
type UpdateParams struct {
	InquiryID       string
	ExpectedStatus  Status
	NextStatus      Status
	SellerID        *string
	Note            *string
	ResponseMessage *string
	ResponseDate    *time.Time
	UpdatedAt       time.Time
}

// Repository defines the data access required by the engine. Mutating
// methods run inside the caller's transaction.
type Repository interface {
	LockProperty(ctx context.Context, tx pgx.Tx, propertyID string) (PropertyRef, error)
	Insert(ctx context.Context, tx pgx.Tx, params InsertParams) (Inquiry, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, inquiryID string) (Inquiry, error)
	Update(ctx context.Context, tx pgx.Tx, params UpdateParams) (Inquiry, error)
	AppendEvent(ctx context.Context, tx pgx.Tx, inquiryID, eventType string, actorID *string, payload map[string]any) error

	GetByID(ctx context.Context, inquiryID string) (Record, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Record, error)
	ListByAssignee(ctx context.Context, userID string) ([]Record, error)
	ListByOriginalSeller(ctx context.Context, sellerID string) ([]Record, error)
	ListEvents(ctx context.Context, inquiryID string) ([]Event, error)
}

// Notifier delivers admin-authored responses toward the buyer. The surface
// is thin: delivery failures must not fail the transition.
type Notifier interface {
	ResponseDispatched(ctx context.Context, rec Record)
}

// Service is the inquiry engine: it owns the status state machine, the
// admin-intermediary routing rule and the per-role visibility rules.
type Service struct {
	pool     TxBeginner
	repo     Repository
	strategy assign.Strategy
	notifier Notifier
	now      func() time.Time
}

func NewService(pool TxBeginner, repo Repository, strategy assign.Strategy) *Service {
	if strategy == nil {
		strategy = assign.FirstAvailable{}
	}
	return &Service{
		pool:     pool,
		repo:     repo,
		strategy: strategy,
		now:      time.Now,
	}
}

// WithNotifier attaches a response notifier.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithClock overrides the time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create routes a buyer's inquiry to an admin intermediary. The property
// read, admin selection and insert happen in one transaction so the
// captured original seller cannot drift from the property row.
func (s *Service) Create(ctx context.Context, params CreateParams) (Record, error) {
	if params.BuyerID == "" {
		return Record{}, fmt.Errorf("inquiry: missing buyer id")
	}
	if params.PropertyID == "" {
		return Record{}, ErrPropertyNotFound
	}
	if strings.TrimSpace(params.Message) == "" {
		return Record{}, ErrEmptyMessage
	}
	inquiryType := params.InquiryType
	if inquiryType == "" {
		inquiryType = TypeInformation
	}
	if !isValidType(inquiryType) {
		return Record{}, fmt.Errorf("inquiry: invalid inquiry type %q", inquiryType)
	}
	contact := params.ContactPreference
	if contact == "" {
		contact = ContactEmail
	}
	if !isValidContact(contact) {
		return Record{}, fmt.Errorf("inquiry: invalid contact preference %q", contact)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("inquiry: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	property, err := s.repo.LockProperty(ctx, tx, params.PropertyID)
	if err != nil {
		return Record{}, err
	}

	adminID, err := s.strategy.Pick(ctx, tx)
	if err != nil {
		return Record{}, err
	}

	created, err := s.repo.Insert(ctx, tx, InsertParams{
		PropertyID:        property.ID,
		BuyerID:           params.BuyerID,
		SellerID:          adminID,
		OriginalSellerID:  property.SellerID,
		Message:           params.Message,
		InquiryType:       inquiryType,
		ContactPreference: contact,
		Status:            StatusPendingAdminReview,
	})
	if err != nil {
		return Record{}, err
	}

	payload := map[string]any{
		"property_id":        property.ID,
		"assigned_admin_id":  adminID,
		"original_seller_id": property.SellerID,
	}
	if err := s.repo.AppendEvent(ctx, tx, created.ID, "INQUIRY_CREATED", &params.BuyerID, payload); err != nil {
		return Record{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, fmt.Errorf("inquiry: commit create: %w", err)
	}

	return s.repo.GetByID(ctx, created.ID)
}

// TransitionStatus applies an admin-initiated status change. Forwarding
// reassigns the inquiry to its original seller; that is the only point
// sellers gain ownership.
func (s *Service) TransitionStatus(ctx context.Context, actor Actor, params TransitionParams) (Record, error) {
	if !actor.IsAdmin() {
		return Record{}, ErrForbidden
	}
	if !params.NextStatus.IsValid() {
		return Record{}, ErrInvalidTransition{To: params.NextStatus}
	}

	rec, err := s.transition(ctx, actor, params)
	if err != nil {
		return Record{}, err
	}

	if params.ResponseMessage != nil && s.notifier != nil {
		s.notifier.ResponseDispatched(ctx, rec)
	}
	return rec, nil
}

// Respond is the dedicated entry point for admin-authored replies: it
// requires a non-empty message and always targets the responded status.
func (s *Service) Respond(ctx context.Context, actor Actor, inquiryID, responseMessage string, note *string) (Record, error) {
	if !actor.IsAdmin() {
		return Record{}, ErrForbidden
	}
	if strings.TrimSpace(responseMessage) == "" {
		return Record{}, ErrEmptyResponse
	}

	rec, err := s.transition(ctx, actor, TransitionParams{
		InquiryID:       inquiryID,
		NextStatus:      StatusResponded,
		Note:            note,
		ResponseMessage: &responseMessage,
	})
	if err != nil {
		return Record{}, err
	}

	if s.notifier != nil {
		s.notifier.ResponseDispatched(ctx, rec)
	}
	return rec, nil
}

func (s *Service) transition(ctx context.Context, actor Actor, params TransitionParams) (Record, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("inquiry: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := s.repo.GetForUpdate(ctx, tx, params.InquiryID)
	if err != nil {
		return Record{}, err
	}

	if !current.Status.CanTransition(params.NextStatus) {
		return Record{}, ErrInvalidTransition{From: current.Status, To: params.NextStatus}
	}

	now := s.now().UTC()
	update := UpdateParams{
		InquiryID:      current.ID,
		ExpectedStatus: current.Status,
		NextStatus:     params.NextStatus,
		Note:           params.Note,
		UpdatedAt:      now,
	}
	if params.NextStatus == StatusForwardedToSeller {
		sellerID := current.OriginalSellerID
		update.SellerID = &sellerID
	}
	if params.ResponseMessage != nil {
		update.ResponseMessage = params.ResponseMessage
		responseDate := now
		update.ResponseDate = &responseDate
	}

	if _, err := s.repo.Update(ctx, tx, update); err != nil {
		return Record{}, err
	}

	payload := map[string]any{
		"previous_status": current.Status,
		"next_status":     params.NextStatus,
	}
	if params.ResponseMessage != nil {
		payload["response_sent"] = true
	}
	if err := s.repo.AppendEvent(ctx, tx, current.ID, "INQUIRY_STATUS_CHANGED", &actor.ID, payload); err != nil {
		return Record{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, fmt.Errorf("inquiry: commit transition: %w", err)
	}

	return s.repo.GetByID(ctx, current.ID)
}

// AddNote overwrites the admin-only note without touching the status.
func (s *Service) AddNote(ctx context.Context, actor Actor, inquiryID, note string) (Record, error) {
	if !actor.IsAdmin() {
		return Record{}, ErrForbidden
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("inquiry: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := s.repo.GetForUpdate(ctx, tx, inquiryID)
	if err != nil {
		return Record{}, err
	}

	if _, err := s.repo.Update(ctx, tx, UpdateParams{
		InquiryID:      current.ID,
		ExpectedStatus: current.Status,
		NextStatus:     current.Status,
		Note:           &note,
		UpdatedAt:      s.now().UTC(),
	}); err != nil {
		return Record{}, err
	}

	if err := s.repo.AppendEvent(ctx, tx, current.ID, "INQUIRY_NOTE_UPDATED", &actor.ID, nil); err != nil {
		return Record{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, fmt.Errorf("inquiry: commit note: %w", err)
	}

	return s.repo.GetByID(ctx, current.ID)
}

/// Get returns a single inquiry to any party of it: the buyer, the currently
// assigned seller, the original seller, or any admin.
func (s *Service) Get(ctx context.Context, actor Actor, inquiryID string) (Record, error) {
	rec, err := s.repo.GetByID(ctx, inquiryID)
	if err != nil {
		return Record{}, err
	}

	authorized := actor.IsAdmin() ||
		actor.ID == rec.BuyerID ||
		actor.ID == rec.SellerID ||
		actor.ID == rec.OriginalSellerID
	if !authorized {
		return Record{}, ErrForbidden
	}

	return rec, nil
}

// ListForBuyer returns every inquiry the buyer submitted.
func (s *Service) ListForBuyer(ctx context.Context, buyerID string) ([]Record, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}

// ListForAdmin returns the admin's own assigned queue, not the system-wide
// set: with several admins each sees only inquiries parked with them.
func (s *Service) ListForAdmin(ctx context.Context, actor Actor) ([]Record, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.ListByAssignee(ctx, actor.ID)
}

// ListForSeller returns every inquiry about the seller's properties,
// including ones still parked with an admin.
func (s *Service) ListForSeller(ctx context.Context, sellerID string) ([]Record, error) {
	return s.repo.ListByOriginalSeller(ctx, sellerID)
}

// Events returns the audit trail for an inquiry, admin-only.
func (s *Service) Events(ctx context.Context, actor Actor, inquiryID string) ([]Event, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if _, err := s.repo.GetByID(ctx, inquiryID); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, inquiryID)
}

func isValidType(t Type) bool {
	switch t {
	case TypeInformation, TypeViewing, TypeOffer:
		return true
	default:
		return false
	}
}

func isValidContact(c ContactPreference) bool {
	switch c {
	case ContactEmail, ContactPhone, ContactBoth:
		return true
	default:
		return false
	}
}
