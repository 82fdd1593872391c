package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"inviteticketing/internal/domain"
)

// pqUniqueViolation is the Postgres error code for unique constraint violations.
const pqUniqueViolation = "23505"

// inviteCompletedIndex is the partial unique index that enforces single
// redemption per invite code among completed bookings.
const inviteCompletedIndex = "ux_bookings_invite_code_completed"

const bookingColumns = `id, reference_number, invite_code, customer_name, customer_email,
		customer_phone, ticket_type, ticket_count, total_amount, event_name, event_date,
		payment_status, order_id, payment_id, checked_in, checked_in_at, email_sent,
		created_at, updated_at, expires_at`

type bookingRepository struct {
	DB *sql.DB
}

// NewBookingRepository returns a domain.BookingRepository implemented with Postgres.
func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{DB: db}
}

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID, &b.ReferenceNumber, &b.InviteCode, &b.CustomerName, &b.CustomerEmail,
		&b.CustomerPhone, &b.TicketType, &b.TicketCount, &b.TotalAmount, &b.EventName,
		&b.EventDate, &b.PaymentStatus, &b.OrderID, &b.PaymentID, &b.CheckedIn,
		&b.CheckedInAt, &b.EmailSent, &b.CreatedAt, &b.UpdatedAt, &b.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (reference_number, invite_code, customer_name, customer_email,
			customer_phone, ticket_type, ticket_count, total_amount, event_name, event_date,
			payment_status, order_id, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		b.ReferenceNumber, b.InviteCode, b.CustomerName, b.CustomerEmail,
		b.CustomerPhone, b.TicketType, b.TicketCount, b.TotalAmount, b.EventName,
		b.EventDate, b.PaymentStatus, b.OrderID, b.ExpiresAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE UPPER(reference_number) = UPPER($1)`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE order_id = $1`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetCompletedByInviteCode(ctx context.Context, code string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE invite_code = $1 AND payment_status = 'completed'`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus, ids domain.GatewayIDs) (*domain.Booking, bool, error) {
	if !status.Terminal() {
		return nil, false, fmt.Errorf("%w: cannot transition to %q", domain.ErrInvalidTransition, status)
	}

	query := `
		UPDATE bookings
		SET payment_status = $2,
			payment_id = CASE WHEN $3 <> '' THEN $3 ELSE payment_id END,
			updated_at = NOW()
		WHERE order_id = $1 AND payment_status = 'pending'
		RETURNING ` + bookingColumns
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, orderID, status, ids.PaymentRef))
	if err == nil {
		return b, true, nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation && pqErr.Constraint == inviteCompletedIndex {
		return nil, false, domain.ErrDuplicateRedemption
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	// No pending row moved: either the booking is unknown, already in the
	// requested terminal state (idempotent replay), or in the conflicting one.
	current, err := r.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if current.PaymentStatus == status {
		return current, false, nil
	}
	return nil, false, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, current.PaymentStatus, status)
}

func (r *bookingRepository) MarkEmailSent(ctx context.Context, id string) error {
	query := `
		UPDATE bookings
		SET email_sent = TRUE, updated_at = NOW()
		WHERE id = $1 AND payment_status = 'completed'
	`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) MarkCheckedIn(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE bookings
		SET checked_in = TRUE, checked_in_at = $2, updated_at = NOW()
		WHERE id = $1 AND checked_in = FALSE AND payment_status = 'completed'
	`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// The guarded update matched nothing; inspect the row to say why.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.CheckedIn {
		return domain.ErrAlreadyCheckedIn
	}
	return domain.ErrNotEligible
}

func (r *bookingRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, total, nil
}
