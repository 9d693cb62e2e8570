package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"payment_session_id",
	"renter_id",
	"renter_email",
	"listing_id",
	"amount_minor",
	"currency",
	"check_in_date",
	"check_out_date",
	"guest_count",
	"special_requests",
	"created_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает бронирование.
// Уникальный индекс по payment_session_id гарантирует не более одной записи на сессию:
// при конкурентной вставке проигравший получает ErrDuplicatePaymentSession.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"payment_session_id",
			"renter_id",
			"renter_email",
			"listing_id",
			"amount_minor",
			"currency",
			"check_in_date",
			"check_out_date",
			"guest_count",
			"special_requests",
		).
		Values(
			booking.PaymentSessionID,
			booking.RenterID,
			booking.RenterEmail,
			booking.ListingID,
			booking.AmountMinor,
			booking.Currency,
			booking.StayWindow.CheckIn.Format(domain.DateFormat),
			booking.StayWindow.CheckOut.Format(domain.DateFormat),
			booking.GuestCount,
			booking.SpecialRequests,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePaymentSession, booking.PaymentSessionID)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.getOne(ctx, "GetByID", query, args)
}

// GetByPaymentSessionID получает бронирование по идентификатору платёжной сессии
func (r *Repository) GetByPaymentSessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"payment_session_id": sessionID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPaymentSessionID - build select query: %v", ErrBuildQuery, err)
	}

	return r.getOne(ctx, "GetByPaymentSessionID", query, args)
}

// ListByRenter получает страницу бронирований арендатора, новые первыми.
// Опционально фильтрует по вычисляемому статусу проживания.
func (r *Repository) ListByRenter(ctx context.Context, filter domain.RenterBookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"renter_id": filter.RenterID}).
		OrderBy("created_at DESC", "id DESC")

	selectBuilder = withStayStatus(selectBuilder, filter.Status, filter.Today)

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRenter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRenter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountByRenter считает бронирования арендатора с тем же фильтром статуса, что и ListByRenter
func (r *Repository) CountByRenter(ctx context.Context, filter domain.RenterBookingsFilter) (int, error) {
	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"renter_id": filter.RenterID})

	selectBuilder = withStayStatus(selectBuilder, filter.Status, filter.Today)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByRenter - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: CountByRenter - scan count: %v", ErrScanRow, err)
	}

	return total, nil
}

// StatsByRenter считает агрегаты по бронированиям арендатора одним запросом
func (r *Repository) StatsByRenter(ctx context.Context, renterID string, today time.Time) (*domain.RenterStats, error) {
	day := today.Format(domain.DateFormat)

	query, args, err := psqlbuilder.Select().
		Column("COUNT(*)").
		Column("COALESCE(SUM(amount_minor), 0)").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE check_in_date > ?)", day)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE check_in_date <= ? AND check_out_date >= ?)", day, day)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE check_out_date < ?)", day)).
		From("bookings").
		Where(squirrel.Eq{"renter_id": renterID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: StatsByRenter - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.RenterStats
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalBookings,
		&stats.TotalSpentMinor,
		&stats.UpcomingBookings,
		&stats.ActiveBookings,
		&stats.CompletedBookings,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: StatsByRenter - scan stats: %v", ErrScanRow, err)
	}

	return &stats, nil
}

// withStayStatus добавляет условие по вычисляемому статусу проживания
func withStayStatus(b squirrel.SelectBuilder, status *domain.StayStatus, today time.Time) squirrel.SelectBuilder {
	if status == nil {
		return b
	}

	day := today.Format(domain.DateFormat)
	switch *status {
	case domain.StayUpcoming:
		return b.Where(squirrel.Gt{"check_in_date": day})
	case domain.StayActive:
		return b.Where(squirrel.LtOrEq{"check_in_date": day}).Where(squirrel.GtOrEq{"check_out_date": day})
	case domain.StayCompleted:
		return b.Where(squirrel.Lt{"check_out_date": day})
	}
	return b
}

func (r *Repository) getOne(ctx context.Context, op, query string, args []interface{}) (*domain.Booking, error) {
	var booking domain.Booking

	err := scanBooking(r.db.QueryRowContext(ctx, query, args...), &booking)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner, booking *domain.Booking) error {
	return row.Scan(
		&booking.ID,
		&booking.PaymentSessionID,
		&booking.RenterID,
		&booking.RenterEmail,
		&booking.ListingID,
		&booking.AmountMinor,
		&booking.Currency,
		&booking.StayWindow.CheckIn,
		&booking.StayWindow.CheckOut,
		&booking.GuestCount,
		&booking.SpecialRequests,
		&booking.CreatedAt,
	)
}
