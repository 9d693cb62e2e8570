package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/StayFinder-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/StayFinder-BookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований арендатора
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Чужое бронирование неотличимо от несуществующего.
func (s *Service) GetByID(ctx context.Context, id int64, renterID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for renter=%s", id, renterID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !booking.IsOwnedBy(renterID) {
		s.logger.Warn("GetByID: booking id=%d is not owned by renter=%s", id, renterID)
		return nil, ErrBookingNotFound
	}

	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// GetUserBookings получает страницу бронирований арендатора, новые первыми.
// Опционально фильтрует по вычисляемому статусу проживания.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: renter=%s, status=%v, page=%d, limit=%d", req.RenterID, req.Status, req.Page, req.Limit)

	filter, err := req.ToDomainFilter(s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid request for renter=%s: %v", req.RenterID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	total, err := s.bookingRepo.CountByRenter(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: count error for renter=%s: %v", req.RenterID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	bookings := make([]*domain.Booking, 0)
	if filter.Offset < total {
		bookings, err = s.bookingRepo.ListByRenter(ctx, filter)
		if err != nil {
			s.logger.Error("GetUserBookings: repository error for renter=%s: %v", req.RenterID, err)
			return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("GetUserBookings: fetched %d of %d bookings for renter=%s", len(bookings), total, req.RenterID)
	return models.FromDomainBookingPage(bookings, filter.Today, req.Page, req.Limit, total), nil
}

// GetStats считает сводку по бронированиям арендатора
func (s *Service) GetStats(ctx context.Context, renterID string) (*models.StatsResponse, error) {
	s.logger.Info("GetStats: renter=%s", renterID)

	stats, err := s.bookingRepo.StatsByRenter(ctx, renterID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("GetStats: repository error for renter=%s: %v", renterID, err)
		return nil, fmt.Errorf("%w: GetStats - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStats(stats), nil
}
