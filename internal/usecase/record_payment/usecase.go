package record_payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/StayFinder-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/StayFinder-BookingService/internal/integrations/stripeclient"
)

const notifyTimeout = 30 * time.Second

// UseCase use case обработки вебхука об оплате.
// Записывает не более одного бронирования на платёжную сессию при повторных,
// переупорядоченных и одновременных доставках. Синхронизация только через
// уникальный индекс хранилища, внутрипроцессных блокировок нет.
type UseCase struct {
	verifier    EventVerifier
	bookingRepo BookingRepository
	notifier    Notifier
	metrics     MetricsRecorder
	opts        Options
	logger      Logger

	// pending незавершённые отправки писем
	pending sync.WaitGroup
}

// NewUseCase создает новый экземпляр use case. notifier может быть nil.
func NewUseCase(
	verifier EventVerifier,
	bookingRepo BookingRepository,
	notifier Notifier,
	metrics MetricsRecorder,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		verifier:    verifier,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		metrics:     metrics,
		opts:        opts,
		logger:      logger,
	}
}

// Execute обрабатывает одну доставку вебхука.
// Ошибка возвращается только для невалидной подписи и (если включено) ошибки хранилища.
// Во всех остальных случаях доставку нужно подтвердить.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Проверка подписи по сырому телу
	event, err := uc.verifier.ConstructEvent(req.Payload, req.SignatureHeader)
	if err != nil {
		if errors.Is(err, stripeclient.ErrInvalidSignature) {
			uc.logger.Warn("RecordPayment: signature verification failed: %v", err)
			uc.metrics.ObserveWebhookEvent(string(OutcomeInvalidSignature))
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		// подпись верна, повторная доставка того же тела ничего не изменит
		uc.logger.Error("RecordPayment: signed event cannot be decoded, acknowledging: %v", err)
		return uc.done(&Response{Outcome: OutcomeMalformed}), nil
	}

	// 2. Интересует только сессия с полученной оплатой
	if event.Session == nil {
		uc.logger.Info("RecordPayment: event=%s type=%s ignored", event.ID, event.Type)
		return uc.done(&Response{Outcome: OutcomeIgnored, EventID: event.ID}), nil
	}

	session := event.Session
	resp := &Response{EventID: event.ID, SessionID: session.ID}
	uc.logger.Info("RecordPayment: event=%s type=%s session=%s amount_total=%d payment_status=%s",
		event.ID, event.Type, session.ID, session.AmountTotal, session.PaymentStatus)

	// Отложенная оплата запишется по checkout.session.async_payment_succeeded
	if !session.IsPaid() {
		uc.logger.Info("RecordPayment: session=%s is %s, waiting for payment", session.ID, session.PaymentStatus)
		resp.Outcome = OutcomeAwaitingPayment
		return uc.done(resp), nil
	}

	// 3. Быстрый путь для повторной доставки
	existing, err := uc.bookingRepo.GetByPaymentSessionID(ctx, session.ID)
	switch {
	case err == nil:
		uc.logger.Info("RecordPayment: session=%s already recorded as booking id=%d", session.ID, existing.ID)
		resp.Outcome = OutcomeDuplicate
		return uc.done(resp), nil
	case !errors.Is(err, bookingRepo.ErrBookingNotFound):
		return uc.storeFailure(resp, "lookup", err)
	}

	// 4. Собираем бронирование из сессии
	booking, err := materializeBooking(session)
	if err != nil {
		// повторная доставка того же события не исправит метаданные
		uc.logger.Error("RecordPayment: session=%s cannot be materialized, acknowledging without booking: %v", session.ID, err)
		resp.Outcome = OutcomeInvalidMetadata
		return uc.done(resp), nil
	}

	if !booking.StayWindow.IsValid() {
		uc.logger.Warn("RecordPayment: session=%s has non-positive stay window %s..%s",
			session.ID, booking.StayWindow.CheckIn.Format(domain.DateFormat), booking.StayWindow.CheckOut.Format(domain.DateFormat))
	}

	// 5. Вставка. Проигравший в гонке одновременных доставок получает дубликат - это успех.
	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicatePaymentSession) {
			uc.logger.Info("RecordPayment: session=%s recorded by a concurrent delivery", session.ID)
			resp.Outcome = OutcomeDuplicate
			return uc.done(resp), nil
		}
		return uc.storeFailure(resp, "insert", err)
	}

	uc.logger.Info("RecordPayment: booking id=%d recorded for session=%s, listing=%s, amount_minor=%d",
		created.ID, session.ID, created.ListingID, created.AmountMinor)

	// 6. Письмо отправляется вне обработки доставки, его ошибка только логируется
	if uc.notifier != nil {
		uc.pending.Add(1)
		go uc.notify(context.WithoutCancel(ctx), created)
	}

	resp.Outcome = OutcomeRecorded
	resp.BookingID = created.ID
	return uc.done(resp), nil
}

func (uc *UseCase) storeFailure(resp *Response, op string, err error) (*Response, error) {
	uc.logger.Error("RecordPayment: store %s failed for session=%s: %v", op, resp.SessionID, err)
	resp.Outcome = OutcomeStoreFailure
	uc.metrics.ObserveWebhookEvent(string(OutcomeStoreFailure))

	if uc.opts.AckStoreFailures {
		return resp, nil
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

func (uc *UseCase) done(resp *Response) *Response {
	uc.metrics.ObserveWebhookEvent(string(resp.Outcome))
	return resp
}

// Wait ждёт завершения отправки писем, запущенных Execute.
// Возвращает ошибку контекста, если письма не успели уйти.
func (uc *UseCase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("record_payment: confirmation emails still in flight: %w", ctx.Err())
	}
}

func (uc *UseCase) notify(ctx context.Context, booking *domain.Booking) {
	defer uc.pending.Done()

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if err := uc.notifier.SendBookingConfirmation(ctx, booking); err != nil {
		uc.logger.Warn("RecordPayment: confirmation email for booking id=%d failed: %v", booking.ID, err)
	}
}
