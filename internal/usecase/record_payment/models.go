package record_payment

// Outcome исход обработки доставки вебхука
type Outcome string

const (
	OutcomeRecorded         Outcome = "recorded"
	OutcomeDuplicate        Outcome = "duplicate"
	OutcomeIgnored          Outcome = "ignored"
	OutcomeAwaitingPayment  Outcome = "awaiting_payment"
	OutcomeInvalidSignature Outcome = "invalid_signature"
	OutcomeMalformed        Outcome = "malformed_event"
	OutcomeInvalidMetadata  Outcome = "invalid_metadata"
	OutcomeStoreFailure     Outcome = "store_failure"
)

// Request сырая доставка вебхука
type Request struct {
	Payload         []byte
	SignatureHeader string
}

// Response результат обработки доставки
type Response struct {
	Outcome   Outcome
	EventID   string
	SessionID string
	BookingID int64 // 0, если запись не создавалась в этой доставке
}

// Options поведение при ошибках
type Options struct {
	// AckStoreFailures подтверждать доставку при ошибке хранилища.
	// false - вернуть ErrStoreUnavailable, чтобы процессор доставил событие повторно.
	AckStoreFailures bool
}
