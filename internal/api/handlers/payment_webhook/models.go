package payment_webhook

// SignatureHeader заголовок с подписью доставки
const SignatureHeader = "Stripe-Signature"

// DefaultMaxBodyBytes предел размера тела по умолчанию
const DefaultMaxBodyBytes int64 = 64 << 10

// AckResponse подтверждение приёма доставки
type AckResponse struct {
	Received bool `json:"received"`
}
