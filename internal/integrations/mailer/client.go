package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/pkg/ptr"
)

const confirmationSubject = "Your StayFinder booking is confirmed"

//go:embed templates/*.html
var templateFiles embed.FS

// Sender отправляет собранные письма. Реализуется *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client отправка писем арендаторам
type Client struct {
	sender      Sender
	from        string
	frontendURL string
	templates   *template.Template
	log         Logger
}

// NewClient создает клиента, отправляющего письма через SMTP
func NewClient(cfg Config, log Logger) (*Client, error) {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewClientWithSender(dialer, cfg.From, cfg.FrontendURL, log)
}

// NewClientWithSender создает клиента с произвольным отправителем
func NewClientWithSender(sender Sender, from, frontendURL string, log Logger) (*Client, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: parse templates: %v", ErrTemplate, err)
	}

	return &Client{
		sender:      sender,
		from:        from,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		templates:   tmpl,
		log:         log,
	}, nil
}

// SendBookingConfirmation отправляет арендатору письмо о записанном бронировании
func (c *Client) SendBookingConfirmation(ctx context.Context, booking *domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := c.renderConfirmation(booking)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", booking.RenterEmail)
	msg.SetHeader("Subject", confirmationSubject)
	msg.SetBody("text/html", body)

	if err := c.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: booking_id=%d: %v", ErrSend, booking.ID, err)
	}

	c.log.Info("Booking confirmation sent: booking_id=%d", booking.ID)
	return nil
}

func (c *Client) renderConfirmation(booking *domain.Booking) (string, error) {
	data := confirmationData{
		BookingID:       booking.ID,
		ListingID:       booking.ListingID,
		CheckIn:         booking.StayWindow.CheckIn.Format(domain.DateFormat),
		CheckOut:        booking.StayWindow.CheckOut.Format(domain.DateFormat),
		Nights:          booking.StayWindow.Nights(),
		Guests:          booking.GuestCount,
		Amount:          fmt.Sprintf("%.2f", booking.Amount()),
		Currency:        strings.ToUpper(booking.Currency),
		SpecialRequests: ptr.Deref(booking.SpecialRequests),
	}
	if c.frontendURL != "" {
		data.BookingsURL = c.frontendURL + "/bookings"
	}

	var buf bytes.Buffer
	if err := c.templates.ExecuteTemplate(&buf, "booking_confirmation.html", data); err != nil {
		return "", fmt.Errorf("%w: booking_confirmation: %v", ErrTemplate, err)
	}

	return buf.String(), nil
}
