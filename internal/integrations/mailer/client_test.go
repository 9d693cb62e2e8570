package mailer

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/pkg/logger"
	"github.com/m04kA/StayFinder-BookingService/pkg/ptr"
)

type mockSender struct {
	err      error
	messages []*gomail.Message
}

func (m *mockSender) DialAndSend(msgs ...*gomail.Message) error {
	m.messages = append(m.messages, msgs...)
	return m.err
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:               42,
		PaymentSessionID: "cs_test_1",
		RenterEmail:      "a@b.c",
		ListingID:        "L1",
		AmountMinor:      150000,
		Currency:         "inr",
		StayWindow: domain.StayWindow{
			CheckIn:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		},
		GuestCount:      2,
		SpecialRequests: ptr.Of("Quiet room <please>"),
	}
}

func newTestClient(t *testing.T, sender Sender) *Client {
	t.Helper()
	log, err := logger.NewWithWriter(io.Discard, "info")
	require.NoError(t, err)

	client, err := NewClientWithSender(sender, "noreply@stayfinder.test", "http://localhost:3000/", log)
	require.NoError(t, err)
	return client
}

func TestRenderConfirmation(t *testing.T) {
	client := newTestClient(t, &mockSender{})

	body, err := client.renderConfirmation(testBooking())
	require.NoError(t, err)

	assert.Contains(t, body, "2024-06-01")
	assert.Contains(t, body, "2024-06-05")
	assert.Contains(t, body, "1500.00 INR")
	assert.Contains(t, body, "<td>4</td>")
	assert.Contains(t, body, "Quiet room &lt;please&gt;")
	assert.Contains(t, body, "http://localhost:3000/bookings")
}

func TestSendBookingConfirmation(t *testing.T) {
	sender := &mockSender{}
	client := newTestClient(t, sender)

	require.NoError(t, client.SendBookingConfirmation(context.Background(), testBooking()))

	require.Len(t, sender.messages, 1)
	msg := sender.messages[0]
	assert.Equal(t, []string{"a@b.c"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"noreply@stayfinder.test"}, msg.GetHeader("From"))
	assert.Equal(t, []string{confirmationSubject}, msg.GetHeader("Subject"))
}

func TestSendBookingConfirmation_SendFailure(t *testing.T) {
	client := newTestClient(t, &mockSender{err: errors.New("connection refused")})

	err := client.SendBookingConfirmation(context.Background(), testBooking())
	assert.ErrorIs(t, err, ErrSend)
}
