package booking_lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/renthub/renthub/clients"
	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/utils/mail"
)

// IntentType names one side effect a lifecycle transition wants delivered.
type IntentType string

const (
	IntentConfirmationEmail IntentType = "booking_confirmation_email"
	IntentConfirmationCall  IntentType = "booking_confirmation_call"
	IntentRefundEmail       IntentType = "refund_complete_email"
)

// Intent is a notification request produced by a transition. Transitions only
// emit intents; delivery happens after the state change is persisted, so a
// failed email or call can never roll back a booking.
type Intent struct {
	Type      IntentType
	BookingID int64

	Email    string
	UserName string
	Phone    string

	Details mail.BookingDetails

	RefundAmount float64
	RefundTime   string
}

// Notifier delivers one intent. Delivery is best-effort: implementations log
// failures and never report them back to the booking flow.
type Notifier interface {
	Deliver(ctx context.Context, intent Intent)
}

// LiveNotifier delivers intents over SMTP and the Retell AI call API.
type LiveNotifier struct {
	Calls clients.RetellClientWrapper
}

// NewLiveNotifier builds the production notifier with a Retell client
// configured from the environment.
func NewLiveNotifier() *LiveNotifier {
	return &LiveNotifier{Calls: clients.NewRetellClient()}
}

// Deliver sends one notification. Failures are logged and swallowed.
func (n *LiveNotifier) Deliver(ctx context.Context, intent Intent) {
	switch intent.Type {
	case IntentConfirmationEmail:
		if err := mail.SendBookingConfirmation(intent.Email, intent.UserName, intent.Details); err != nil {
			logger.ErrorLogger.Errorf("Confirmation email for booking %d failed: %v", intent.BookingID, err)
		}

	case IntentConfirmationCall:
		metadata := map[string]interface{}{
			"customer_name": intent.UserName,
			"booking_id":    fmt.Sprintf("%d", intent.BookingID),
			"vehicle_name":  intent.Details.VehicleName,
			"booking_date":  intent.Details.StartDate,
			"booking_time":  intent.Details.StartTime,
			"duration":      fmt.Sprintf("%d hours", intent.Details.Duration),
			"total_amount":  fmt.Sprintf("%.2f", intent.Details.TotalAmount),
		}
		result := n.Calls.MakeOutboundCall(ctx, intent.Phone, metadata)
		if !result.Success {
			logger.WarnLogger.Warnf("Confirmation call for booking %d not placed: %s", intent.BookingID, result.Error)
		}

	case IntentRefundEmail:
		if err := mail.SendRefundComplete(intent.Email, intent.UserName, intent.BookingID, intent.RefundAmount, intent.RefundTime); err != nil {
			logger.ErrorLogger.Errorf("Refund email for booking %d failed: %v", intent.BookingID, err)
		}

	default:
		logger.WarnLogger.Warnf("Unknown notification intent %q for booking %d", intent.Type, intent.BookingID)
	}
}

// dispatchTimeout bounds a single notification delivery.
const dispatchTimeout = 30 * time.Second

// Dispatch hands intents to the notifier asynchronously. The HTTP response
// never waits on SMTP or the call API.
func (s *Service) Dispatch(intents []Intent) {
	for _, intent := range intents {
		go func(it Intent) {
			ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
			defer cancel()
			s.notifier.Deliver(ctx, it)
		}(intent)
	}
}
