package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tourledger/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender announces recorded bookings to the operations channel.
// Only a log sink exists for now.
type Sender struct {
	logger logrus.FieldLogger
}

func NewSender(logger logrus.FieldLogger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingRecordedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"confirmation_id": event.ConfirmationID,
		"product_id":      event.ProductID,
		"country":         event.Country,
		"net_price":       event.NetPrice,
	}).Info(Summary(event))
	return nil
}

// Summary renders the one-line operator message for event.
func Summary(event kafka.BookingRecordedEvent) string {
	return fmt.Sprintf("new booking: %s for %d on %s at %s, lead %s, pickup %s",
		event.ProductTitle,
		event.TotalPeople,
		event.TourDate.Format("Mon 2 Jan"),
		event.TourDate.Format("15:04"),
		event.LeadTraveler,
		event.PickupLocation,
	)
}
