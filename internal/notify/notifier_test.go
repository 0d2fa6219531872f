package notify

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/tourledger/internal/kafka"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() kafka.BookingRecordedEvent {
	return kafka.BookingRecordedEvent{
		Type:           kafka.EventBookingRecorded,
		ConfirmationID: "conf-1",
		ProductID:      "prod456",
		ProductTitle:   "Sunset Kayak",
		TourDate:       time.Date(2024, 4, 12, 8, 0, 0, 0, time.UTC),
		PickupLocation: "Hotel Lisboa",
		LeadTraveler:   "Ana Silva",
		Country:        "Portugal",
		TotalPeople:    3,
		TotalPrice:     150,
		NetPrice:       104,
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t,
		"new booking: Sunset Kayak for 3 on Fri 12 Apr at 08:00, lead Ana Silva, pickup Hotel Lisboa",
		Summary(sampleEvent()),
	)
}

func TestSender_Send(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sender := NewSender(logger)

	require.NoError(t, sender.Send(context.Background(), sampleEvent()))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, Summary(sampleEvent()), entry.Message)
	assert.Equal(t, "conf-1", entry.Data["confirmation_id"])
	assert.Equal(t, int64(104), entry.Data["net_price"])
}

func TestSender_SendCanceled(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSender(logger).Send(ctx, sampleEvent())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, hook.AllEntries())
}
