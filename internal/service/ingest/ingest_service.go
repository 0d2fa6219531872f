package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Domenick1991/tourledger/internal/catalog"
	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/kafka"
	"github.com/Domenick1991/tourledger/internal/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

type IngestUseCase interface {
	Handle(ctx context.Context, raw []byte) (*domain.Confirmation, error)
}

type LedgerAppender interface {
	Append(ctx context.Context, row domain.Row) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Service runs one webhook delivery through parse, derive, build and append.
// It keeps no per-request state between calls.
type Service struct {
	ledger      LedgerAppender
	catalog     catalog.Catalog
	countries   CountryTable
	margin      decimal.Decimal
	publisher   EventPublisher
	eventsTopic string
	logger      logrus.FieldLogger
	now         func() time.Time
	newID       func() string
}

type ServiceOption func(*Service)

func WithCountryTable(table CountryTable) ServiceOption {
	return func(s *Service) {
		s.countries = table
	}
}

func WithMarginFactor(factor float64) ServiceOption {
	return func(s *Service) {
		s.margin = decimal.NewFromFloat(factor)
	}
}

// WithEventPublisher enables best-effort booking_recorded events.
func WithEventPublisher(publisher EventPublisher, topic string) ServiceOption {
	return func(s *Service) {
		s.publisher = publisher
		s.eventsTopic = topic
	}
}

func WithLogger(logger logrus.FieldLogger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(ledger LedgerAppender, c catalog.Catalog, opts ...ServiceOption) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	service := &Service{
		ledger:    ledger,
		catalog:   c,
		countries: DefaultCountryTable,
		margin:    DefaultMarginFactor,
		logger:    discard,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *Service) Handle(ctx context.Context, raw []byte) (conf *domain.Confirmation, err error) {
	id := s.newID()
	log := s.logger.WithFields(logrus.Fields{
		"confirmation_id": id,
		"request_id":      logging.RequestID(ctx),
	})

	stage := domain.StageReceived
	defer func() {
		if r := recover(); r != nil {
			conf = nil
			err = domain.PipelineError{Stage: stage, Err: domain.InternalError{Msg: "unexpected failure", Err: fmt.Errorf("panic: %v", r)}}
		}
		if err != nil {
			entry := log.WithError(err).WithFields(logrus.Fields{"stage": stage, "error_kind": domain.Kind(err)})
			if domain.IsValidation(err) {
				entry.Warn("booking rejected")
			} else {
				entry.Error("booking failed")
			}
		}
	}()

	event, err := ParseBookingEvent(raw)
	if err != nil {
		return nil, domain.PipelineError{Stage: stage, Err: err}
	}
	stage = domain.StageParsed

	derived := Derive(event, s.catalog, s.countries, s.margin)
	stage = domain.StageDerived

	row := BuildRow(event, derived)
	stage = domain.StageBuilt

	if err := s.ledger.Append(ctx, row); err != nil {
		if !domain.IsTransientStore(err) && !domain.IsPermanentStore(err) && !domain.IsInternal(err) {
			err = domain.InternalError{Msg: "ledger append failed", Err: err}
		}
		return nil, domain.PipelineError{Stage: stage, Err: err}
	}
	stage = domain.StageAppended

	recordedAt := s.now()
	s.publish(ctx, id, event, row, recordedAt, log)
	stage = domain.StageAcknowledged

	log.WithFields(logrus.Fields{
		"product":      row.ProductTitle,
		"total_people": row.TotalPeople,
		"net_price":    row.NetPrice,
	}).Info("booking recorded")

	return &domain.Confirmation{
		ID:         id,
		Status:     domain.ConfirmationStatus,
		RecordedAt: recordedAt,
		Row:        row,
	}, nil
}

// publish never fails the request: the row is already in the ledger.
func (s *Service) publish(ctx context.Context, id string, event domain.BookingEvent, row domain.Row, recordedAt time.Time, log logrus.FieldLogger) {
	if s.publisher == nil || s.eventsTopic == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg := kafka.BookingRecordedEvent{
		Type:           kafka.EventBookingRecorded,
		ConfirmationID: id,
		ProductID:      event.ProductID,
		ProductTitle:   row.ProductTitle,
		TourDate:       event.DateTime,
		PickupLocation: row.PickupLocation,
		LeadTraveler:   row.FullName,
		Country:        row.Country,
		TotalPeople:    row.TotalPeople,
		TotalPrice:     row.TotalPrice,
		NetPrice:       row.NetPrice,
		RecordedAt:     recordedAt,
	}
	if err := s.publisher.Publish(ctx, s.eventsTopic, id, msg); err != nil {
		log.WithError(err).Warn("failed to publish booking_recorded event")
	}
}

var _ IngestUseCase = (*Service)(nil)
