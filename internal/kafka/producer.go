package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const EventBookingRecorded = "booking_recorded"

// BookingRecordedEvent is published after a row has been appended to the ledger.
type BookingRecordedEvent struct {
	Type           string    `json:"type"`
	ConfirmationID string    `json:"confirmation_id"`
	ProductID      string    `json:"product_id"`
	ProductTitle   string    `json:"product_title"`
	TourDate       time.Time `json:"tour_date"`
	PickupLocation string    `json:"pickup_location"`
	LeadTraveler   string    `json:"lead_traveler"`
	Country        string    `json:"country"`
	TotalPeople    int       `json:"total_people"`
	TotalPrice     float64   `json:"total_price"`
	NetPrice       int64     `json:"net_price"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
	logger  logrus.FieldLogger
}

func NewProducer(brokers []string, logger logrus.FieldLogger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
		logger:  logger,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.logger.WithFields(logrus.Fields{"topic": topic, "key": key}).Debug("published to kafka")
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and reads its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	p.logger.WithField("partitions", len(partitions)).Info("connected to kafka")
	return nil
}
