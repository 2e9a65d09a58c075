// Package events publishes membership change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	skafka "github.com/segmentio/kafka-go"
	"github.com/tendant/simple-membership/pkg/domain"
)

// EventType names a membership mutation.
type EventType string

const (
	MembershipCreated         EventType = "membership.created"
	MembershipMemberAdded     EventType = "membership.member_added"
	MembershipExtended        EventType = "membership.extended"
	MembershipDeactivated     EventType = "membership.deactivated"
	MembershipBenefitsUpdated EventType = "membership.benefits_updated"
)

// MembershipEvent describes a committed mutation and the resulting record.
type MembershipEvent struct {
	Type         EventType          `json:"type"`
	MembershipID string             `json:"membership_id"`
	Caller       domain.Principal   `json:"caller"`
	OccurredAt   time.Time          `json:"occurred_at"`
	Membership   *domain.Membership `json:"membership"`
}

// Publisher delivers membership events.
type Publisher interface {
	Publish(ctx context.Context, event MembershipEvent) error
	Close() error
}

// Writer is the subset of the kafka-go writer used by KafkaPublisher.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by membership ID.
type KafkaPublisher struct {
	writer Writer
}

// NewKafkaPublisher creates a publisher writing to topic on the given
// comma-separated broker list.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	w := &skafka.Writer{
		Addr:                   skafka.TCP(splitBrokers(brokers)...),
		Topic:                  topic,
		Balancer:               &skafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

// NewKafkaPublisherWithWriter allows injecting a test writer.
func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish marshals the event and writes it to Kafka.
func (p *KafkaPublisher) Publish(ctx context.Context, event MembershipEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := skafka.Message{
		Key:   []byte(event.MembershipID),
		Value: b,
		Headers: []skafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, MembershipEvent) error { return nil }
func (NopPublisher) Close() error                                  { return nil }

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
