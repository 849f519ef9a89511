// Package events announces accepted reports on Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"termometro/models"
)

const publishTimeout = 3 * time.Second

// ReportEvent is the message value written for every accepted report.
type ReportEvent struct {
	Ubicacion   string             `json:"ubicacion"`
	Temperatura models.Temperatura `json:"temperatura"`
	Fecha       string             `json:"fecha"`
	Timestamp   time.Time          `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per accepted report, keyed by aula so
// every report for a room lands on the same partition.
type KafkaPublisher struct {
	writer   messageWriter
	topic    string
	now      func() time.Time
	inFlight sync.WaitGroup
}

// NewKafkaPublisher builds a synchronous writer for topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, topic: topic, now: time.Now}
}

// Publish writes rec to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, rec models.ReportRecord) error {
	value, err := json.Marshal(ReportEvent{
		Ubicacion:   rec.Ubicacion,
		Temperatura: rec.Temperatura,
		Fecha:       rec.Fecha,
		Timestamp:   p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode report event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(rec.Ubicacion), Value: value}); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	return nil
}

// ReportAccepted publishes rec in the background and only logs failures; the
// report is already stored at this point. Close waits for these writes.
func (p *KafkaPublisher) ReportAccepted(ctx context.Context, rec models.ReportRecord) {
	ctx = context.WithoutCancel(ctx)
	p.inFlight.Add(1)
	go func() {
		defer p.inFlight.Done()
		if err := p.Publish(ctx, rec); err != nil {
			log.Printf("❌ %v", err)
		}
	}()
}

func (p *KafkaPublisher) Close() error {
	p.inFlight.Wait()
	return p.writer.Close()
}
