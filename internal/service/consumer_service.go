package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"docqa-be/internal/pkg/logger"
	"docqa-be/pkg/events"
)

// IConsumerService drains the session lifecycle topic. Today its only job is
// an audit trail in the structured log; a metrics sink would subscribe here.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub: pubSub,
		logger: log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var envelope events.Envelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages would retry forever otherwise
		return
	}

	details := map[string]interface{}{
		"occurred_at": envelope.OccurredAt,
	}
	for key, value := range envelope.Payload {
		details[key] = value
	}
	cs.logger.Info("Consumer", envelope.Type, details)

	msg.Ack()
}
