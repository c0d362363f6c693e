package events

import (
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Envelope is the wire form of an Event on the bus.
type Envelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Publisher pushes lifecycle events onto the in-process pub/sub.
type Publisher struct {
	pubSub *gochannel.GoChannel
}

func NewPublisher(pubSub *gochannel.GoChannel) *Publisher {
	return &Publisher{pubSub: pubSub}
}

func (p *Publisher) Publish(evt Event) error {
	payload, err := json.Marshal(Envelope{
		Type:       evt.EventType(),
		Payload:    evt.Payload(),
		OccurredAt: evt.Timestamp(),
	})
	if err != nil {
		return err
	}
	return p.pubSub.Publish(Topic, message.NewMessage(watermill.NewUUID(), payload))
}
