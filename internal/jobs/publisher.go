// Package jobs publishes fulfillment work for completed orders.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
)

// FulfillmentMessage describes a paid order to be fulfilled asynchronously
// (confirmation email, bookkeeping export).
type FulfillmentMessage struct {
	OrderID       string    `json:"orderId"`
	SessionID     string    `json:"sessionId"`
	ProductID     string    `json:"productId"`
	AmountTotal   int64     `json:"amountTotal"`
	Currency      string    `json:"currency"`
	CustomerEmail string    `json:"customerEmail"`
	Locale        string    `json:"locale"`
	PaidAt        time.Time `json:"paidAt"`
}

// FulfillmentPublisher enqueues fulfillment work.
type FulfillmentPublisher interface {
	PublishFulfillment(ctx context.Context, message FulfillmentMessage) (string, error)
}

// PubSubFulfillmentPublisher publishes fulfillment jobs to a Pub/Sub topic.
type PubSubFulfillmentPublisher struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

// NewPubSubFulfillmentPublisher constructs a Pub/Sub backed fulfillment publisher.
func NewPubSubFulfillmentPublisher(topic *pubsub.Topic) (*PubSubFulfillmentPublisher, error) {
	if topic == nil {
		return nil, errors.New("pubsub fulfillment publisher: topic is required")
	}
	return &PubSubFulfillmentPublisher{
		topic:   topic,
		marshal: json.Marshal,
	}, nil
}

// PublishFulfillment enqueues a fulfillment message on the configured topic.
// The session ID attribute lets subscribers deduplicate webhook redeliveries.
func (p *PubSubFulfillmentPublisher) PublishFulfillment(ctx context.Context, message FulfillmentMessage) (string, error) {
	if p == nil || p.topic == nil {
		return "", errors.New("pubsub fulfillment publisher: not initialised")
	}

	data, err := p.marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal fulfillment job: %w", err)
	}

	attrs := make(map[string]string)
	setAttr(attrs, "orderId", message.OrderID)
	setAttr(attrs, "sessionId", message.SessionID)
	setAttr(attrs, "productId", message.ProductID)
	setAttr(attrs, "locale", message.Locale)

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})

	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish fulfillment job: %w", err)
	}
	return id, nil
}

// NopFulfillmentPublisher discards messages, used when no topic is configured.
type NopFulfillmentPublisher struct{}

// PublishFulfillment discards the message.
func (NopFulfillmentPublisher) PublishFulfillment(context.Context, FulfillmentMessage) (string, error) {
	return "", nil
}

func setAttr(attrs map[string]string, key string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}
