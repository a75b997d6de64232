// Package eventbridge publishes entity lifecycle events to an
// EventBridge bus. Publication is best effort; delivery failures are
// logged and never fail the originating request.
package eventbridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"mtp-backend/application/ports"
)

// source identifies this service on the bus
const source = "mtp.api"

// Publisher implements ports.EventPublisher using AWS EventBridge
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates an EventBridge-backed publisher
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends a single event to the bus
func (p *Publisher) Publish(ctx context.Context, detailType string, detail interface{}) {
	encoded, err := json.Marshal(detail)
	if err != nil {
		p.logger.Warn("Failed to marshal event detail",
			zap.String("detailType", detailType),
			zap.Error(err),
		)
		return
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.eventBusName),
				Source:       aws.String(source),
				DetailType:   aws.String(detailType),
				Detail:       aws.String(string(encoded)),
				Time:         aws.Time(time.Now().UTC()),
			},
		},
	})
	if err != nil {
		p.logger.Warn("Failed to publish event",
			zap.String("detailType", detailType),
			zap.Error(err),
		)
		return
	}
	if out.FailedEntryCount > 0 {
		p.logger.Warn("Event entry rejected by EventBridge",
			zap.String("detailType", detailType),
			zap.Int32("failedEntries", out.FailedEntryCount),
		)
	}
}

// nopPublisher drops all events; used when no bus is configured
type nopPublisher struct{}

// NewNopPublisher creates a publisher that discards events
func NewNopPublisher() ports.EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, interface{}) {}
