package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Publisher delivers notification messages to the mailer.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// SQSAPI is the subset of the SQS client used by the publisher.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends every message as JSON to one queue.
type SQSPublisher struct {
	sqs      SQSAPI
	queueURL string
}

// NewSQSPublisher returns a publisher bound to a queue URL.
func NewSQSPublisher(client SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{sqs: client, queueURL: queueURL}
}

// Publish sends msg with its kind as a message attribute so consumers can filter.
func (p *SQSPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(p.queueURL),
		MessageBody: sdkaws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"kind": {
				DataType:    sdkaws.String("String"),
				StringValue: sdkaws.String(string(msg.Kind)),
			},
			"reference": {
				DataType:    sdkaws.String("String"),
				StringValue: sdkaws.String(msg.Order.Reference),
			},
		},
	}

	if _, err := p.sqs.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// LogPublisher records messages instead of sending them.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	p.logger.Info("notification",
		slog.String("kind", string(msg.Kind)),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("reference", msg.Order.Reference))
	return nil
}

// LoadAWSConfig resolves credentials from the default chain for region.
func LoadAWSConfig(ctx context.Context, region string) (sdkaws.Config, error) {
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewSQSClient builds an SQS client, optionally pointed at a local endpoint.
func NewSQSClient(cfg sdkaws.Config, endpoint string) *sqs.Client {
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	})
}
