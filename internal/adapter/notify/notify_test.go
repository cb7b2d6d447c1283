package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/arkpay/internal/config"
	"github.com/polkiloo/arkpay/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: sdkaws.String("m-1")}, nil
}

type recordingPublisher struct {
	messages []Message
	err      error
}

func (r *recordingPublisher) Publish(_ context.Context, msg Message) error {
	r.messages = append(r.messages, msg)
	return r.err
}

func sampleOrder() model.Order {
	return model.Order{
		Reference: "ORD_1_abc",
		Status:    model.OrderStatusCompleted,
		Amount:    decimal.RequireFromString("1500"),
		Currency:  "NGN",
		Email:     "buyer@example.com",
		Name:      "Ada",
		CardLink:  "https://ark.id/ada",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSQSPublisherSendsJSON(t *testing.T) {
	fake := &fakeSQS{}
	publisher := NewSQSPublisher(fake, "https://sqs.local/queue")

	msg := Message{Kind: KindOrderReceived, To: "seller@example.com", Subject: "[arkID] Order Received", Order: summarize(sampleOrder())}
	if err := publisher.Publish(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("expected one message, got %d", len(fake.inputs))
	}
	input := fake.inputs[0]
	if sdkaws.ToString(input.QueueUrl) != "https://sqs.local/queue" {
		t.Fatalf("unexpected queue url %q", sdkaws.ToString(input.QueueUrl))
	}
	if sdkaws.ToString(input.MessageAttributes["kind"].StringValue) != string(KindOrderReceived) {
		t.Fatalf("expected kind attribute")
	}

	var decoded Message
	if err := json.Unmarshal([]byte(sdkaws.ToString(input.MessageBody)), &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.To != "seller@example.com" || decoded.Order.Amount != "1500.00" {
		t.Fatalf("unexpected message body: %+v", decoded)
	}
}

func TestSQSPublisherWrapsSendError(t *testing.T) {
	sendErr := errors.New("throttled")
	publisher := NewSQSPublisher(&fakeSQS{err: sendErr}, "q")
	if err := publisher.Publish(context.Background(), Message{Kind: KindPaymentSucceeded}); !errors.Is(err, sendErr) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestNotifierComposesMessages(t *testing.T) {
	rec := &recordingPublisher{}
	notifier := NewNotifier(rec, "seller@example.com", "[arkID] ", testLogger())
	order := sampleOrder()

	if err := notifier.PaymentSucceeded(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := notifier.DiscountApplied(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := notifier.OrderReceived(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		kind    Kind
		to      string
		subject string
	}{
		{KindPaymentSucceeded, "buyer@example.com", "[arkID] Payment Successful"},
		{KindDiscountApplied, "buyer@example.com", "[arkID] Discount Code Applied"},
		{KindOrderReceived, "seller@example.com", "[arkID] Order Received"},
	}
	if len(rec.messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(rec.messages))
	}
	for i, w := range want {
		got := rec.messages[i]
		if got.Kind != w.kind || got.To != w.to || got.Subject != w.subject {
			t.Errorf("message %d: got %+v, want %+v", i, got, w)
		}
		if got.Order.Reference != order.Reference {
			t.Errorf("message %d: unexpected order %+v", i, got.Order)
		}
	}
}

func TestNotifierSkipsMissingRecipient(t *testing.T) {
	rec := &recordingPublisher{}
	notifier := NewNotifier(rec, "", "", testLogger())
	order := sampleOrder()
	order.Email = ""

	if err := notifier.PaymentSucceeded(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := notifier.OrderReceived(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(rec.messages))
	}
}

func TestNotifierPropagatesPublishError(t *testing.T) {
	rec := &recordingPublisher{err: errors.New("down")}
	notifier := NewNotifier(rec, "seller@example.com", "", testLogger())
	if err := notifier.OrderReceived(context.Background(), sampleOrder()); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestLogPublisher(t *testing.T) {
	if err := NewLogPublisher(testLogger()).Publish(context.Background(), Message{Kind: KindOrderReceived}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewPublisherSelectsImplementation(t *testing.T) {
	original := loadAWSConfig
	t.Cleanup(func() { loadAWSConfig = original })

	p, err := newPublisher(publisherParams{Ctx: context.Background(), Config: &config.Config{}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*LogPublisher); !ok {
		t.Fatalf("expected log publisher without queue, got %T", p)
	}

	var gotRegion string
	loadAWSConfig = func(_ context.Context, region string) (sdkaws.Config, error) {
		gotRegion = region
		return sdkaws.Config{Region: region}, nil
	}
	cfg := &config.Config{NotifyQueueURL: "http://localhost:4566/000000000000/mail", AWSRegion: "eu-west-1", AWSEndpoint: "http://localhost:4566"}
	p, err = newPublisher(publisherParams{Ctx: context.Background(), Config: cfg, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sqsPublisher, ok := p.(*SQSPublisher)
	if !ok {
		t.Fatalf("expected SQS publisher, got %T", p)
	}
	if sqsPublisher.queueURL != cfg.NotifyQueueURL || gotRegion != "eu-west-1" {
		t.Fatalf("unexpected publisher wiring: %+v region=%q", sqsPublisher, gotRegion)
	}

	loadAWSConfig = func(context.Context, string) (sdkaws.Config, error) {
		return sdkaws.Config{}, errors.New("no credentials")
	}
	if _, err := newPublisher(publisherParams{Ctx: context.Background(), Config: cfg, Logger: testLogger()}); err == nil {
		t.Fatal("expected aws config error")
	}
}

func TestNewNotifierUsesConfig(t *testing.T) {
	rec := &recordingPublisher{}
	n := newNotifier(rec, &config.Config{SellerEmail: "s@example.com", EmailSubjectPrefix: "[x] "}, testLogger())
	if n.sellerEmail != "s@example.com" || n.subjectPrefix != "[x] " {
		t.Fatalf("unexpected notifier: %+v", n)
	}
}
