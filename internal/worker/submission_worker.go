package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/nawedy/melting-pot-plus/internal/blog"
	"github.com/nawedy/melting-pot-plus/internal/model"
)

const (
	submissionQueueName = "submissions"
	dlxExchange         = "submissions.dlx"
	dlqQueueName        = "submissions.dlq"
	idempotencyTTL      = 24 * time.Hour
)

var errInvalidSubmission = errors.New("invalid submission")

// SubmissionWorker consumes community submissions, runs the moderation
// checks, and publishes accepted ones into the blog store. Rejections are
// dead-lettered for manual review.
type SubmissionWorker struct {
	channel     *amqp.Channel
	blogStore   *blog.Store
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewSubmissionWorker(ch *amqp.Channel, blogStore *blog.Store, redisClient *redis.Client, log *slog.Logger) *SubmissionWorker {
	return &SubmissionWorker{
		channel:     ch,
		blogStore:   blogStore,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, submissionQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(submissionQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": submissionQueueName,
	}); err != nil {
		return fmt.Errorf("declare submission queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *SubmissionWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(submissionQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("submission worker started")
	return nil
}

func (w *SubmissionWorker) Stop() { close(w.done) }

func (w *SubmissionWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var sub model.UserSubmission
	if err := json.Unmarshal(msg.Body, &sub); err != nil {
		w.log.Error("unmarshal submission", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("submission_id", sub.ID, "author_id", sub.Author.ID)

	// Idempotency check via Redis
	idempotencyKey := "submission_processed:" + sub.ID
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("submission already processed, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := moderate(&sub); err != nil {
		log.Info("submission rejected", "reason", err)
		_ = msg.Nack(false, false) // → DLQ
		return
	}

	w.blogStore.Publish(toBlogPost(sub))

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("submission published")
}

// moderate applies the acceptance checks and flips the status. Anything that
// fails is rejected outright; there is no manual-review queue beyond the DLQ.
func moderate(sub *model.UserSubmission) error {
	switch sub.Type {
	case model.SubmissionTypeStory, model.SubmissionTypeRecipe, model.SubmissionTypePhoto, model.SubmissionTypeReview:
	default:
		sub.Status = model.SubmissionStatusRejected
		return fmt.Errorf("%w: unknown type %q", errInvalidSubmission, sub.Type)
	}
	if strings.TrimSpace(sub.Title) == "" || strings.TrimSpace(sub.Content) == "" {
		sub.Status = model.SubmissionStatusRejected
		return fmt.Errorf("%w: empty title or content", errInvalidSubmission)
	}
	if sub.Author.ID == "" {
		sub.Status = model.SubmissionStatusRejected
		return fmt.Errorf("%w: missing author", errInvalidSubmission)
	}
	sub.Status = model.SubmissionStatusApproved
	return nil
}

func toBlogPost(sub model.UserSubmission) model.BlogPost {
	return model.BlogPost{
		ID:      "community-" + sub.ID,
		Title:   model.Localized{sub.Language: sub.Title},
		Excerpt: model.Localized{sub.Language: excerptOf(sub.Content)},
		Content: model.Localized{sub.Language: sub.Content},
		Author:  sub.Author,
		Category: model.BlogCategory{
			ID:   sub.Category,
			Name: model.Localized{sub.Language: sub.Category},
			Slug: sub.Category,
		},
		Tags:             sub.Tags,
		Image:            firstImage(sub.Images),
		PublishedAt:      time.Now().UTC(),
		ReadTime:         readTimeOf(sub.Content),
		IsUserSubmission: true,
		Status:           "published",
	}
}

// excerptOf truncates on rune boundaries; much of the content here is Arabic
// or Amharic and a byte cut could split a character.
func excerptOf(content string) string {
	const maxLen = 160
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	cut := string(runes[:maxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// readTimeOf estimates minutes at 200 words per minute, minimum one.
func readTimeOf(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}
