package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nawedy/melting-pot-plus/internal/dto"
	"github.com/nawedy/melting-pot-plus/internal/model"
)

const submissionQueue = "submissions"

// SubmissionService accepts community blog contributions and hands them to
// the moderation worker over the submissions queue.
type SubmissionService struct {
	amqpCh *amqp.Channel
}

func NewSubmissionService(amqpCh *amqp.Channel) *SubmissionService {
	return &SubmissionService{amqpCh: amqpCh}
}

func (s *SubmissionService) Submit(ctx context.Context, req dto.SubmitPostRequest, author model.Author) (*model.UserSubmission, error) {
	sub := &model.UserSubmission{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Title:       req.Title,
		Content:     req.Content,
		Images:      req.Images,
		Author:      author,
		Category:    req.Category,
		Tags:        req.Tags,
		Language:    req.Language,
		Status:      model.SubmissionStatusPending,
		SubmittedAt: time.Now().UTC(),
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	err = s.amqpCh.PublishWithContext(ctx, "", submissionQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return nil, fmt.Errorf("publish submission: %w", err)
	}
	return sub, nil
}
