package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"go.uber.org/zap"
)

const defaultChannel = "email"

type messageService struct {
	repo       ports.MessageRepository
	classifier ports.Classifier
	logger     *zap.Logger
	now        func() time.Time
}

func NewMessageService(repo ports.MessageRepository, classifier ports.Classifier, logger *zap.Logger) ports.MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &messageService{
		repo:       repo,
		classifier: classifier,
		logger:     logger.Named("messages"),
		now:        time.Now,
	}
}

func (s *messageService) Create(ctx context.Context, input ports.CreateMessageInput) (*domain.Message, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidMessage)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidMessage)
	}

	channel := strings.ToLower(strings.TrimSpace(input.Channel))
	if channel == "" {
		channel = defaultChannel
	}

	analysis := s.classifier.Classify(input.Content)
	now := s.now()

	message := &domain.Message{
		ID:        uuid.New(),
		Title:     title,
		Content:   input.Content,
		Channel:   channel,
		Status:    domain.MessageDraft,
		Tier:      analysis.Tier,
		Analysis:  analysis,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Save(ctx, message); err != nil {
		return nil, err
	}

	s.logger.Info("message created",
		zap.Stringer("id", message.ID),
		zap.String("tier", string(message.Tier)),
		zap.Bool("compliance_review", analysis.RequiresComplianceReview),
	)
	return message, nil
}

func (s *messageService) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	messageID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidMessageID
	}

	return s.repo.GetByID(ctx, messageID)
}

func (s *messageService) Classify(content string) domain.ContentAnalysis {
	return s.classifier.Classify(content)
}

func (s *messageService) Submit(ctx context.Context, id string) (*domain.Message, error) {
	return s.transition(ctx, id, domain.MessagePendingApproval, "")
}

func (s *messageService) Approve(ctx context.Context, input ports.ReviewMessageInput) (*domain.Message, error) {
	return s.transition(ctx, input.ID, domain.MessageApproved, input.Note)
}

func (s *messageService) Reject(ctx context.Context, input ports.ReviewMessageInput) (*domain.Message, error) {
	return s.transition(ctx, input.ID, domain.MessageRejected, input.Note)
}

// Revise returns a rejected message to draft so it can be edited and
// submitted again. The review note is kept as feedback.
func (s *messageService) Revise(ctx context.Context, id string) (*domain.Message, error) {
	return s.transition(ctx, id, domain.MessageDraft, "")
}

func (s *messageService) transition(ctx context.Context, id string, next domain.MessageStatus, note string) (*domain.Message, error) {
	message, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	if !message.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, message.Status, next)
	}

	from := message.Status
	now := s.now()
	message.Status = next
	message.UpdatedAt = now
	if next == domain.MessageApproved || next == domain.MessageRejected {
		message.ReviewNote = strings.TrimSpace(note)
		message.ReviewedAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, message, from); err != nil {
		return nil, err
	}

	s.logger.Info("message status changed",
		zap.Stringer("id", message.ID),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)
	return message, nil
}
