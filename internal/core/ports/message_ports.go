package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
)

type MessageRepository interface {
	Save(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// UpdateStatus applies message's status only if the stored status is
	// still from. It returns domain.ErrInvalidTransition when another
	// writer got there first.
	UpdateStatus(ctx context.Context, message *domain.Message, from domain.MessageStatus) error
}

type Classifier interface {
	Classify(content string) domain.ContentAnalysis
}

type CreateMessageInput struct {
	Title   string
	Content string
	Channel string
}

type ReviewMessageInput struct {
	ID   string
	Note string
}

type MessageService interface {
	Create(ctx context.Context, input CreateMessageInput) (*domain.Message, error)
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	Classify(content string) domain.ContentAnalysis
	Submit(ctx context.Context, id string) (*domain.Message, error)
	Approve(ctx context.Context, input ReviewMessageInput) (*domain.Message, error)
	Reject(ctx context.Context, input ReviewMessageInput) (*domain.Message, error)
	Revise(ctx context.Context, id string) (*domain.Message, error)
}
