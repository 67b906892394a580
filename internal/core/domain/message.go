package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageStatus string

const (
	MessageDraft           MessageStatus = "DRAFT"
	MessagePendingApproval MessageStatus = "PENDING_APPROVAL"
	MessageApproved        MessageStatus = "APPROVED"
	MessageRejected        MessageStatus = "REJECTED"
)

var messageTransitions = map[MessageStatus][]MessageStatus{
	MessageDraft:           {MessagePendingApproval},
	MessagePendingApproval: {MessageApproved, MessageRejected},
	MessageRejected:        {MessageDraft},
}

// CanTransition reports whether a message may move from s to next.
func (s MessageStatus) CanTransition(next MessageStatus) bool {
	for _, allowed := range messageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Message struct {
	ID         uuid.UUID       `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	Channel    string          `json:"channel"`
	Status     MessageStatus   `json:"status"`
	Tier       ApprovalTier    `json:"tier"`
	Analysis   ContentAnalysis `json:"analysis"`
	ReviewNote string          `json:"review_note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	ReviewedAt *time.Time      `json:"reviewed_at,omitempty"`
}
