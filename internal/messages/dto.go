package messages

import (
	"time"

	"github.com/google/uuid"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
)

// SendMessageRequest carries a new direct message.
type SendMessageRequest struct {
	ReceiverID     uuid.UUID  `json:"receiver" validate:"required"`
	Content        string     `json:"content" validate:"required,max=2000"`
	RelatedOrderID *uuid.UUID `json:"relatedOrder"`
}

// MessageDTO is the wire representation of a single message.
type MessageDTO struct {
	ID             uuid.UUID  `json:"id"`
	SenderID       uuid.UUID  `json:"sender"`
	ReceiverID     uuid.UUID  `json:"receiver"`
	Content        string     `json:"content"`
	RelatedOrderID *uuid.UUID `json:"relatedOrder,omitempty"`
	IsRead         bool       `json:"isRead"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// CounterpartDTO is the other party's public identity. Name and role stay
// zero-valued when the user record no longer exists.
type CounterpartDTO struct {
	ID   uuid.UUID  `json:"id"`
	Name string     `json:"name,omitempty"`
	Role enums.Role `json:"role,omitempty"`
}

// ConversationDTO is one aggregate row per counterpart: their identity, the
// most recent message exchanged, and how many of their messages the caller
// has not read yet.
type ConversationDTO struct {
	Counterpart CounterpartDTO `json:"counterpart"`
	LastMessage MessageDTO     `json:"lastMessage"`
	UnreadCount int            `json:"unreadCount"`
}

// FromModel maps a persisted message to its DTO.
func FromModel(m *models.Message) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:             m.ID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		RelatedOrderID: m.RelatedOrderID,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

// FromModels maps a slice of messages.
func FromModels(list []models.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
