package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one direct message between two users. Messages are never
// deleted; conversations are derived from the flat list.
type Message struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SenderID       uuid.UUID  `gorm:"column:sender_id;type:uuid;not null;index" json:"-"`
	ReceiverID     uuid.UUID  `gorm:"column:receiver_id;type:uuid;not null;index" json:"-"`
	Content        string     `gorm:"column:content;not null" json:"content"`
	RelatedOrderID *uuid.UUID `gorm:"column:related_order_id;type:uuid" json:"relatedOrder,omitempty"`
	IsRead         bool       `gorm:"column:is_read;not null;default:false" json:"isRead"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
