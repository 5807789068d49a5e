package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
)

type messageRepository interface {
	Create(ctx context.Context, message *models.Message) (*models.Message, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error)
	ListThread(ctx context.Context, userID, counterpartID uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, callerID, counterpartID uuid.UUID) (int64, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service covers direct messaging and the derived conversation list.
type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageDTO, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]ConversationDTO, error)
	Thread(ctx context.Context, userID, counterpartID uuid.UUID) ([]MessageDTO, error)
	MarkAsRead(ctx context.Context, userID, counterpartID uuid.UUID) error
}

type service struct {
	repo  messageRepository
	users userReader
}

// NewService builds the messages service.
func NewService(repo messageRepository, users userReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("messages repository is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user reader is required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	if req.ReceiverID == senderID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot message yourself")
	}

	if _, err := s.users.FindByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receiver not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load receiver")
	}

	message := &models.Message{
		SenderID:       senderID,
		ReceiverID:     req.ReceiverID,
		Content:        content,
		RelatedOrderID: req.RelatedOrderID,
	}

	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create message")
	}
	return FromModel(created), nil
}

// Conversations collapses the caller's flat message history into one row per
// counterpart. Iterating most-recent-first means the first message seen for a
// counterpart is their latest, so rows are seeded once and never re-sorted;
// output keeps first-encounter order, which groups conversations by recency.
func (s *service) Conversations(ctx context.Context, userID uuid.UUID) ([]ConversationDTO, error) {
	history, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list messages")
	}

	rows := make([]ConversationDTO, 0)
	index := make(map[uuid.UUID]int)

	for i := range history {
		message := &history[i]

		counterpartID := message.SenderID
		if counterpartID == userID {
			counterpartID = message.ReceiverID
		}

		unread := 0
		if message.ReceiverID == userID && !message.IsRead {
			unread = 1
		}

		if pos, ok := index[counterpartID]; ok {
			rows[pos].UnreadCount += unread
			continue
		}

		index[counterpartID] = len(rows)
		rows = append(rows, ConversationDTO{
			Counterpart: s.resolveCounterpart(ctx, counterpartID),
			LastMessage: *FromModel(message),
			UnreadCount: unread,
		})
	}

	return rows, nil
}

func (s *service) Thread(ctx context.Context, userID, counterpartID uuid.UUID) ([]MessageDTO, error) {
	list, err := s.repo.ListThread(ctx, userID, counterpartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list thread")
	}
	return FromModels(list), nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, counterpartID uuid.UUID) error {
	if _, err := s.repo.MarkRead(ctx, userID, counterpartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark messages read")
	}
	return nil
}

// resolveCounterpart tolerates deleted users: the id survives, identity fields
// stay empty.
func (s *service) resolveCounterpart(ctx context.Context, id uuid.UUID) CounterpartDTO {
	counterpart := CounterpartDTO{ID: id}
	user, err := s.users.FindByID(ctx, id)
	if err == nil && user != nil {
		counterpart.Name = user.Name
		counterpart.Role = user.Role
	}
	return counterpart
}
