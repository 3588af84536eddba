package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hairwise/hairwise-backend/internal/livesync"
	"github.com/hairwise/hairwise-backend/internal/models"
	pgrepo "github.com/hairwise/hairwise-backend/internal/repositories/postgres"
	"github.com/hairwise/hairwise-backend/internal/utils"
)

// TitleMaxRunes is the longest a conversation title gets before the first
// message is cut and an ellipsis marker appended.
const TitleMaxRunes = 50

type ConversationService interface {
	// Create opens a conversation for its first user message. Callers must
	// not blind-retry a failure: the write's outcome is unknown and a
	// retry could duplicate the conversation.
	Create(ctx context.Context, ownerID, firstMessage string) (*models.Conversation, error)
	Get(ctx context.Context, conversationID string) (*models.Conversation, error)
	Append(ctx context.Context, conversationID string, role models.MessageRole, content string) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int64, error)
	ListConversations(ctx context.Context, ownerID string, limit int) ([]models.Conversation, error)
}

type conversationService struct {
	convos pgrepo.ConversationRepo
	msgs   pgrepo.MessageRepo
	sync   livesync.Broker
	log    logrus.FieldLogger
}

func NewConversationService(convos pgrepo.ConversationRepo, msgs pgrepo.MessageRepo, sync livesync.Broker, log logrus.FieldLogger) ConversationService {
	return &conversationService{convos: convos, msgs: msgs, sync: sync, log: log}
}

func (s *conversationService) Create(ctx context.Context, ownerID, firstMessage string) (*models.Conversation, error) {
	const op = "ConversationService.Create"

	if ownerID == "" || firstMessage == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner_id and first message are required", nil)
	}

	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     DeriveTitle(firstMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.convos.Insert(ctx, conv); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to create conversation", err)
	}

	s.notify(ctx, ownerID, livesync.KindInsert)
	return conv, nil
}

func (s *conversationService) Get(ctx context.Context, conversationID string) (*models.Conversation, error) {
	const op = "ConversationService.Get"

	if conversationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "conversation_id is required", nil)
	}

	conv, err := s.convos.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "conversation not found", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to get conversation", err)
	}
	return conv, nil
}

func (s *conversationService) Append(ctx context.Context, conversationID string, role models.MessageRole, content string) (*models.Message, error) {
	const op = "ConversationService.Append"

	if content == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "content must not be empty", nil)
	}
	if role != models.MessageRoleUser && role != models.MessageRoleAssistant {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role must be user or assistant", nil)
	}

	conv, err := s.convos.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "conversation not found", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to load conversation", err)
	}

	now := time.Now().UTC()
	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}

	if err := s.msgs.Insert(ctx, msg); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to append message", err)
	}

	// Two writes, one logical operation. If the touch fails the message
	// is already durable and the conversation is merely stale in lists,
	// never corrupt.
	if err := s.convos.Touch(ctx, conv.ID, now); err != nil {
		s.log.WithFields(logrus.Fields{
			"conversation_id": conv.ID,
			"error":           err.Error(),
		}).Warn("append: conversation timestamp not bumped")
	}

	s.notify(ctx, conv.UserID, livesync.KindUpdate)
	return msg, nil
}

func (s *conversationService) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	const op = "ConversationService.ListMessages"

	if conversationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "conversation_id is required", nil)
	}

	rows, err := s.msgs.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to list messages", err)
	}
	return rows, nil
}

func (s *conversationService) CountMessages(ctx context.Context, conversationID string) (int64, error) {
	const op = "ConversationService.CountMessages"

	if conversationID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "conversation_id is required", nil)
	}

	n, err := s.msgs.CountByConversation(ctx, conversationID)
	if err != nil {
		return 0, utils.E(utils.CodeUnavailable, op, "failed to count messages", err)
	}
	return n, nil
}

func (s *conversationService) ListConversations(ctx context.Context, ownerID string, limit int) ([]models.Conversation, error) {
	const op = "ConversationService.ListConversations"

	if ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner_id is required", nil)
	}

	rows, err := s.convos.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to list conversations", err)
	}
	return rows, nil
}

// notify is best-effort: a missed hint only means a client re-queries a
// little later.
func (s *conversationService) notify(ctx context.Context, ownerID string, kind livesync.Kind) {
	if s.sync == nil {
		return
	}
	for _, scope := range []string{livesync.OwnerScope(ownerID), livesync.ScopeConversations} {
		if err := s.sync.Publish(ctx, livesync.Event{Scope: scope, Kind: kind}); err != nil {
			s.log.WithField("scope", scope).WithError(err).Warn("livesync publish failed")
		}
	}
}

// DeriveTitle cuts the first user message down to a list-friendly title.
// Counts runes, not bytes, so multibyte text never gets split mid-character.
func DeriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= TitleMaxRunes {
		return firstMessage
	}
	return string(runes[:TitleMaxRunes]) + "..."
}
