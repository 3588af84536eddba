package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hairwise/hairwise-backend/internal/models"
	"github.com/hairwise/hairwise-backend/internal/rules"
	"github.com/hairwise/hairwise-backend/internal/utils"
)

// ChatTurn is one completed round-trip: the stored user message and the
// matcher's stored reply.
type ChatTurn struct {
	ConversationID      string          `json:"conversation_id"`
	ConversationCreated bool            `json:"conversation_created"`
	Title               string          `json:"title,omitempty"`
	UserMessage         *models.Message `json:"user_message"`
	AssistantMessage    *models.Message `json:"assistant_message"`
}

type ChatService interface {
	// Send runs the whole turn: ensure a conversation exists (creating one
	// on the first message), persist the user message, select a reply from
	// the rule table against the caller's profile, persist the reply.
	Send(ctx context.Context, userID, conversationID, text string) (*ChatTurn, error)
}

type chatService struct {
	convos   ConversationService
	profiles ProfileService
	table    rules.Table
	log      logrus.FieldLogger
}

func NewChatService(convos ConversationService, profiles ProfileService, table rules.Table, log logrus.FieldLogger) ChatService {
	return &chatService{convos: convos, profiles: profiles, table: table, log: log}
}

func (s *chatService) Send(ctx context.Context, userID, conversationID, text string) (*ChatTurn, error) {
	const op = "ChatService.Send"

	text = strings.TrimSpace(text)
	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing user", nil)
	}
	if text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "message text must not be empty", nil)
	}

	turn := &ChatTurn{ConversationID: conversationID}

	if conversationID == "" {
		conv, err := s.convos.Create(ctx, userID, text)
		if err != nil {
			return nil, err
		}
		turn.ConversationID = conv.ID
		turn.ConversationCreated = true
		turn.Title = conv.Title
	} else {
		conv, err := s.convos.Get(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		if conv.UserID != userID {
			return nil, utils.E(utils.CodeForbidden, op, "conversation belongs to another user", nil)
		}
		turn.Title = conv.Title
	}

	userMsg, err := s.convos.Append(ctx, turn.ConversationID, models.MessageRoleUser, text)
	if err != nil {
		return nil, err
	}
	turn.UserMessage = userMsg

	// A profile read failure must not lose the turn; the matcher is total
	// over the zero view (only filterless rules apply).
	view, err := s.profiles.FilterView(ctx, userID)
	if err != nil {
		s.log.WithField("user_id", userID).WithError(err).Warn("chat: proceeding without profile view")
		view = rules.ProfileView{}
	}

	reply := s.table.Select(view, text)

	assistantMsg, err := s.convos.Append(ctx, turn.ConversationID, models.MessageRoleAssistant, reply)
	if err != nil {
		return nil, err
	}
	turn.AssistantMessage = assistantMsg

	return turn, nil
}
