package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

const (
	MaxMessageLength    = 2000
	DefaultMessageLimit = 50
	MaxMessageLimit     = 100
)

type ChatService struct {
	chats     repositories.ChatRepository
	messages  repositories.MessageRepository
	users     repositories.UserRepository
	relations *RelationService
	now       func() time.Time
}

func NewChatService(chats repositories.ChatRepository, messages repositories.MessageRepository, users repositories.UserRepository, relations *RelationService) *ChatService {
	return &ChatService{
		chats:     chats,
		messages:  messages,
		users:     users,
		relations: relations,
		now:       time.Now,
	}
}

// ChatSummary is a chat with its members resolved.
type ChatSummary struct {
	models.Chat
	Members []models.Summary `json:"members"`
}

// Open returns the chat between userID and otherID, creating it on first
// use.
func (s *ChatService) Open(ctx context.Context, userID, otherID primitive.ObjectID) (*models.Chat, error) {
	if userID == otherID {
		return nil, invalid("cannot open a chat with yourself")
	}
	if _, err := s.users.FindByID(ctx, otherID); err != nil {
		return nil, err
	}
	if blocked, err := s.relations.IsBlocked(ctx, userID, otherID); err != nil {
		return nil, err
	} else if blocked {
		return nil, ErrBlocked
	}

	key := models.ChatKey(userID, otherID)
	chat, err := s.chats.FindByKey(ctx, key)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	now := s.now()
	chat = &models.Chat{
		ID:            primitive.NewObjectID(),
		Participants:  []primitive.ObjectID{userID, otherID},
		Key:           key,
		CreatedAt:     now,
		LastMessageAt: now,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return s.chats.FindByKey(ctx, key)
		}
		return nil, err
	}
	return chat, nil
}

// Get returns the chat if userID takes part in it.
func (s *ChatService) Get(ctx context.Context, userID, chatID primitive.ObjectID) (*models.Chat, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return chat, nil
}

func (s *ChatService) Chats(ctx context.Context, userID primitive.ObjectID) ([]ChatSummary, error) {
	chats, err := s.chats.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, c := range chats {
		for _, p := range c.Participants {
			if !seen[p] {
				seen[p] = true
				ids = append(ids, p)
			}
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		summary := ChatSummary{Chat: c, Members: make([]models.Summary, 0, len(c.Participants))}
		for _, p := range c.Participants {
			if u, ok := byID[p]; ok {
				summary.Members = append(summary.Members, u.Summary())
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *ChatService) Send(ctx context.Context, senderID, chatID primitive.ObjectID, content string) (*models.Message, *models.Chat, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, nil, invalid("message must be between 1 and %d characters", MaxMessageLength)
	}
	chat, err := s.Get(ctx, senderID, chatID)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range chat.Participants {
		if p == senderID {
			continue
		}
		if blocked, err := s.relations.IsBlocked(ctx, senderID, p); err != nil {
			return nil, nil, err
		} else if blocked {
			return nil, nil, ErrBlocked
		}
	}

	msg := &models.Message{
		ID:        primitive.NewObjectID(),
		ChatID:    chatID,
		Sender:    senderID,
		Content:   content,
		Status:    models.MessageStatusSent,
		CreatedAt: s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, nil, err
	}
	if err := s.chats.Touch(ctx, chatID, msg.CreatedAt); err != nil {
		return nil, nil, err
	}
	return msg, chat, nil
}

// Messages pages backwards through a chat: up to limit messages created
// before the given time, newest first. A zero before means now.
func (s *ChatService) Messages(ctx context.Context, userID, chatID primitive.ObjectID, before time.Time, limit int64) ([]models.Message, error) {
	if _, err := s.Get(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if before.IsZero() {
		before = s.now().Add(time.Second)
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	if limit > MaxMessageLimit {
		limit = MaxMessageLimit
	}
	return s.messages.FindByChat(ctx, chatID, before, limit)
}

// DeleteMessage removes a message its sender no longer wants. The deleted
// message and its chat are returned so they can be relayed.
func (s *ChatService) DeleteMessage(ctx context.Context, userID, messageID primitive.ObjectID) (*models.Message, *models.Chat, error) {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, nil, err
	}
	if msg.Sender != userID {
		return nil, nil, ErrForbidden
	}
	chat, err := s.chats.FindByID(ctx, msg.ChatID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.messages.Delete(ctx, messageID); err != nil {
		return nil, nil, err
	}
	return msg, chat, nil
}

// SetPresence records whether the user currently holds a live connection.
func (s *ChatService) SetPresence(ctx context.Context, userID primitive.ObjectID, active bool) error {
	return s.users.SetPresence(ctx, userID, active, s.now())
}
