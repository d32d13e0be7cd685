package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

type ChatRepository struct {
	mu    sync.Mutex
	chats []models.Chat
}

func NewChatRepository() *ChatRepository { return &ChatRepository{} }

func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.Key == chat.Key {
			return repositories.ErrDuplicate
		}
	}
	r.chats = append(r.chats, *chat)
	return nil
}

func (r *ChatRepository) find(match func(models.Chat) bool) (*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if match(c) {
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *ChatRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	return r.find(func(c models.Chat) bool { return c.ID == id })
}

func (r *ChatRepository) FindByKey(ctx context.Context, key string) (*models.Chat, error) {
	return r.find(func(c models.Chat) bool { return c.Key == key })
}

func (r *ChatRepository) FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Chat{}
	for _, c := range r.chats {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}

func (r *ChatRepository) Touch(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.chats {
		if r.chats[i].ID == id {
			r.chats[i].LastMessageAt = at
			return nil
		}
	}
	return repositories.ErrNotFound
}

type MessageRepository struct {
	mu       sync.Mutex
	messages []models.Message
}

func NewMessageRepository() *MessageRepository { return &MessageRepository{} }

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *MessageRepository) FindByChat(ctx context.Context, chatID primitive.ObjectID, before time.Time, limit int64) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.messages {
		if m.ChatID == chatID && m.CreatedAt.Before(before) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, repositories.Page{Limit: limit}), nil
}

func (r *MessageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}
