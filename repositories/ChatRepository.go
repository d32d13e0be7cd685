package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuperDex7/FeatureMe-sub000/database"
	"github.com/SuperDex7/FeatureMe-sub000/models"
)

type MongoChatRepository struct {
	chats *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{chats: database.OpenCollection(db, database.ChatCollection)}
}

func (r *MongoChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	_, err := r.chats.InsertOne(ctx, chat)
	return translate(err)
}

func (r *MongoChatRepository) findOne(ctx context.Context, filter bson.M) (*models.Chat, error) {
	var chat models.Chat
	if err := r.chats.FindOne(ctx, filter).Decode(&chat); err != nil {
		return nil, translate(err)
	}
	return &chat, nil
}

func (r *MongoChatRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoChatRepository) FindByKey(ctx context.Context, key string) (*models.Chat, error) {
	return r.findOne(ctx, bson.M{"key": key})
}

func (r *MongoChatRepository) FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})
	cursor, err := r.chats.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := []models.Chat{}
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *MongoChatRepository) Touch(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.chats.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastMessageAt": at}})
	return err
}

type MongoMessageRepository struct {
	messages *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{messages: database.OpenCollection(db, database.MessageCollection)}
}

func (r *MongoMessageRepository) Create(ctx context.Context, message *models.Message) error {
	_, err := r.messages.InsertOne(ctx, message)
	return translate(err)
}

func (r *MongoMessageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var message models.Message
	if err := r.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&message); err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

func (r *MongoMessageRepository) FindByChat(ctx context.Context, chatID primitive.ObjectID, before time.Time, limit int64) ([]models.Message, error) {
	filter := bson.M{"chatId": chatID, "createdAt": bson.M{"$lt": before}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MongoMessageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.messages.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
