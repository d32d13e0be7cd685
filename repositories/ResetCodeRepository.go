package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuperDex7/FeatureMe-sub000/database"
	"github.com/SuperDex7/FeatureMe-sub000/models"
)

type MongoResetCodeRepository struct {
	codes *mongo.Collection
}

func NewResetCodeRepository(db *mongo.Database) *MongoResetCodeRepository {
	return &MongoResetCodeRepository{codes: database.OpenCollection(db, database.ResetCodeCollection)}
}

func (r *MongoResetCodeRepository) Create(ctx context.Context, code *models.PasswordResetCode) error {
	_, err := r.codes.InsertOne(ctx, code)
	return translate(err)
}

func (r *MongoResetCodeRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.codes.DeleteMany(ctx, bson.M{"email": email})
	return err
}

func (r *MongoResetCodeRepository) FindLatest(ctx context.Context, email string) (*models.PasswordResetCode, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var code models.PasswordResetCode
	if err := r.codes.FindOne(ctx, bson.M{"email": email}, opts).Decode(&code); err != nil {
		return nil, translate(err)
	}
	return &code, nil
}

func (r *MongoResetCodeRepository) MarkUsed(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"used": true}})
}

func (r *MongoResetCodeRepository) RecordFailedAttempt(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{"$inc": bson.M{"attempts": 1}})
}

func (r *MongoResetCodeRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.codes.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
