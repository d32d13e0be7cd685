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

type MongoDemoRepository struct {
	demos *mongo.Collection
}

func NewDemoRepository(db *mongo.Database) *MongoDemoRepository {
	return &MongoDemoRepository{demos: database.OpenCollection(db, database.DemoCollection)}
}

func (r *MongoDemoRepository) Create(ctx context.Context, demo *models.Demo) error {
	_, err := r.demos.InsertOne(ctx, demo)
	return translate(err)
}

func (r *MongoDemoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Demo, error) {
	var demo models.Demo
	if err := r.demos.FindOne(ctx, bson.M{"_id": id}).Decode(&demo); err != nil {
		return nil, translate(err)
	}
	return &demo, nil
}

func (r *MongoDemoRepository) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Demo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.demos.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	demos := []models.Demo{}
	if err := cursor.All(ctx, &demos); err != nil {
		return nil, err
	}
	return demos, nil
}

func (r *MongoDemoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.demos.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
