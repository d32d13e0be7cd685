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

type MongoRelationRepository struct {
	relations *mongo.Collection
}

func NewRelationRepository(db *mongo.Database) *MongoRelationRepository {
	return &MongoRelationRepository{relations: database.OpenCollection(db, database.RelationCollection)}
}

func (r *MongoRelationRepository) Create(ctx context.Context, relation *models.Relation) error {
	_, err := r.relations.InsertOne(ctx, relation)
	return translate(err)
}

func (r *MongoRelationRepository) findOne(ctx context.Context, filter bson.M) (*models.Relation, error) {
	var relation models.Relation
	if err := r.relations.FindOne(ctx, filter).Decode(&relation); err != nil {
		return nil, translate(err)
	}
	return &relation, nil
}

func (r *MongoRelationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Relation, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRelationRepository) Find(ctx context.Context, follower, following primitive.ObjectID) (*models.Relation, error) {
	return r.findOne(ctx, bson.M{"follower": follower, "following": following})
}

func (r *MongoRelationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.relations.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRelationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RelationStatus, typ models.RelationType) error {
	update := bson.M{"$set": bson.M{"status": status, "type": typ}}
	result, err := r.relations.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRelationRepository) list(ctx context.Context, filter bson.M) ([]models.Relation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.relations.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	relations := []models.Relation{}
	if err := cursor.All(ctx, &relations); err != nil {
		return nil, err
	}
	return relations, nil
}

func (r *MongoRelationRepository) ListByFollower(ctx context.Context, follower primitive.ObjectID, status models.RelationStatus) ([]models.Relation, error) {
	return r.list(ctx, bson.M{"follower": follower, "status": status})
}

func (r *MongoRelationRepository) ListByFollowing(ctx context.Context, following primitive.ObjectID, status models.RelationStatus) ([]models.Relation, error) {
	return r.list(ctx, bson.M{"following": following, "status": status})
}

func (r *MongoRelationRepository) ListByFollowers(ctx context.Context, followers []primitive.ObjectID, status models.RelationStatus) ([]models.Relation, error) {
	if len(followers) == 0 {
		return []models.Relation{}, nil
	}
	return r.list(ctx, bson.M{"follower": bson.M{"$in": followers}, "status": status})
}

func (r *MongoRelationRepository) CountByFollower(ctx context.Context, follower primitive.ObjectID, status models.RelationStatus) (int64, error) {
	return r.relations.CountDocuments(ctx, bson.M{"follower": follower, "status": status})
}

func (r *MongoRelationRepository) CountByFollowing(ctx context.Context, following primitive.ObjectID, status models.RelationStatus) (int64, error) {
	return r.relations.CountDocuments(ctx, bson.M{"following": following, "status": status})
}
