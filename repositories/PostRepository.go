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

type MongoPostRepository struct {
	posts *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{posts: database.OpenCollection(db, database.PostCollection)}
}

func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	_, err := r.posts.InsertOne(ctx, post)
	return translate(err)
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func pageOptions(page Page) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	return opts
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, page Page) ([]models.Post, error) {
	cursor, err := r.posts.Find(ctx, filter, pageOptions(page))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPostRepository) FindRecent(ctx context.Context, page Page) ([]models.Post, error) {
	return r.find(ctx, bson.M{}, page)
}

func (r *MongoPostRepository) FindByAuthors(ctx context.Context, authors []primitive.ObjectID, page Page) ([]models.Post, error) {
	if len(authors) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"author": bson.M{"$in": authors}}, page)
}

func (r *MongoPostRepository) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return r.posts.CountDocuments(ctx, bson.M{"author": author})
}

func (r *MongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
