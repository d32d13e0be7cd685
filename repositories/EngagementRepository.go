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

func deleteByPost(ctx context.Context, coll *mongo.Collection, postID primitive.ObjectID) (int64, error) {
	result, err := coll.DeleteMany(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func countByPost(ctx context.Context, coll *mongo.Collection, postID primitive.ObjectID) (int64, error) {
	return coll.CountDocuments(ctx, bson.M{"postId": postID})
}

type MongoCommentRepository struct {
	comments *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{comments: database.OpenCollection(db, database.CommentCollection)}
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	_, err := r.comments.InsertOne(ctx, comment)
	return translate(err)
}

func (r *MongoCommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) FindByPost(ctx context.Context, postID primitive.ObjectID, page Page) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	cursor, err := r.comments.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *MongoCommentRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return countByPost(ctx, r.comments, postID)
}

func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return deleteByPost(ctx, r.comments, postID)
}

type MongoLikeRepository struct {
	likes *mongo.Collection
}

func NewLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{likes: database.OpenCollection(db, database.LikeCollection)}
}

func (r *MongoLikeRepository) Create(ctx context.Context, like *models.Like) error {
	_, err := r.likes.InsertOne(ctx, like)
	return translate(err)
}

func (r *MongoLikeRepository) Delete(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	result, err := r.likes.DeleteOne(ctx, bson.M{"postId": postID, "userId": userID})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoLikeRepository) Exists(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	n, err := r.likes.CountDocuments(ctx, bson.M{"postId": postID, "userId": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoLikeRepository) FindByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Like, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.likes.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	likes := []models.Like{}
	if err := cursor.All(ctx, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *MongoLikeRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return countByPost(ctx, r.likes, postID)
}

func (r *MongoLikeRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return deleteByPost(ctx, r.likes, postID)
}

type MongoViewRepository struct {
	views *mongo.Collection
}

func NewViewRepository(db *mongo.Database) *MongoViewRepository {
	return &MongoViewRepository{views: database.OpenCollection(db, database.ViewCollection)}
}

func (r *MongoViewRepository) Upsert(ctx context.Context, postID, userID primitive.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{"postId": postID, "userId": userID}
	update := bson.M{
		"$set":         bson.M{"viewedAt": at},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	result, err := r.views.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// lost an upsert race; the other request recorded the first view
			return false, nil
		}
		return false, err
	}
	return result.UpsertedCount > 0, nil
}

func (r *MongoViewRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return countByPost(ctx, r.views, postID)
}

func (r *MongoViewRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return deleteByPost(ctx, r.views, postID)
}

type MongoDownloadRepository struct {
	downloads *mongo.Collection
}

func NewDownloadRepository(db *mongo.Database) *MongoDownloadRepository {
	return &MongoDownloadRepository{downloads: database.OpenCollection(db, database.DownloadCollection)}
}

func (r *MongoDownloadRepository) Create(ctx context.Context, download *models.Download) error {
	_, err := r.downloads.InsertOne(ctx, download)
	return translate(err)
}

func (r *MongoDownloadRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return countByPost(ctx, r.downloads, postID)
}

func (r *MongoDownloadRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return deleteByPost(ctx, r.downloads, postID)
}
