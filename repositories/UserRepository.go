package repositories

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuperDex7/FeatureMe-sub000/database"
	"github.com/SuperDex7/FeatureMe-sub000/models"
)

type MongoUserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{users: database.OpenCollection(db, database.UserCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Notifications == nil {
		// $push needs an array, not null
		user.Notifications = []models.Notification{}
	}
	_, err := r.users.InsertOne(ctx, user)
	return translate(err)
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error) {
	cursor, err := r.users.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoUserRepository) FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	if len(usernames) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"username": bson.M{"$in": usernames}})
}

func (r *MongoUserRepository) Search(ctx context.Context, query string, limit int64) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"username": pattern},
		{"displayName": pattern},
	}}
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "username", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoUserRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error {
	set := bson.M{}
	if update.DisplayName != nil {
		set["displayName"] = *update.DisplayName
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.ProfilePic != nil {
		set["profilePic"] = *update.ProfilePic
	}
	if len(set) == 0 {
		return nil
	}
	return r.updateOne(ctx, id, bson.M{"$set": set})
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"password": hash}})
}

func (r *MongoUserRepository) PushNotification(ctx context.Context, id primitive.ObjectID, n models.Notification, max int) error {
	return r.updateOne(ctx, id, bson.M{"$push": bson.M{"notifications": bson.M{
		"$each":  []models.Notification{n},
		"$sort":  bson.M{"createdAt": 1},
		"$slice": -max,
	}}})
}

func (r *MongoUserRepository) PullNotifications(ctx context.Context, id primitive.ObjectID, typ string, from primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{"$pull": bson.M{"notifications": bson.M{"type": typ, "from": from}}})
}

func (r *MongoUserRepository) MarkNotificationsRead(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"notifications.$[].read": true}})
}

func (r *MongoUserRepository) ClearNotifications(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"notifications": []models.Notification{}}})
}

func (r *MongoUserRepository) SetPresence(ctx context.Context, id primitive.ObjectID, active bool, at time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"isActive":   active,
		"lastActive": at,
	}})
}
