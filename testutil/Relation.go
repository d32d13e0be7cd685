package testutil

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

type RelationRepository struct {
	mu        sync.Mutex
	relations []models.Relation
}

func NewRelationRepository() *RelationRepository { return &RelationRepository{} }

// Len reports the number of stored relations in any state.
func (r *RelationRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.relations)
}

func (r *RelationRepository) Create(ctx context.Context, relation *models.Relation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.relations {
		if rel.Follower == relation.Follower && rel.Following == relation.Following {
			return repositories.ErrDuplicate
		}
	}
	r.relations = append(r.relations, *relation)
	return nil
}

func (r *RelationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Relation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.relations {
		if rel.ID == id {
			return &rel, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *RelationRepository) Find(ctx context.Context, follower, following primitive.ObjectID) (*models.Relation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.relations {
		if rel.Follower == follower && rel.Following == following {
			return &rel, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *RelationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rel := range r.relations {
		if rel.ID == id {
			r.relations = append(r.relations[:i], r.relations[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *RelationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RelationStatus, typ models.RelationType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.relations {
		if r.relations[i].ID == id {
			r.relations[i].Status = status
			r.relations[i].Type = typ
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *RelationRepository) list(match func(models.Relation) bool) []models.Relation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Relation{}
	for _, rel := range r.relations {
		if match(rel) {
			out = append(out, rel)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *RelationRepository) ListByFollower(ctx context.Context, follower primitive.ObjectID, status models.RelationStatus) ([]models.Relation, error) {
	return r.list(func(rel models.Relation) bool { return rel.Follower == follower && rel.Status == status }), nil
}

func (r *RelationRepository) ListByFollowing(ctx context.Context, following primitive.ObjectID, status models.RelationStatus) ([]models.Relation, error) {
	return r.list(func(rel models.Relation) bool { return rel.Following == following && rel.Status == status }), nil
}

func (r *RelationRepository) ListByFollowers(ctx context.Context, followers []primitive.ObjectID, status models.RelationStatus) ([]models.Relation, error) {
	set := map[primitive.ObjectID]bool{}
	for _, f := range followers {
		set[f] = true
	}
	return r.list(func(rel models.Relation) bool { return set[rel.Follower] && rel.Status == status }), nil
}

func (r *RelationRepository) CountByFollower(ctx context.Context, follower primitive.ObjectID, status models.RelationStatus) (int64, error) {
	list, _ := r.ListByFollower(ctx, follower, status)
	return int64(len(list)), nil
}

func (r *RelationRepository) CountByFollowing(ctx context.Context, following primitive.ObjectID, status models.RelationStatus) (int64, error) {
	list, _ := r.ListByFollowing(ctx, following, status)
	return int64(len(list)), nil
}
