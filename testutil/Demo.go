package testutil

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

type DemoRepository struct {
	mu    sync.Mutex
	demos []models.Demo
}

func NewDemoRepository() *DemoRepository { return &DemoRepository{} }

func (r *DemoRepository) Create(ctx context.Context, demo *models.Demo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.demos = append(r.demos, *demo)
	return nil
}

func (r *DemoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.demos {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *DemoRepository) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Demo{}
	for _, d := range r.demos {
		if d.Owner == owner {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *DemoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.demos {
		if d.ID == id {
			r.demos = append(r.demos[:i], r.demos[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type ResetCodeRepository struct {
	mu    sync.Mutex
	codes []models.PasswordResetCode
}

func NewResetCodeRepository() *ResetCodeRepository { return &ResetCodeRepository{} }

func (r *ResetCodeRepository) Create(ctx context.Context, code *models.PasswordResetCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, *code)
	return nil
}

func (r *ResetCodeRepository) DeleteByEmail(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.codes[:0]
	for _, c := range r.codes {
		if c.Email != email {
			kept = append(kept, c)
		}
	}
	r.codes = kept
	return nil
}

func (r *ResetCodeRepository) FindLatest(ctx context.Context, email string) (*models.PasswordResetCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.PasswordResetCode
	for i := range r.codes {
		if r.codes[i].Email == email && (latest == nil || !r.codes[i].CreatedAt.Before(latest.CreatedAt)) {
			c := r.codes[i]
			latest = &c
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	return latest, nil
}

func (r *ResetCodeRepository) MarkUsed(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.codes {
		if r.codes[i].ID == id {
			r.codes[i].Used = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *ResetCodeRepository) RecordFailedAttempt(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.codes {
		if r.codes[i].ID == id {
			r.codes[i].Attempts++
			return nil
		}
	}
	return repositories.ErrNotFound
}

// Expire moves every stored code for email into the past.
func (r *ResetCodeRepository) Expire(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.codes {
		if r.codes[i].Email == email {
			r.codes[i].ExpiresAt = r.codes[i].CreatedAt.Add(-1)
		}
	}
}
