package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
	"github.com/SuperDex7/FeatureMe-sub000/storage"
)

// DemoService manages the unreleased tracks users keep on their profile.
type DemoService struct {
	demos repositories.DemoRepository
	users repositories.UserRepository
	files storage.FileStore
	now   func() time.Time
}

func NewDemoService(demos repositories.DemoRepository, users repositories.UserRepository, files storage.FileStore) *DemoService {
	return &DemoService{demos: demos, users: users, files: files, now: time.Now}
}

func (s *DemoService) Upload(ctx context.Context, ownerID primitive.ObjectID, title string, file *Upload) (*models.Demo, error) {
	title = strings.TrimSpace(title)
	if err := validate.Var(title, "required,max=120"); err != nil {
		return nil, invalid("title is required and at most 120 characters")
	}
	if file == nil {
		return nil, invalid("a file is required")
	}
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	fileID, err := storeUpload(ctx, s.files, *file)
	if err != nil {
		return nil, err
	}
	demo := &models.Demo{
		ID:        primitive.NewObjectID(),
		Owner:     ownerID,
		Title:     title,
		FileID:    fileID,
		CreatedAt: s.now(),
	}
	if err := s.demos.Create(ctx, demo); err != nil {
		removeFiles(context.WithoutCancel(ctx), s.files, []string{fileID})
		return nil, err
	}
	return demo, nil
}

func (s *DemoService) ListByUsername(ctx context.Context, username string) ([]models.Demo, error) {
	owner, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.demos.FindByOwner(ctx, owner.ID)
}

func (s *DemoService) Delete(ctx context.Context, ownerID, demoID primitive.ObjectID) error {
	demo, err := s.demos.FindByID(ctx, demoID)
	if err != nil {
		return err
	}
	if demo.Owner != ownerID {
		return ErrForbidden
	}
	if err := s.demos.Delete(ctx, demoID); err != nil {
		return err
	}
	removeFiles(ctx, s.files, []string{demo.FileID})
	return nil
}
