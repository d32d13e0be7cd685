package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

type CommentRepository struct {
	mu       sync.Mutex
	comments []models.Comment
}

func NewCommentRepository() *CommentRepository { return &CommentRepository{} }

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comments {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *CommentRepository) FindByPost(ctx context.Context, postID primitive.ObjectID, page repositories.Page) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return window(out, page), nil
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.comments[:0]
	var n int64
	for _, c := range r.comments {
		if c.PostID == postID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.comments = kept
	return n, nil
}

type LikeRepository struct {
	mu    sync.Mutex
	likes []models.Like
}

func NewLikeRepository() *LikeRepository { return &LikeRepository{} }

func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.likes {
		if l.PostID == like.PostID && l.UserID == like.UserID {
			return repositories.ErrDuplicate
		}
	}
	r.likes = append(r.likes, *like)
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.likes {
		if l.PostID == postID && l.UserID == userID {
			r.likes = append(r.likes[:i], r.likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *LikeRepository) Exists(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.likes {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *LikeRepository) FindByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Like{}
	for _, l := range r.likes {
		if l.PostID == postID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *LikeRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	likes, _ := r.FindByPost(ctx, postID)
	return int64(len(likes)), nil
}

func (r *LikeRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.likes[:0]
	var n int64
	for _, l := range r.likes {
		if l.PostID == postID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.likes = kept
	return n, nil
}

type ViewRepository struct {
	mu    sync.Mutex
	views []models.View
}

func NewViewRepository() *ViewRepository { return &ViewRepository{} }

func (r *ViewRepository) Upsert(ctx context.Context, postID, userID primitive.ObjectID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.views {
		if r.views[i].PostID == postID && r.views[i].UserID == userID {
			r.views[i].ViewedAt = at
			return false, nil
		}
	}
	r.views = append(r.views, models.View{ID: primitive.NewObjectID(), PostID: postID, UserID: userID, ViewedAt: at})
	return true, nil
}

func (r *ViewRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.views {
		if v.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r *ViewRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.views[:0]
	var n int64
	for _, v := range r.views {
		if v.PostID == postID {
			n++
			continue
		}
		kept = append(kept, v)
	}
	r.views = kept
	return n, nil
}

type DownloadRepository struct {
	mu        sync.Mutex
	downloads []models.Download
}

func NewDownloadRepository() *DownloadRepository { return &DownloadRepository{} }

func (r *DownloadRepository) Create(ctx context.Context, download *models.Download) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.downloads = append(r.downloads, *download)
	return nil
}

func (r *DownloadRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, d := range r.downloads {
		if d.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r *DownloadRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.downloads[:0]
	var n int64
	for _, d := range r.downloads {
		if d.PostID == postID {
			n++
			continue
		}
		kept = append(kept, d)
	}
	r.downloads = kept
	return n, nil
}
