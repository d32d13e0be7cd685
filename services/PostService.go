package services

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
	"github.com/SuperDex7/FeatureMe-sub000/storage"
)

const maxCommentLength = 1000

type PostDeps struct {
	Posts         repositories.PostRepository
	Comments      repositories.CommentRepository
	Likes         repositories.LikeRepository
	Views         repositories.ViewRepository
	Downloads     repositories.DownloadRepository
	Users         repositories.UserRepository
	Relations     *RelationService
	Notifications *NotificationService
	Files         storage.FileStore
}

type PostService struct {
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	likes         repositories.LikeRepository
	views         repositories.ViewRepository
	downloads     repositories.DownloadRepository
	users         repositories.UserRepository
	relations     *RelationService
	notifications *NotificationService
	files         storage.FileStore
	now           func() time.Time
}

func NewPostService(deps PostDeps) *PostService {
	return &PostService{
		posts:         deps.Posts,
		comments:      deps.Comments,
		likes:         deps.Likes,
		views:         deps.Views,
		downloads:     deps.Downloads,
		users:         deps.Users,
		relations:     deps.Relations,
		notifications: deps.Notifications,
		files:         deps.Files,
		now:           time.Now,
	}
}

type CreatePostInput struct {
	Title       string   `json:"title" validate:"required,max=120"`
	Description string   `json:"description" validate:"max=2000"`
	Genres      []string `json:"genres" validate:"max=5,dive,required,max=30"`
	Features    []string `json:"features" validate:"max=10,dive,required,max=30"`
	Files       []Upload `json:"-" validate:"max=5"`
}

func dedupe(values []string, skip string) []string {
	seen := map[string]bool{skip: true}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Create stores the uploads, inserts the post and notifies every featured
// user. Featured usernames that do not exist are dropped.
func (s *PostService) Create(ctx context.Context, authorID primitive.ObjectID, in CreatePostInput) (*models.PostDetails, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	features := dedupe(in.Features, author.Username)
	featured, err := s.users.FindByUsernames(ctx, features)
	if err != nil {
		return nil, err
	}
	featured = orderByUsername(features, featured)

	fileIDs, err := storeUploads(ctx, s.files, in.Files)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:             primitive.NewObjectID(),
		Author:         author.ID,
		AuthorUsername: author.Username,
		Title:          in.Title,
		Description:    strings.TrimSpace(in.Description),
		Genres:         dedupe(in.Genres, ""),
		Features:       make([]string, 0, len(featured)),
		Files:          fileIDs,
		CreatedAt:      s.now(),
	}
	for _, u := range featured {
		post.Features = append(post.Features, u.Username)
	}
	if err := s.posts.Create(ctx, post); err != nil {
		removeFiles(context.WithoutCancel(ctx), s.files, fileIDs)
		return nil, err
	}

	for _, u := range featured {
		s.notify(ctx, u.ID, models.NotificationFeature, author, post.ID, author.Username+" featured you in "+post.Title)
	}
	return &models.PostDetails{Post: *post}, nil
}

func orderByUsername(names []string, users []models.User) []models.User {
	byName := make(map[string]models.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	out := make([]models.User, 0, len(users))
	for _, n := range names {
		if u, ok := byName[n]; ok {
			out = append(out, u)
		}
	}
	return out
}

func (s *PostService) notify(ctx context.Context, to primitive.ObjectID, typ string, from *models.User, postID primitive.ObjectID, message string) {
	n := models.Notification{
		Type:         typ,
		From:         from.ID,
		FromUsername: from.Username,
		PostID:       postID,
		Message:      message,
		CreatedAt:    s.now(),
	}
	if err := s.notifications.Push(ctx, to, n); err != nil {
		log.Printf("posts: notify %s (%s): %v", to.Hex(), typ, err)
	}
}

func (s *PostService) details(ctx context.Context, post models.Post, viewerID primitive.ObjectID) (models.PostDetails, error) {
	d := models.PostDetails{Post: post}
	var err error
	if d.Likes, err = s.likes.CountByPost(ctx, post.ID); err != nil {
		return d, err
	}
	if d.Comments, err = s.comments.CountByPost(ctx, post.ID); err != nil {
		return d, err
	}
	if d.Views, err = s.views.CountByPost(ctx, post.ID); err != nil {
		return d, err
	}
	if d.Downloads, err = s.downloads.CountByPost(ctx, post.ID); err != nil {
		return d, err
	}
	if !viewerID.IsZero() {
		if d.LikedByMe, err = s.likes.Exists(ctx, post.ID, viewerID); err != nil {
			return d, err
		}
	}
	return d, nil
}

func (s *PostService) detailsList(ctx context.Context, posts []models.Post, viewerID primitive.ObjectID) ([]models.PostDetails, error) {
	out := make([]models.PostDetails, 0, len(posts))
	for _, p := range posts {
		d, err := s.details(ctx, p, viewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *PostService) Get(ctx context.Context, postID, viewerID primitive.ObjectID) (*models.PostDetails, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	d, err := s.details(ctx, *post, viewerID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PostService) ListRecent(ctx context.Context, page repositories.Page, viewerID primitive.ObjectID) ([]models.PostDetails, error) {
	posts, err := s.posts.FindRecent(ctx, page)
	if err != nil {
		return nil, err
	}
	return s.detailsList(ctx, posts, viewerID)
}

func (s *PostService) ListByAuthor(ctx context.Context, username string, page repositories.Page, viewerID primitive.ObjectID) ([]models.PostDetails, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.FindByAuthors(ctx, []primitive.ObjectID{author.ID}, page)
	if err != nil {
		return nil, err
	}
	return s.detailsList(ctx, posts, viewerID)
}

// Feed lists the posts of userID and of everyone it follows, newest first.
func (s *PostService) Feed(ctx context.Context, userID primitive.ObjectID, page repositories.Page) ([]models.PostDetails, error) {
	authors, err := s.relations.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authors = append(authors, userID)
	posts, err := s.posts.FindByAuthors(ctx, authors, page)
	if err != nil {
		return nil, err
	}
	return s.detailsList(ctx, posts, userID)
}

// Delete removes a post along with its likes, comments, views, downloads
// and stored files. Only the author may delete it.
func (s *PostService) Delete(ctx context.Context, requesterID, postID primitive.ObjectID) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Author != requesterID {
		return ErrForbidden
	}

	// files go last so a failed delete never leaves a post pointing at missing audio
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	if _, err := s.likes.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	if _, err := s.comments.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	if _, err := s.views.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	if _, err := s.downloads.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	removeFiles(ctx, s.files, post.Files)
	log.Printf("posts: deleted %s", postID.Hex())
	return nil
}

// ToggleLike likes the post if userID has not liked it and unlikes it
// otherwise. It returns the resulting state and like count.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID primitive.ObjectID) (bool, int64, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	removed, err := s.likes.Delete(ctx, postID, userID)
	if err != nil {
		return false, 0, err
	}

	liked := !removed
	if liked {
		like := &models.Like{
			ID:        primitive.NewObjectID(),
			PostID:    postID,
			UserID:    userID,
			CreatedAt: s.now(),
		}
		err := s.likes.Create(ctx, like)
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
		case err != nil:
			return false, 0, err
		case post.Author != userID:
			if liker, err := s.users.FindByID(ctx, userID); err == nil {
				s.notify(ctx, post.Author, models.NotificationLike, liker, post.ID, liker.Username+" liked "+post.Title)
			}
		}
	}

	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (s *PostService) Likers(ctx context.Context, postID primitive.ObjectID) ([]models.User, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	likes, err := s.likes.FindByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return orderUsers(ids, users), nil
}

func (s *PostService) AddComment(ctx context.Context, userID, postID primitive.ObjectID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxCommentLength {
		return nil, invalid("comment must be between 1 and %d characters", maxCommentLength)
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ID:             primitive.NewObjectID(),
		PostID:         postID,
		Author:         userID,
		AuthorUsername: user.Username,
		Text:           text,
		CreatedAt:      s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if post.Author != userID {
		s.notify(ctx, post.Author, models.NotificationComment, user, post.ID, user.Username+" commented on "+post.Title)
	}
	return comment, nil
}

func (s *PostService) Comments(ctx context.Context, postID primitive.ObjectID, page repositories.Page) ([]models.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.FindByPost(ctx, postID, page)
}

// DeleteComment lets the comment's author or the post's author remove it.
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID primitive.ObjectID) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.Author != userID {
		post, err := s.posts.FindByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.Author != userID {
			return ErrForbidden
		}
	}
	return s.comments.Delete(ctx, commentID)
}

// RecordView counts one view per user per post and returns the view count.
func (s *PostService) RecordView(ctx context.Context, userID, postID primitive.ObjectID) (int64, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return 0, err
	}
	if _, err := s.views.Upsert(ctx, postID, userID, s.now()); err != nil {
		return 0, err
	}
	return s.views.CountByPost(ctx, postID)
}

// OpenDownload opens one of the post's files and records the download.
func (s *PostService) OpenDownload(ctx context.Context, userID, postID primitive.ObjectID, fileID string) (io.ReadCloser, storage.FileInfo, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, storage.FileInfo{}, err
	}
	if !post.HasFile(fileID) {
		return nil, storage.FileInfo{}, ErrNotFound
	}
	r, info, err := s.files.Open(ctx, fileID)
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, storage.FileInfo{}, ErrNotFound
	}
	if err != nil {
		return nil, storage.FileInfo{}, err
	}
	download := &models.Download{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    userID,
		FileID:    fileID,
		CreatedAt: s.now(),
	}
	if err := s.downloads.Create(ctx, download); err != nil {
		r.Close()
		return nil, storage.FileInfo{}, err
	}
	return r, info, nil
}
