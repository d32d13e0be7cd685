// Package testutil provides in-memory implementations of the repositories,
// the file store and the mailer for tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

func window[T any](items []T, page repositories.Page) []T {
	if page.Skip >= int64(len(items)) {
		return []T{}
	}
	items = items[page.Skip:]
	if page.Limit > 0 && int64(len(items)) > page.Limit {
		items = items[:page.Limit]
	}
	return items
}

type UserRepository struct {
	mu    sync.Mutex
	users []models.User
}

func NewUserRepository() *UserRepository { return &UserRepository{} }

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == user.ID || u.Email == user.Email || u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *UserRepository) findBy(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			u.Notifications = append([]models.Notification(nil), u.Notifications...)
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.ID == id })
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Username == username })
}

func (r *UserRepository) filter(match func(models.User) bool) []models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		if match(u) {
			out = append(out, u)
		}
	}
	return out
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	set := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return r.filter(func(u models.User) bool { return set[u.ID] }), nil
}

func (r *UserRepository) FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	set := map[string]bool{}
	for _, n := range usernames {
		set[n] = true
	}
	return r.filter(func(u models.User) bool { return set[u.Username] }), nil
}

func (r *UserRepository) Search(ctx context.Context, query string, limit int64) ([]models.User, error) {
	q := strings.ToLower(query)
	out := r.filter(func(u models.User) bool {
		return strings.HasPrefix(strings.ToLower(u.Username), q) || strings.HasPrefix(strings.ToLower(u.DisplayName), q)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return window(out, repositories.Page{Limit: limit}), nil
}

func (r *UserRepository) update(id primitive.ObjectID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			fn(&r.users[i])
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update repositories.ProfileUpdate) error {
	return r.update(id, func(u *models.User) {
		if update.DisplayName != nil {
			u.DisplayName = *update.DisplayName
		}
		if update.Bio != nil {
			u.Bio = *update.Bio
		}
		if update.ProfilePic != nil {
			u.ProfilePic = *update.ProfilePic
		}
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.update(id, func(u *models.User) { u.Password = hash })
}

func (r *UserRepository) PushNotification(ctx context.Context, id primitive.ObjectID, n models.Notification, max int) error {
	return r.update(id, func(u *models.User) {
		list := append(append([]models.Notification{}, u.Notifications...), n)
		u.Notifications = models.CapNotifications(list, max)
	})
}

func (r *UserRepository) PullNotifications(ctx context.Context, id primitive.ObjectID, typ string, from primitive.ObjectID) error {
	return r.update(id, func(u *models.User) {
		kept := []models.Notification{}
		for _, n := range u.Notifications {
			if n.Type == typ && n.From == from {
				continue
			}
			kept = append(kept, n)
		}
		u.Notifications = kept
	})
}

func (r *UserRepository) MarkNotificationsRead(ctx context.Context, id primitive.ObjectID) error {
	return r.update(id, func(u *models.User) {
		for i := range u.Notifications {
			u.Notifications[i].Read = true
		}
	})
}

func (r *UserRepository) ClearNotifications(ctx context.Context, id primitive.ObjectID) error {
	return r.update(id, func(u *models.User) { u.Notifications = []models.Notification{} })
}

func (r *UserRepository) SetPresence(ctx context.Context, id primitive.ObjectID, active bool, at time.Time) error {
	return r.update(id, func(u *models.User) {
		u.IsActive = active
		u.LastActive = at
	})
}

type PostRepository struct {
	mu    sync.Mutex
	posts []models.Post
}

func NewPostRepository() *PostRepository { return &PostRepository{} }

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, *post)
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *PostRepository) newestFirst(match func(models.Post) bool) []models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Post{}
	for _, p := range r.posts {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *PostRepository) FindRecent(ctx context.Context, page repositories.Page) ([]models.Post, error) {
	return window(r.newestFirst(func(models.Post) bool { return true }), page), nil
}

func (r *PostRepository) FindByAuthors(ctx context.Context, authors []primitive.ObjectID, page repositories.Page) ([]models.Post, error) {
	set := map[primitive.ObjectID]bool{}
	for _, a := range authors {
		set[a] = true
	}
	return window(r.newestFirst(func(p models.Post) bool { return set[p.Author] }), page), nil
}

func (r *PostRepository) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return int64(len(r.newestFirst(func(p models.Post) bool { return p.Author == author }))), nil
}

func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}
