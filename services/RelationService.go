package services

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

const DefaultSuggestionLimit = 10

// RelationService keeps the follow graph: follows, friend requests and
// blocks, all stored as directed relations.
type RelationService struct {
	relations     repositories.RelationRepository
	users         repositories.UserRepository
	notifications *NotificationService
	now           func() time.Time
}

func NewRelationService(relations repositories.RelationRepository, users repositories.UserRepository, notifications *NotificationService) *RelationService {
	return &RelationService{
		relations:     relations,
		users:         users,
		notifications: notifications,
		now:           time.Now,
	}
}

// FriendRequest is a pending request together with who sent it.
type FriendRequest struct {
	models.Relation
	From models.Summary `json:"from"`
}

// find returns the relation from a to b, or nil if there is none.
func (s *RelationService) find(ctx context.Context, a, b primitive.ObjectID) (*models.Relation, error) {
	rel, err := s.relations.Find(ctx, a, b)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return rel, err
}

func (s *RelationService) checkNotBlocked(ctx context.Context, a, b primitive.ObjectID) error {
	for _, pair := range [][2]primitive.ObjectID{{a, b}, {b, a}} {
		rel, err := s.find(ctx, pair[0], pair[1])
		if err != nil {
			return err
		}
		if rel != nil && rel.Status == models.StatusBlocked {
			return ErrBlocked
		}
	}
	return nil
}

// pair loads both users, refusing self relations.
func (s *RelationService) pair(ctx context.Context, from, to primitive.ObjectID) (*models.User, error) {
	if from == to {
		return nil, ErrSelfFollow
	}
	actor, err := s.users.FindByID(ctx, from)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, to); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *RelationService) notify(ctx context.Context, to primitive.ObjectID, typ string, from *models.User, message string) {
	n := models.Notification{
		Type:         typ,
		From:         from.ID,
		FromUsername: from.Username,
		Message:      message,
		CreatedAt:    s.now(),
	}
	if err := s.notifications.Push(ctx, to, n); err != nil {
		log.Printf("relations: notify %s (%s): %v", to.Hex(), typ, err)
	}
}

func (s *RelationService) unnotify(ctx context.Context, to primitive.ObjectID, typ string, from primitive.ObjectID) {
	if err := s.notifications.Remove(ctx, to, typ, from); err != nil {
		log.Printf("relations: remove notification %s (%s): %v", to.Hex(), typ, err)
	}
}

// ToggleFollow follows followingID if followerID does not follow it yet and
// unfollows it otherwise. A pending request is withdrawn. It reports whether
// followerID follows followingID afterwards.
func (s *RelationService) ToggleFollow(ctx context.Context, followerID, followingID primitive.ObjectID) (bool, error) {
	follower, err := s.pair(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	if err := s.checkNotBlocked(ctx, followerID, followingID); err != nil {
		return false, err
	}

	existing, err := s.find(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.relations.Delete(ctx, existing.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return false, err
		}
		if existing.Status == models.StatusPending {
			s.unnotify(ctx, followingID, models.NotificationFriendRequest, followerID)
		} else {
			s.unnotify(ctx, followingID, models.NotificationFollow, followerID)
		}
		return false, nil
	}

	rel := &models.Relation{
		ID:        primitive.NewObjectID(),
		Follower:  followerID,
		Following: followingID,
		Status:    models.StatusActive,
		Type:      models.TypeFollow,
		CreatedAt: s.now(),
	}
	if err := s.relations.Create(ctx, rel); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return true, nil
		}
		return false, err
	}
	s.notify(ctx, followingID, models.NotificationFollow, follower, follower.Username+" started following you")
	return true, nil
}

func (s *RelationService) IsFollowing(ctx context.Context, followerID, followingID primitive.ObjectID) (bool, error) {
	rel, err := s.find(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return rel != nil && rel.Status == models.StatusActive, nil
}

func (s *RelationService) followingIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	rels, err := s.relations.ListByFollower(ctx, userID, models.StatusActive)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.Following)
	}
	return ids, nil
}

func (s *RelationService) followerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	rels, err := s.relations.ListByFollowing(ctx, userID, models.StatusActive)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.Follower)
	}
	return ids, nil
}

func (s *RelationService) loadUsers(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return orderUsers(ids, users), nil
}

// FollowingIDs lists who userID follows, most recent first.
func (s *RelationService) FollowingIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.followingIDs(ctx, userID)
}

func (s *RelationService) Followers(ctx context.Context, userID primitive.ObjectID) ([]models.User, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.followerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.loadUsers(ctx, ids)
}

func (s *RelationService) Following(ctx context.Context, userID primitive.ObjectID) ([]models.User, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.followingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.loadUsers(ctx, ids)
}

// Counts returns how many users follow userID and how many it follows.
func (s *RelationService) Counts(ctx context.Context, userID primitive.ObjectID) (followers, following int64, err error) {
	followers, err = s.relations.CountByFollowing(ctx, userID, models.StatusActive)
	if err != nil {
		return 0, 0, err
	}
	following, err = s.relations.CountByFollower(ctx, userID, models.StatusActive)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

// Friends lists the users userID follows that follow it back.
func (s *RelationService) Friends(ctx context.Context, userID primitive.ObjectID) ([]models.User, error) {
	following, err := s.followingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.followerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	back := make(map[primitive.ObjectID]bool, len(followers))
	for _, id := range followers {
		back[id] = true
	}
	var ids []primitive.ObjectID
	for _, id := range following {
		if back[id] {
			ids = append(ids, id)
		}
	}
	return s.loadUsers(ctx, ids)
}

// MutualConnections lists the users both a and b follow.
func (s *RelationService) MutualConnections(ctx context.Context, a, b primitive.ObjectID) ([]models.User, error) {
	fa, err := s.followingIDs(ctx, a)
	if err != nil {
		return nil, err
	}
	fb, err := s.followingIDs(ctx, b)
	if err != nil {
		return nil, err
	}
	inB := make(map[primitive.ObjectID]bool, len(fb))
	for _, id := range fb {
		inB[id] = true
	}
	var ids []primitive.ObjectID
	for _, id := range fa {
		if inB[id] {
			ids = append(ids, id)
		}
	}
	return s.loadUsers(ctx, ids)
}

// Suggestions proposes users followed by the people userID follows. The
// user itself, users it already follows or has a pending request to, and
// blocked users in either direction are left out.
func (s *RelationService) Suggestions(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	followees, err := s.followingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followees) == 0 {
		return []models.User{}, nil
	}

	exclude := map[primitive.ObjectID]bool{userID: true}
	for _, id := range followees {
		exclude[id] = true
	}
	pending, err := s.relations.ListByFollower(ctx, userID, models.StatusPending)
	if err != nil {
		return nil, err
	}
	for _, r := range pending {
		exclude[r.Following] = true
	}
	blocked, err := s.relations.ListByFollower(ctx, userID, models.StatusBlocked)
	if err != nil {
		return nil, err
	}
	for _, r := range blocked {
		exclude[r.Following] = true
	}
	blockedBy, err := s.relations.ListByFollowing(ctx, userID, models.StatusBlocked)
	if err != nil {
		return nil, err
	}
	for _, r := range blockedBy {
		exclude[r.Follower] = true
	}

	candidates, err := s.relations.ListByFollowers(ctx, followees, models.StatusActive)
	if err != nil {
		return nil, err
	}
	var ids []primitive.ObjectID
	for _, r := range candidates {
		if exclude[r.Following] {
			continue
		}
		exclude[r.Following] = true
		ids = append(ids, r.Following)
		if len(ids) == limit {
			break
		}
	}
	return s.loadUsers(ctx, ids)
}

// SendRequest asks to follow toID. Sending it again returns the pending
// request.
func (s *RelationService) SendRequest(ctx context.Context, fromID, toID primitive.ObjectID) (*models.Relation, error) {
	from, err := s.pair(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotBlocked(ctx, fromID, toID); err != nil {
		return nil, err
	}
	existing, err := s.find(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.StatusActive {
			return nil, ErrAlreadyFollowing
		}
		return existing, nil
	}

	rel := &models.Relation{
		ID:        primitive.NewObjectID(),
		Follower:  fromID,
		Following: toID,
		Status:    models.StatusPending,
		Type:      models.TypeFriendRequest,
		CreatedAt: s.now(),
	}
	if err := s.relations.Create(ctx, rel); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return s.relations.Find(ctx, fromID, toID)
		}
		return nil, err
	}
	s.notify(ctx, toID, models.NotificationFriendRequest, from, from.Username+" sent you a friend request")
	return rel, nil
}

func (s *RelationService) pendingRequest(ctx context.Context, requestID primitive.ObjectID) (*models.Relation, error) {
	rel, err := s.relations.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if rel.Status != models.StatusPending {
		return nil, ErrNotFound
	}
	return rel, nil
}

// AcceptRequest turns a pending request addressed to userID into a follow.
func (s *RelationService) AcceptRequest(ctx context.Context, userID, requestID primitive.ObjectID) (*models.Relation, error) {
	rel, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if rel.Following != userID {
		return nil, ErrForbidden
	}
	if err := s.relations.UpdateStatus(ctx, rel.ID, models.StatusActive, models.TypeFollow); err != nil {
		return nil, err
	}
	rel.Status = models.StatusActive
	rel.Type = models.TypeFollow

	s.unnotify(ctx, userID, models.NotificationFriendRequest, rel.Follower)
	if accepter, err := s.users.FindByID(ctx, userID); err == nil {
		s.notify(ctx, rel.Follower, models.NotificationRequestAccepted, accepter, accepter.Username+" accepted your friend request")
	}
	return rel, nil
}

// DeleteRequest declines (as receiver) or cancels (as sender) a pending
// request.
func (s *RelationService) DeleteRequest(ctx context.Context, userID, requestID primitive.ObjectID) error {
	rel, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if rel.Following != userID && rel.Follower != userID {
		return ErrForbidden
	}
	if err := s.relations.Delete(ctx, rel.ID); err != nil {
		return err
	}
	s.unnotify(ctx, rel.Following, models.NotificationFriendRequest, rel.Follower)
	return nil
}

// PendingRequests lists requests waiting for userID's answer.
func (s *RelationService) PendingRequests(ctx context.Context, userID primitive.ObjectID) ([]FriendRequest, error) {
	rels, err := s.relations.ListByFollowing(ctx, userID, models.StatusPending)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.Follower)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]FriendRequest, 0, len(rels))
	for _, r := range rels {
		u, ok := byID[r.Follower]
		if !ok {
			continue
		}
		out = append(out, FriendRequest{Relation: r, From: u.Summary()})
	}
	return out, nil
}

// Block removes any relation between the two users and records a block
// from blockerID to targetID. A block the target placed stays in place.
func (s *RelationService) Block(ctx context.Context, blockerID, targetID primitive.ObjectID) error {
	if blockerID == targetID {
		return invalid("cannot block yourself")
	}
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return err
	}

	forward, err := s.find(ctx, blockerID, targetID)
	if err != nil {
		return err
	}
	if forward != nil {
		if forward.Status == models.StatusBlocked {
			return nil
		}
		if err := s.relations.Delete(ctx, forward.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		s.unnotify(ctx, targetID, models.NotificationFollow, blockerID)
		s.unnotify(ctx, targetID, models.NotificationFriendRequest, blockerID)
	}
	reverse, err := s.find(ctx, targetID, blockerID)
	if err != nil {
		return err
	}
	if reverse != nil && reverse.Status != models.StatusBlocked {
		if err := s.relations.Delete(ctx, reverse.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		s.unnotify(ctx, blockerID, models.NotificationFollow, targetID)
		s.unnotify(ctx, blockerID, models.NotificationFriendRequest, targetID)
	}

	rel := &models.Relation{
		ID:        primitive.NewObjectID(),
		Follower:  blockerID,
		Following: targetID,
		Status:    models.StatusBlocked,
		Type:      models.TypeBlock,
		CreatedAt: s.now(),
	}
	if err := s.relations.Create(ctx, rel); err != nil && !errors.Is(err, repositories.ErrDuplicate) {
		return err
	}
	return nil
}

func (s *RelationService) Unblock(ctx context.Context, blockerID, targetID primitive.ObjectID) error {
	rel, err := s.relations.Find(ctx, blockerID, targetID)
	if err != nil {
		return err
	}
	if rel.Status != models.StatusBlocked {
		return ErrNotFound
	}
	return s.relations.Delete(ctx, rel.ID)
}

// IsBlocked reports whether either user blocked the other.
func (s *RelationService) IsBlocked(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	err := s.checkNotBlocked(ctx, a, b)
	if errors.Is(err, ErrBlocked) {
		return true, nil
	}
	return false, err
}
