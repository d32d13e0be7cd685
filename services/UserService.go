package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
	"github.com/SuperDex7/FeatureMe-sub000/storage"
)

const maxSearchResults = 20

type UserService struct {
	users     repositories.UserRepository
	posts     repositories.PostRepository
	relations *RelationService
	files     storage.FileStore
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewUserService(users repositories.UserRepository, posts repositories.PostRepository, relations *RelationService, files storage.FileStore, secret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		posts:     posts,
		relations: relations,
		files:     files,
		secret:    secret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

type SignUpInput struct {
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"max=50"`
}

type LoginInput struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileInput struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=50"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
}

type ChangePasswordInput struct {
	Current string `json:"current" validate:"required"`
	New     string `json:"new" validate:"required,min=8,max=72"`
}

// Profile is the public view of a user page.
type Profile struct {
	User        models.User `json:"user"`
	Followers   int64       `json:"followers"`
	Following   int64       `json:"following"`
	Posts       int64       `json:"posts"`
	IsFollowing bool        `json:"isFollowing"`
	FollowsYou  bool        `json:"followsYou"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	displayName := in.DisplayName
	if displayName == "" {
		displayName = in.Username
	}
	user := &models.User{
		ID:            primitive.NewObjectID(),
		Username:      in.Username,
		Email:         in.Email,
		Password:      string(hash),
		DisplayName:   displayName,
		Role:          models.RoleUser,
		Notifications: []models.Notification{},
		CreatedAt:     s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// lost a race with a concurrent sign up
			if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	log.Printf("users: signed up %s (%s)", user.Username, user.ID.Hex())
	return user, nil
}

// Login checks the credentials, accepting an email or a username, and
// returns the user with a freshly signed token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	if err := validateStruct(in); err != nil {
		return nil, "", err
	}
	login := strings.TrimSpace(in.Login)

	var (
		user *models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.users.FindByEmail(ctx, normalizeEmail(login))
	} else {
		user, err = s.users.FindByUsername(ctx, login)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", ErrInvalidLogin
	}
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, "", ErrInvalidLogin
	}

	token, err := helper.GenerateToken(s.secret, *user, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *UserService) Profile(ctx context.Context, username string, viewerID primitive.ObjectID) (*Profile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.relations.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	profile := &Profile{User: *user, Followers: followers, Following: following, Posts: posts}
	if !viewerID.IsZero() && viewerID != user.ID {
		if profile.IsFollowing, err = s.relations.IsFollowing(ctx, viewerID, user.ID); err != nil {
			return nil, err
		}
		if profile.FollowsYou, err = s.relations.IsFollowing(ctx, user.ID, viewerID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *UserService) Search(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	return s.users.Search(ctx, query, maxSearchResults)
}

func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileInput) (*models.User, error) {
	if in.DisplayName != nil {
		trimmed := strings.TrimSpace(*in.DisplayName)
		in.DisplayName = &trimmed
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	update := repositories.ProfileUpdate{DisplayName: in.DisplayName, Bio: in.Bio}
	if err := s.users.UpdateProfile(ctx, id, update); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// UpdateAvatar stores a new profile picture and removes the previous one.
func (s *UserService) UpdateAvatar(ctx context.Context, id primitive.ObjectID, upload Upload) (*models.User, error) {
	if !upload.isImage() {
		return nil, invalid("profile picture must be an image")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fileID, err := storeUpload(ctx, s.files, upload)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, id, repositories.ProfileUpdate{ProfilePic: &fileID}); err != nil {
		removeFiles(ctx, s.files, []string{fileID})
		return nil, err
	}
	if user.ProfilePic != "" {
		removeFiles(ctx, s.files, []string{user.ProfilePic})
	}
	user.ProfilePic = fileID
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id primitive.ObjectID, in ChangePasswordInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Current)); err != nil {
		return ErrInvalidLogin
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, string(hash))
}
