package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

const (
	resetCodeTTL = 15 * time.Minute
	// maxResetAttempts wrong guesses burn a code.
	maxResetAttempts = 5
)

type PasswordResetService struct {
	users  repositories.UserRepository
	codes  repositories.ResetCodeRepository
	mailer helper.Mailer
	now    func() time.Time
}

func NewPasswordResetService(users repositories.UserRepository, codes repositories.ResetCodeRepository, mailer helper.Mailer) *PasswordResetService {
	return &PasswordResetService{users: users, codes: codes, mailer: mailer, now: time.Now}
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestReset mails a one-time code to email. Unknown addresses are
// accepted silently so the endpoint cannot be used to discover accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return invalid("email is not valid")
	}
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.codes.DeleteByEmail(ctx, email); err != nil {
		return err
	}
	now := s.now()
	record := &models.PasswordResetCode{
		ID:        primitive.NewObjectID(),
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(resetCodeTTL),
		CreatedAt: now,
	}
	if err := s.codes.Create(ctx, record); err != nil {
		return err
	}
	body := fmt.Sprintf("Your FeatureMe password reset code is %s. It expires in %d minutes.", code, int(resetCodeTTL.Minutes()))
	return s.mailer.Send(ctx, email, "Reset your password", body)
}

func (s *PasswordResetService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return err
	}
	record, err := s.codes.FindLatest(ctx, in.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	if record.Used || record.Attempts >= maxResetAttempts || !s.now().Before(record.ExpiresAt) {
		return ErrInvalidCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(in.Code)); err != nil {
		if err := s.codes.RecordFailedAttempt(ctx, record.ID); err != nil {
			return err
		}
		return ErrInvalidCode
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	return s.codes.MarkUsed(ctx, record.ID)
}
