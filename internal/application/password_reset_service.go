package application

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-user-accounts/internal/domain/repository"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
	"github.com/oksasatya/go-user-accounts/pkg/mailer"
)

// OTPStore keeps one pending reset code per email
type OTPStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, bool, error)
	Delete(ctx context.Context, email string) error
}

// JobPublisher enqueues a JSON job for an out-of-process worker
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// PasswordResetService proves control of an email address with a one-time
// code before handing over to UserService.ResetPassword.
type PasswordResetService struct {
	Users   *UserService
	Repo    repo.UserRepository
	OTPs    OTPStore
	Pub     JobPublisher
	TTL     time.Duration
	GenCode func() (string, error)
	Logger  *logrus.Logger
}

func NewPasswordResetService(users *UserService, otps OTPStore, pub JobPublisher, ttl time.Duration, logger *logrus.Logger) *PasswordResetService {
	return &PasswordResetService{
		Users:   users,
		Repo:    users.Repo,
		OTPs:    otps,
		Pub:     pub,
		TTL:     ttl,
		GenCode: helpers.GenOTPCode,
		Logger:  logger,
	}
}

// Request issues a code for a local account. Unknown or federated emails
// succeed silently.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}
	if !u.IsLocal() {
		return nil
	}

	code, err := s.GenCode()
	if err != nil {
		return err
	}
	if err := s.OTPs.Save(ctx, u.Email, code, s.TTL); err != nil {
		return err
	}

	if s.Pub == nil {
		return nil
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Subject:  "Your password reset code",
		Template: mailer.TemplatePasswordResetOTP,
		Data: map[string]any{
			"Name":             u.FullName(),
			"Username":         u.Username,
			"Code":             code,
			"ExpiresInMinutes": int(math.Ceil(s.TTL.Minutes())),
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		// the response must not differ for known emails, so only log
		helpers.LogError(s.Logger, "publish password reset job failed", err, logrus.Fields{"user_id": u.ID})
	}
	return nil
}

// Confirm checks the code and resets the password. The code is single use
// and keyed on the stored email, so a lookup that misses never consumes it.
func (s *PasswordResetService) Confirm(ctx context.Context, email, code, newPassword string) error {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	stored, ok, err := s.OTPs.Get(ctx, u.Email)
	if err != nil {
		return err
	}
	if !ok || !helpers.OTPEqual(stored, code) {
		return ErrInvalidOTP
	}
	if err := s.Users.ResetPassword(ctx, u.Email, newPassword); err != nil {
		return err
	}
	if err := s.OTPs.Delete(ctx, u.Email); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("delete password reset code failed")
	}
	return nil
}
