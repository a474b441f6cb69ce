package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/testkit"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
	"github.com/oksasatya/go-user-accounts/pkg/mailer"
)

func newResetService(t *testing.T) (*application.PasswordResetService, *application.UserService, *testkit.UserRepository, *testkit.OTPStore, *testkit.Publisher) {
	t.Helper()
	users, repo := newUserService(t)
	otps := testkit.NewOTPStore()
	pub := &testkit.Publisher{}
	svc := application.NewPasswordResetService(users, otps, pub, 10*time.Minute, helpers.NewDiscardLogger())
	svc.GenCode = func() (string, error) { return "123456", nil }
	return svc, users, repo, otps, pub
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	svc, users, _, otps, pub := newResetService(t)
	register(t, users, "alice", "p@ss", "a@x.com")

	if err := svc.Request(ctx, "a@x.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if otps.Code("a@x.com") != "123456" {
		t.Fatalf("expected code to be stored, got %v", otps.Codes)
	}
	if len(pub.Jobs) != 1 {
		t.Fatalf("expected one email job, got %d", len(pub.Jobs))
	}
	job, ok := pub.Jobs[0].(mailer.EmailJob)
	if !ok {
		t.Fatalf("expected mailer.EmailJob, got %T", pub.Jobs[0])
	}
	if job.To != "a@x.com" || job.Template != mailer.TemplatePasswordResetOTP || job.Data["Code"] != "123456" || job.Data["ExpiresInMinutes"] != 10 {
		t.Fatalf("unexpected job %+v", job)
	}

	if err := svc.Confirm(ctx, "a@x.com", "000000", "new-pass"); !errors.Is(err, application.ErrInvalidOTP) {
		t.Fatalf("expected %v, got %v", application.ErrInvalidOTP, err)
	}
	if err := svc.Confirm(ctx, "a@x.com", "123456", "new-pass"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, ok := users.Authenticate(ctx, "alice", "new-pass"); !ok {
		t.Fatal("expected new password to authenticate")
	}
	if err := svc.Confirm(ctx, "a@x.com", "123456", "again"); !errors.Is(err, application.ErrInvalidOTP) {
		t.Fatalf("expected code to be single use, got %v", err)
	}
}

func TestPasswordResetRequestIsSilent(t *testing.T) {
	ctx := context.Background()
	svc, _, repo, otps, pub := newResetService(t)
	repo.Seed(entity.User{Username: "fed", Email: "fed@x.com", Role: entity.RoleBuyer, Provider: entity.ProviderGoogle})

	for _, email := range []string{"ghost@x.com", "fed@x.com"} {
		if err := svc.Request(ctx, email); err != nil {
			t.Fatalf("request %s: expected silent success, got %v", email, err)
		}
	}
	if len(otps.Codes) != 0 || len(pub.Jobs) != 0 {
		t.Fatalf("expected no code or job, got %v %v", otps.Codes, pub.Jobs)
	}
}

func TestPasswordResetPublishFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	svc, users, _, otps, pub := newResetService(t)
	register(t, users, "alice", "p@ss", "a@x.com")
	pub.Err = errors.New("broker down")

	if err := svc.Request(ctx, "a@x.com"); err != nil {
		t.Fatalf("expected publish failure to be swallowed, got %v", err)
	}
	if otps.Code("a@x.com") != "123456" {
		t.Fatal("expected code to be stored even when publishing fails")
	}
}

func TestPasswordResetCodeIsBoundToExactEmail(t *testing.T) {
	ctx := context.Background()
	svc, users, _, otps, _ := newResetService(t)
	register(t, users, "bob", "bob-pass", "bob@x.com")
	register(t, users, "bobby", "bobby-pass", "Bob@x.com")

	if err := svc.Request(ctx, "Bob@x.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if otps.Code("bob@x.com") != "" {
		t.Fatal("expected no code for the other account")
	}
	if err := svc.Confirm(ctx, "bob@x.com", "123456", "taken"); !errors.Is(err, application.ErrInvalidOTP) {
		t.Fatalf("expected %v, got %v", application.ErrInvalidOTP, err)
	}
	if _, ok := users.Authenticate(ctx, "bob", "bob-pass"); !ok {
		t.Fatal("expected bob's password to be untouched")
	}

	if err := svc.Confirm(ctx, "BOB@X.COM", "123456", "taken"); !errors.Is(err, application.ErrInvalidOTP) {
		t.Fatalf("expected unknown casing to be rejected, got %v", err)
	}
	if otps.Code("Bob@x.com") != "123456" {
		t.Fatal("expected a rejected confirm to leave the code in place")
	}
	if err := svc.Confirm(ctx, "Bob@x.com", "123456", "fresh"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, ok := users.Authenticate(ctx, "bobby", "fresh"); !ok {
		t.Fatal("expected the requesting account to get the new password")
	}
	if otps.Code("Bob@x.com") != "" {
		t.Fatal("expected code to be consumed")
	}
}
