package testutil

import (
	"context"
	"log"
	"net/mail"
	"os"
	"testing"
	"time"

	"github.com/trezcool/phronisis/core"
	"github.com/trezcool/phronisis/core/artifact"
	"github.com/trezcool/phronisis/core/review"
	"github.com/trezcool/phronisis/core/user"
)

// NewConfig returns a self-contained configuration for tests.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:            false,
		TestMode:         true,
		Env:              "test",
		AppName:          "Phronisis",
		SecretKey:        "s3cr3t-t3st-k3y",
		AdminCode:        "letmein",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Phronisis", Address: "noreply@phronisis.test"},
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Review: core.ReviewConfig{
			MinReviews: 2,
			PassScore:  3.0,
		},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
}

// NewLogger returns a plain stdout core.Logger.
func NewLogger() core.Logger {
	return stdLogger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)}
}

type stdLogger struct {
	std *log.Logger
}

func (l stdLogger) Enable(bool)                        {}
func (l stdLogger) Debug(msg string, _ ...interface{}) { l.std.Println(msg) }
func (l stdLogger) Info(msg string, _ ...interface{})  { l.std.Println(msg) }
func (l stdLogger) Warn(msg string, _ ...interface{})  { l.std.Println(msg) }
func (l stdLogger) Error(msg string, _ ...interface{}) { l.std.Println(msg) }
func (l stdLogger) Fatal(msg string, _ ...interface{}) { l.std.Fatalln(msg) }

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	isAdmin bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		DisplayName: name,
		Email:       email,
		IsAdmin:     isAdmin,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateArtifact(
	t *testing.T,
	repo artifact.Repository,
	userID, perspectiveSlug, title string,
	createdAt ...time.Time,
) artifact.Artifact {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	art, err := repo.CreateArtifact(context.Background(), artifact.Artifact{
		UserID:          userID,
		PerspectiveSlug: perspectiveSlug,
		Title:           title,
		BodyText:        "An argument analysis for " + title,
		CreatedAt:       tstamp,
	})
	if err != nil {
		t.Fatalf("CreateArtifact() failed: %v", err)
	}
	return art
}

func CreateReview(
	t *testing.T,
	repo review.Repository,
	artifactID, reviewerID string,
	clarity, logic, fairness int,
) review.PeerReview {
	t.Helper()

	rev, err := repo.CreateReview(context.Background(), review.PeerReview{
		ArtifactID: artifactID,
		ReviewerID: reviewerID,
		Clarity:    clarity,
		Logic:      logic,
		Fairness:   fairness,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateReview() failed: %v", err)
	}
	return rev
}
