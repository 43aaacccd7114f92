package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/auth"
	"github.com/conduit/internal/db"
	"gorm.io/gorm"
)

type testServices struct {
	db       *gorm.DB
	users    *UserService
	profiles *ProfileService
	articles *ArticleService
	comments *CommentService
	tags     *TagService
}

var cheapParams = auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	gdb := setupServiceTestDB(t)
	run := NewRunner(gdb, 5*time.Second, nil)
	hasher := auth.NewHasher(cheapParams, 2, 5*time.Second)
	return &testServices{
		db:       gdb,
		users:    NewUserService(run, hasher),
		profiles: NewProfileService(run),
		articles: NewArticleService(run),
		comments: NewCommentService(run),
		tags:     NewTagService(run),
	}
}

func (s *testServices) register(t *testing.T, username string) *db.User {
	t.Helper()
	user, err := s.users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: username + "-password",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

type recordedFailure struct{ op, kind string }

type failureLog struct{ entries []recordedFailure }

func (f *failureLog) RecordFailure(op, kind string) {
	f.entries = append(f.entries, recordedFailure{op, kind})
}

func TestRunnerClassifiesErrors(t *testing.T) {
	gdb := setupServiceTestDB(t)
	failures := &failureLog{}
	run := NewRunner(gdb, time.Second, nil).WithFailureRecorder(failures)
	ctx := context.Background()

	err := run.inTx(ctx, "business", func(*gorm.DB) error { return apperr.Conflict("taken") })
	wantKind(t, err, apperr.KindConflict)

	err = run.inTx(ctx, "engine", func(*gorm.DB) error { return errors.New("disk I/O error") })
	wantKind(t, err, apperr.KindStorage)
	if e, _ := apperr.As(err); e.Message != "storage failure" {
		t.Fatalf("storage detail must not reach the message, got %q", e.Message)
	}

	err = run.inTx(ctx, "slow", func(*gorm.DB) error { return context.DeadlineExceeded })
	wantKind(t, err, apperr.KindTimeout)

	if len(failures.entries) != 2 {
		t.Fatalf("expected storage and timeout failures to be recorded, got %v", failures.entries)
	}
	if failures.entries[0] != (recordedFailure{"engine", "storage_error"}) {
		t.Fatalf("unexpected first failure %v", failures.entries[0])
	}
}

func TestRunnerRollsBackOnError(t *testing.T) {
	gdb := setupServiceTestDB(t)
	run := NewRunner(gdb, time.Second, nil)

	err := run.inTx(context.Background(), "partial", func(tx *gorm.DB) error {
		if err := tx.Create(&db.Tag{Name: "go"}).Error; err != nil {
			return err
		}
		return apperr.BadRequest("abort")
	})
	wantKind(t, err, apperr.KindBadRequest)

	var count int64
	if err := gdb.Model(&db.Tag{}).Count(&count).Error; err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d tags", count)
	}
}
