package services

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"storyhub/backend/app/db"
	jwtutil "storyhub/backend/app/jwt"
	"storyhub/backend/app/models"
	"storyhub/backend/app/repo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(db.Config{Driver: "sqlite", Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection serializes writers, like row locks would
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(gdb, &models.User{}, &models.Story{}, &models.StoryLike{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

type fixture struct {
	db      *gorm.DB
	users   *UserService
	stories *StoryService
	likes   *LikeService

	mu    sync.Mutex
	clock time.Time
}

// newFileTestDB opens a sqlite file with the default connection pool, so
// goroutines really do hit the database at the same time.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(db.Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "stories.db")})
	if err != nil {
		t.Fatalf("open sqlite file: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(gdb, &models.User{}, &models.Story{}, &models.StoryLike{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(newTestDB(t))
}

func newFixtureOn(gdb *gorm.DB) *fixture {
	signer := &jwtutil.Signer{Secret: []byte("test-secret"), Issuer: "storyhub", ExpMin: 30}
	f := &fixture{
		db:      gdb,
		users:   NewUserService(repo.NewUserRepository(gdb), signer, NewMemoryRevoker()),
		stories: NewStoryService(repo.NewStoryRepository(gdb), NewContentSanitizer()),
		likes:   NewLikeService(repo.NewLikeRepository(gdb)),
		clock:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.stories.SetClock(f.tick)
	return f
}

// tick advances the fake clock one second per call.
func (f *fixture) tick() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fixture) identity(t *testing.T, token string) *Identity {
	t.Helper()
	id, err := f.users.Verify(t.Context(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	return id
}

func (f *fixture) register(t *testing.T, username string) *Identity {
	t.Helper()
	res, err := f.users.Register(username, "pw-"+username, nil)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return f.identity(t, res.Token)
}

func (f *fixture) admin(t *testing.T) *Identity {
	t.Helper()
	if err := f.users.EnsureAdmin("admin", "admin123", ""); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	res, err := f.users.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return f.identity(t, res.Token)
}

func (f *fixture) submit(t *testing.T, author *Identity, title string) *models.Story {
	t.Helper()
	s, err := f.stories.Submit(author, title, "<p>"+title+"</p>")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return s
}

func (f *fixture) approved(t *testing.T, author, admin *Identity, title string) *models.Story {
	t.Helper()
	s := f.submit(t, author, title)
	s, err := f.stories.Moderate(admin, s.ID, models.StoryApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	return s
}
