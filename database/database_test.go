package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/logger"
)

type note struct {
	ID   string `gorm:"primaryKey"`
	Text string
}

func TestOpen_MemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: ":memory:", LogLevel: "silent"}, logger.Nop())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&note{}); err != nil {
		t.Fatalf("AutoMigrate() error: %v", err)
	}
	if err := db.WithContext(ctx).Create(&note{ID: "a", Text: "hello"}).Error; err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var got note
	if err := db.WithContext(ctx).First(&got, "id = ?", "a").Error; err != nil {
		t.Fatalf("First() error: %v", err)
	}
	if got.Text != "hello" {
		t.Errorf("Text = %q", got.Text)
	}

	err = db.WithContext(ctx).Create(&note{ID: "a"}).Error
	if !IsDuplicateError(err) {
		t.Errorf("duplicate insert: got %v", err)
	}
	if !apperrors.IsNotFound(FromDatabase(db.WithContext(ctx).First(&got, "id = ?", "zz").Error, "note", "zz")) {
		t.Error("missing row should translate to NOT_FOUND")
	}
}

func TestTransaction_Rollback(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: ":memory:", LogLevel: "silent"}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	_ = db.AutoMigrate(&note{})

	boom := errors.New("boom")
	err = db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&note{ID: "x"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	var count int64
	db.WithContext(ctx).Model(&note{}).Count(&count)
	if count != 0 {
		t.Errorf("count = %d after rollback", count)
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "history.db")
	c := NewComponent(Config{DSN: dsn, LogLevel: "silent"}, logger.Nop()).WithAutoMigrate(&note{})

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !c.DB().GormDB.Migrator().HasTable(&note{}) {
		t.Error("auto-migration did not create table")
	}
	if h := c.Health(ctx); h.Status != "healthy" {
		t.Errorf("health = %+v", h)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if h := c.Health(ctx); h.Status != "unhealthy" {
		t.Errorf("health after stop = %+v", h)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"bad lifetime", Config{ConnMaxLifetime: "forever"}, true},
		{"idle above open", Config{MaxOpenConns: 1, MaxIdleConns: 4}, true},
		{"bad log level", Config{LogLevel: "loud"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
