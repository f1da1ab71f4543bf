package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/danielvaho2/tu-bolsillo/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database for one test, with
// foreign keys enforced like production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()

	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user.ID
}

func mustCreateCategory(t *testing.T, s *CategoryStore, ownerID uint, name, typ string) *models.Category {
	t.Helper()

	category, err := s.Create(context.Background(), ownerID, name, typ)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return category
}

func mustCreateTransaction(t *testing.T, l *Ledger, ownerID, categoryID uint, description string, amountCents int64, date time.Time) *models.Transaction {
	t.Helper()

	tx, err := l.Create(context.Background(), ownerID, categoryID, description, amountCents, date)
	if err != nil {
		t.Fatalf("create transaction %q: %v", description, err)
	}
	return tx
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
