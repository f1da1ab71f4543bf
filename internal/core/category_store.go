package core

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/danielvaho2/tu-bolsillo/internal/models"

	"gorm.io/gorm"
)

// TransactionChecker is the one capability the category store needs from the
// ledger: whether any transaction still references a category.
type TransactionChecker interface {
	HasTransactionsForCategory(ctx context.Context, categoryID uint) (bool, error)
}

// CategoryStore owns category records and gates deletion on usage.
type CategoryStore struct {
	db      *gorm.DB
	checker TransactionChecker
}

func NewCategoryStore(db *gorm.DB, checker TransactionChecker) *CategoryStore {
	return &CategoryStore{db: db, checker: checker}
}

// CategoryTotal is a category together with the summed amount of its transactions.
type CategoryTotal struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
}

// List returns all categories of the owner ordered by name.
func (s *CategoryStore) List(ctx context.Context, ownerID uint) ([]models.Category, error) {
	const op = "category.list"

	categories := make([]models.Category, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name ASC, id ASC").
		Find(&categories).Error; err != nil {
		log.Printf("%s: owner=%d: %v", op, ownerID, err)
		return nil, storeErr(op, err)
	}
	return categories, nil
}

// Create stores a new category. The name is trimmed before both the
// uniqueness check and the insert; duplicates per owner are rejected
// regardless of type.
func (s *CategoryStore) Create(ctx context.Context, ownerID uint, name, typ string) (*models.Category, error) {
	const op = "category.create"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr(op, "category name is required")
	}
	if !models.ValidType(typ) {
		return nil, validationErr(op, `category type must be "income" or "expense"`)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("user_id = ? AND name = ?", ownerID, name).
		Count(&count).Error; err != nil {
		log.Printf("%s: owner=%d: %v", op, ownerID, err)
		return nil, storeErr(op, err)
	}
	if count > 0 {
		return nil, conflictErr(op, "a category with that name already exists")
	}

	category := models.Category{UserID: ownerID, Name: name, Type: typ}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		// lost a race on the unique (user_id, name) index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictErr(op, "a category with that name already exists")
		}
		log.Printf("%s: owner=%d name=%q: %v", op, ownerID, name, err)
		return nil, storeErr(op, err)
	}
	return &category, nil
}

// Delete removes a category of the owner. It fails with a conflict while any
// transaction still references the category; the check runs first, and the
// restrict foreign key closes the window against a concurrent insert.
func (s *CategoryStore) Delete(ctx context.Context, categoryID, ownerID uint) error {
	const op = "category.delete"

	var category models.Category
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID, ownerID).
		First(&category).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFoundErr(op, "category not found")
	case err != nil:
		log.Printf("%s: owner=%d category=%d: %v", op, ownerID, categoryID, err)
		return storeErr(op, err)
	}

	used, err := s.checker.HasTransactionsForCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if used {
		return conflictErr(op, "category has associated transactions")
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID, ownerID).
		Delete(&models.Category{})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			// a transaction referencing this category was inserted after the check
			return conflictErr(op, "category has associated transactions")
		}
		log.Printf("%s: owner=%d category=%d: %v", op, ownerID, categoryID, res.Error)
		return storeErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundErr(op, "category not found")
	}
	return nil
}

// ListWithTotals returns every category of the owner with the summed amount
// of its transactions; unused categories report 0.
func (s *CategoryStore) ListWithTotals(ctx context.Context, ownerID uint) ([]CategoryTotal, error) {
	const op = "category.totals"

	totals := make([]CategoryTotal, 0)
	err := s.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.id, categories.name, categories.type, COALESCE(SUM(transactions.amount), 0) AS amount_cents").
		Joins("LEFT JOIN transactions ON transactions.category_id = categories.id").
		Where("categories.user_id = ?", ownerID).
		Group("categories.id, categories.name, categories.type").
		Order("categories.name ASC, categories.id ASC").
		Scan(&totals).Error
	if err != nil {
		log.Printf("%s: owner=%d: %v", op, ownerID, err)
		return nil, storeErr(op, err)
	}
	return totals, nil
}
