package models

import "time"

// Transaction and category type tokens.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// ValidType reports whether s is a known type token.
func ValidType(s string) bool {
	return s == TypeIncome || s == TypeExpense
}

// Category represents income/expense category.
// Name is unique per user; the type is fixed at creation.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null;uniqueIndex:idx_categories_user_name"`
	Name      string `gorm:"size:64;not null;uniqueIndex:idx_categories_user_name"`
	Type      string `gorm:"size:16;index;not null"` // income / expense
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
