package models

import "time"

// Transaction represents a single income or expense movement.
// Records are immutable once created; there is no update path.
type Transaction struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	CategoryID  uint      `gorm:"index;not null"`
	Type        string    `gorm:"size:16;index;not null"` // always copied from the category
	AmountCents int64     `gorm:"column:amount;not null"` // store in cents to avoid float
	Description string    `gorm:"size:255;not null"`
	Date        time.Time `gorm:"index;not null"` // calendar date, no time of day
	CreatedAt   time.Time

	User     User     `gorm:"constraint:OnDelete:CASCADE"`
	Category Category `gorm:"constraint:OnDelete:RESTRICT"`
}
