package core

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/danielvaho2/tu-bolsillo/internal/models"

	"gorm.io/gorm"
)

// RecentLimit caps the recent-transactions list on the dashboard summary.
const RecentLimit = 10

// Analysis range tokens accepted by Analysis. Anything else behaves as RangeAll.
const (
	RangeAll         = "all"
	RangeMonth       = "month"
	RangeThreeMonths = "3months"
	RangeSixMonths   = "6months"
	RangeYear        = "year"
)

const maxDescriptionLen = 255

// Ledger owns transaction records and computes the dashboard and analysis
// aggregates over them.
type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// TransactionView is a transaction enriched with its category name.
type TransactionView struct {
	ID           uint      `json:"id"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Type         string    `json:"type"`
	AmountCents  int64     `gorm:"column:amount" json:"amount_cents"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

// FinancialSummary backs the dashboard view. All sums are integer cents.
type FinancialSummary struct {
	TotalIncomeCents   int64
	TotalExpenseCents  int64
	BalanceCents       int64
	RecentTransactions []TransactionView
}

// AnalysisSummary describes the result set of an Analysis call.
type AnalysisSummary struct {
	TotalTransactions int    `json:"totalTransactions"`
	DateRange         string `json:"dateRange"`
	HasData           bool   `json:"hasData"`
}

// Analysis holds movements in a time range, the categories those movements
// use, and a small result summary.
type Analysis struct {
	Movements  []TransactionView
	Categories []models.Category
	Summary    AnalysisSummary
}

// CategoryExpense is one row of the expenses-grouped-by-category report.
type CategoryExpense struct {
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	TotalCents   int64  `json:"total_cents"`
	Count        int64  `json:"count"`
}

// dateOnly truncates t to its calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Create records a movement. The type is always copied from the resolved
// category; callers cannot supply one.
func (l *Ledger) Create(ctx context.Context, ownerID, categoryID uint, description string, amountCents int64, date time.Time) (*models.Transaction, error) {
	const op = "transaction.create"

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, validationErr(op, "description is required")
	}
	if len(description) > maxDescriptionLen {
		return nil, validationErr(op, "description is too long")
	}
	if amountCents <= 0 {
		return nil, validationErr(op, "amount must be greater than 0")
	}
	if date.IsZero() {
		date = l.now()
	}

	var category models.Category
	err := l.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID, ownerID).
		First(&category).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFoundErr(op, "category not found")
	case err != nil:
		log.Printf("%s: owner=%d category=%d: %v", op, ownerID, categoryID, err)
		return nil, storeErr(op, err)
	}

	tx := models.Transaction{
		UserID:      ownerID,
		CategoryID:  category.ID,
		Type:        category.Type,
		AmountCents: amountCents,
		Description: description,
		Date:        dateOnly(date),
	}
	if err := l.db.WithContext(ctx).Create(&tx).Error; err != nil {
		// category deleted between resolution and insert
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, notFoundErr(op, "category not found")
		}
		log.Printf("%s: owner=%d category=%d: %v", op, ownerID, categoryID, err)
		return nil, storeErr(op, err)
	}
	return &tx, nil
}

// List returns all movements of the owner, newest first, with category names.
func (l *Ledger) List(ctx context.Context, ownerID uint) ([]TransactionView, error) {
	const op = "transaction.list"

	views := make([]TransactionView, 0)
	if err := l.viewQuery(ctx).
		Where("transactions.user_id = ?", ownerID).
		Order("transactions.date DESC, transactions.id DESC").
		Scan(&views).Error; err != nil {
		log.Printf("%s: owner=%d: %v", op, ownerID, err)
		return nil, storeErr(op, err)
	}
	return views, nil
}

// Delete removes a movement of the owner.
func (l *Ledger) Delete(ctx context.Context, transactionID, ownerID uint) error {
	const op = "transaction.delete"

	res := l.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", transactionID, ownerID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		log.Printf("%s: owner=%d transaction=%d: %v", op, ownerID, transactionID, res.Error)
		return storeErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundErr(op, "transaction not found")
	}
	return nil
}

// HasTransactionsForCategory reports whether any movement references the
// category. Categories are single-owner, so no owner filter is needed.
func (l *Ledger) HasTransactionsForCategory(ctx context.Context, categoryID uint) (bool, error) {
	const op = "transaction.check-category"

	var count int64
	if err := l.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		log.Printf("%s: category=%d: %v", op, categoryID, err)
		return false, storeErr(op, err)
	}
	return count > 0, nil
}

// Summary computes income/expense totals and the most recent movements,
// optionally restricted to [from, to] (inclusive calendar dates).
func (l *Ledger) Summary(ctx context.Context, ownerID uint, from, to *time.Time) (*FinancialSummary, error) {
	const op = "transaction.summary"

	var sums struct {
		IncomeCents  int64
		ExpenseCents int64
	}
	sumQuery := l.db.WithContext(ctx).Model(&models.Transaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income_cents, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expense_cents",
			models.TypeIncome, models.TypeExpense).
		Where("user_id = ?", ownerID)
	sumQuery = applyDateWindow(sumQuery, "date", from, to)
	if err := sumQuery.Scan(&sums).Error; err != nil {
		log.Printf("%s: owner=%d: %v", op, ownerID, err)
		return nil, storeErr(op, err)
	}

	recent := make([]TransactionView, 0, RecentLimit)
	recentQuery := l.viewQuery(ctx).Where("transactions.user_id = ?", ownerID)
	recentQuery = applyDateWindow(recentQuery, "transactions.date", from, to)
	if err := recentQuery.
		Order("transactions.date DESC, transactions.id DESC").
		Limit(RecentLimit).
		Scan(&recent).Error; err != nil {
		log.Printf("%s: owner=%d: %v", op, ownerID, err)
		return nil, storeErr(op, err)
	}

	return &FinancialSummary{
		TotalIncomeCents:   sums.IncomeCents,
		TotalExpenseCents:  sums.ExpenseCents,
		BalanceCents:       sums.IncomeCents - sums.ExpenseCents,
		RecentTransactions: recent,
	}, nil
}

// Analysis returns the movements inside the named range, the categories they
// use, and a result summary. Unknown tokens behave as all-time.
func (l *Ledger) Analysis(ctx context.Context, ownerID uint, rangeToken string) (*Analysis, error) {
	const op = "transaction.analysis"

	var from *time.Time
	if start, ok := l.rangeStart(rangeToken); ok {
		from = &start
	}

	movements := make([]TransactionView, 0)
	q := l.viewQuery(ctx).Where("transactions.user_id = ?", ownerID)
	q = applyDateWindow(q, "transactions.date", from, nil)
	if err := q.
		Order("transactions.date DESC, transactions.id DESC").
		Scan(&movements).Error; err != nil {
		log.Printf("%s: owner=%d range=%s: %v", op, ownerID, rangeToken, err)
		return nil, storeErr(op, err)
	}

	// only categories that actually appear in the window, deduplicated
	categories := make([]models.Category, 0)
	seen := make(map[uint]bool)
	ids := make([]uint, 0)
	for _, m := range movements {
		if !seen[m.CategoryID] {
			seen[m.CategoryID] = true
			ids = append(ids, m.CategoryID)
		}
	}
	if len(ids) > 0 {
		if err := l.db.WithContext(ctx).
			Where("id IN ?", ids).
			Order("name ASC, id ASC").
			Find(&categories).Error; err != nil {
			log.Printf("%s: owner=%d range=%s: %v", op, ownerID, rangeToken, err)
			return nil, storeErr(op, err)
		}
	}

	return &Analysis{
		Movements:  movements,
		Categories: categories,
		Summary: AnalysisSummary{
			TotalTransactions: len(movements),
			DateRange:         rangeToken,
			HasData:           len(movements) > 0,
		},
	}, nil
}

// ExpensesByCategory groups expense movements by category, biggest total first.
func (l *Ledger) ExpensesByCategory(ctx context.Context, ownerID uint, from, to *time.Time) ([]CategoryExpense, error) {
	const op = "transaction.expenses-by-category"

	rows := make([]CategoryExpense, 0)
	q := l.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("categories.id AS category_id, categories.name AS category_name, "+
			"SUM(transactions.amount) AS total_cents, COUNT(transactions.id) AS count").
		Joins("INNER JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ?", ownerID, models.TypeExpense)
	q = applyDateWindow(q, "transactions.date", from, to)
	if err := q.
		Group("categories.id, categories.name").
		Order("total_cents DESC, categories.id ASC").
		Scan(&rows).Error; err != nil {
		log.Printf("%s: owner=%d: %v", op, ownerID, err)
		return nil, storeErr(op, err)
	}
	return rows, nil
}

// rangeStart maps a range token to its window start. The second return is
// false for all-time (including unrecognized tokens).
func (l *Ledger) rangeStart(token string) (time.Time, bool) {
	now := l.now()
	switch token {
	case RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case RangeThreeMonths:
		return dateOnly(now.AddDate(0, -3, 0)), true
	case RangeSixMonths:
		return dateOnly(now.AddDate(0, -6, 0)), true
	case RangeYear:
		// rolling lookback, same month/day one year back
		return dateOnly(now.AddDate(-1, 0, 0)), true
	default:
		return time.Time{}, false
	}
}

func (l *Ledger) viewQuery(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("transactions.id, transactions.category_id, categories.name AS category_name, " +
			"transactions.type, transactions.amount, transactions.description, " +
			"transactions.date, transactions.created_at").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id")
}

func applyDateWindow(q *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where(column+" >= ?", dateOnly(*from))
	}
	if to != nil {
		q = q.Where(column+" <= ?", dateOnly(*to))
	}
	return q
}
