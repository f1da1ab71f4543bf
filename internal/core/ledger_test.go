package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/danielvaho2/tu-bolsillo/internal/models"
)

func TestLedger_CreateDerivesTypeFromCategory(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "derive@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)
	salary := mustCreateCategory(t, store, owner, "Salary", models.TypeIncome)

	expense, err := ledger.Create(ctx, owner, food.ID, "groceries", 5000, date(2025, time.March, 1))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if expense.Type != models.TypeExpense {
		t.Errorf("expense type = %q, want %q", expense.Type, models.TypeExpense)
	}

	income, err := ledger.Create(ctx, owner, salary.ID, "march salary", 200000, date(2025, time.March, 1))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if income.Type != models.TypeIncome {
		t.Errorf("income type = %q, want %q", income.Type, models.TypeIncome)
	}
}

func TestLedger_CreateForeignCategory(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "intruder@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)

	// another owner's category must behave like a missing one
	_, err := ledger.Create(ctx, other, food.ID, "sneaky", 100, date(2025, time.March, 1))
	if CodeOf(err) != CodeNotFound {
		t.Errorf("Create(foreign category) code = %v, want CodeNotFound", CodeOf(err))
	}

	// and nothing was written
	views, err := ledger.List(ctx, owner)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 0 {
		t.Errorf("List() = %v, want no transactions", views)
	}
}

func TestLedger_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "txvalidation@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)
	when := date(2025, time.March, 1)

	tests := []struct {
		name        string
		description string
		amountCents int64
	}{
		{"zero amount", "groceries", 0},
		{"negative amount", "groceries", -100},
		{"empty description", "", 100},
		{"blank description", "   ", 100},
		{"overlong description", strings.Repeat("x", 256), 100},
	}

	for _, tc := range tests {
		_, err := ledger.Create(ctx, owner, food.ID, tc.description, tc.amountCents, when)
		if err == nil {
			t.Errorf("%s: Create() error = nil, want validation error", tc.name)
			continue
		}
		if CodeOf(err) != CodeValidation {
			t.Errorf("%s: Create() code = %v, want CodeValidation", tc.name, CodeOf(err))
		}
	}
}

func TestLedger_CreateDefaultsDateToToday(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	ledger.now = func() time.Time { return time.Date(2025, time.June, 15, 13, 45, 0, 0, time.UTC) }
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "today@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)

	tx, err := ledger.Create(ctx, owner, food.ID, "groceries", 100, time.Time{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if want := date(2025, time.June, 15); !tx.Date.Equal(want) {
		t.Errorf("default date = %v, want %v", tx.Date, want)
	}

	// future dates are not rejected
	if _, err := ledger.Create(ctx, owner, food.ID, "prepaid rent", 100, date(2026, time.January, 1)); err != nil {
		t.Errorf("Create(future date) error = %v, want nil", err)
	}
}

func TestLedger_ListOrdering(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "listorder@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)

	older := mustCreateTransaction(t, ledger, owner, food.ID, "older", 100, date(2025, time.March, 1))
	sameDayFirst := mustCreateTransaction(t, ledger, owner, food.ID, "same day first", 200, date(2025, time.March, 5))
	sameDaySecond := mustCreateTransaction(t, ledger, owner, food.ID, "same day second", 300, date(2025, time.March, 5))

	views, err := ledger.List(ctx, owner)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	// date desc, then id desc: newest insertion on the same day wins
	wantIDs := []uint{sameDaySecond.ID, sameDayFirst.ID, older.ID}
	if len(views) != len(wantIDs) {
		t.Fatalf("List() returned %d rows, want %d", len(views), len(wantIDs))
	}
	for i, id := range wantIDs {
		if views[i].ID != id {
			t.Errorf("List()[%d].ID = %d, want %d", i, views[i].ID, id)
		}
	}
	if views[0].CategoryName != "Food" {
		t.Errorf("List()[0].CategoryName = %q, want %q", views[0].CategoryName, "Food")
	}

	// identical result on a second read
	again, err := ledger.List(ctx, owner)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for i := range views {
		if again[i].ID != views[i].ID {
			t.Errorf("List() not stable at index %d", i)
		}
	}
}

func TestLedger_DeleteNotFound(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "txdelete@example.com")
	other := createTestUser(t, db, "txother@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)
	tx := mustCreateTransaction(t, ledger, owner, food.ID, "groceries", 100, date(2025, time.March, 1))

	if err := ledger.Delete(ctx, 9999, owner); CodeOf(err) != CodeNotFound {
		t.Errorf("Delete(unknown) code = %v, want CodeNotFound", CodeOf(err))
	}
	if err := ledger.Delete(ctx, tx.ID, other); CodeOf(err) != CodeNotFound {
		t.Errorf("Delete(foreign) code = %v, want CodeNotFound", CodeOf(err))
	}
	if err := ledger.Delete(ctx, tx.ID, owner); err != nil {
		t.Errorf("Delete() error = %v, want nil", err)
	}
}

func TestLedger_HasTransactionsForCategory(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "haschecks@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)
	transport := mustCreateCategory(t, store, owner, "Transport", models.TypeExpense)

	mustCreateTransaction(t, ledger, owner, food.ID, "groceries", 100, date(2025, time.March, 1))

	used, err := ledger.HasTransactionsForCategory(ctx, food.ID)
	if err != nil {
		t.Fatalf("HasTransactionsForCategory() error = %v", err)
	}
	if !used {
		t.Error("HasTransactionsForCategory(food) = false, want true")
	}

	unused, err := ledger.HasTransactionsForCategory(ctx, transport.ID)
	if err != nil {
		t.Fatalf("HasTransactionsForCategory() error = %v", err)
	}
	if unused {
		t.Error("HasTransactionsForCategory(transport) = true, want false")
	}
}

func TestLedger_Summary(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "summary@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)
	salary := mustCreateCategory(t, store, owner, "Salary", models.TypeIncome)

	mustCreateTransaction(t, ledger, owner, food.ID, "groceries", 5000, date(2025, time.March, 2))
	mustCreateTransaction(t, ledger, owner, salary.ID, "march salary", 200000, date(2025, time.March, 1))

	summary, err := ledger.Summary(ctx, owner, nil, nil)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if summary.TotalIncomeCents != 200000 {
		t.Errorf("TotalIncomeCents = %d, want 200000", summary.TotalIncomeCents)
	}
	if summary.TotalExpenseCents != 5000 {
		t.Errorf("TotalExpenseCents = %d, want 5000", summary.TotalExpenseCents)
	}
	if summary.BalanceCents != 195000 {
		t.Errorf("BalanceCents = %d, want 195000", summary.BalanceCents)
	}
	if got := FormatAmount(summary.BalanceCents); got != "1950.00" {
		t.Errorf("formatted balance = %q, want %q", got, "1950.00")
	}

	if len(summary.RecentTransactions) != 2 {
		t.Fatalf("RecentTransactions len = %d, want 2", len(summary.RecentTransactions))
	}
	if summary.RecentTransactions[0].Description != "groceries" {
		t.Errorf("recent[0] = %q, want newest first", summary.RecentTransactions[0].Description)
	}
}

func TestLedger_SummaryDateWindow(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "window@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)

	mustCreateTransaction(t, ledger, owner, food.ID, "january", 1000, date(2025, time.January, 10))
	mustCreateTransaction(t, ledger, owner, food.ID, "february", 2000, date(2025, time.February, 10))
	mustCreateTransaction(t, ledger, owner, food.ID, "march", 4000, date(2025, time.March, 10))

	from := date(2025, time.February, 1)
	to := date(2025, time.February, 28)
	summary, err := ledger.Summary(ctx, owner, &from, &to)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if summary.TotalExpenseCents != 2000 {
		t.Errorf("windowed TotalExpenseCents = %d, want 2000", summary.TotalExpenseCents)
	}
	if len(summary.RecentTransactions) != 1 || summary.RecentTransactions[0].Description != "february" {
		t.Errorf("windowed recent = %+v, want only february", summary.RecentTransactions)
	}
}

func TestLedger_SummaryRecentLimit(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "recent@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)
	for i := 0; i < RecentLimit+3; i++ {
		mustCreateTransaction(t, ledger, owner, food.ID, "bite", 100, date(2025, time.March, 1+i%27))
	}

	summary, err := ledger.Summary(ctx, owner, nil, nil)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if len(summary.RecentTransactions) != RecentLimit {
		t.Errorf("RecentTransactions len = %d, want %d", len(summary.RecentTransactions), RecentLimit)
	}
	if summary.TotalExpenseCents != int64((RecentLimit+3)*100) {
		t.Errorf("TotalExpenseCents = %d, want all transactions summed, not just recent", summary.TotalExpenseCents)
	}
}

func TestLedger_AnalysisRanges(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return now }
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "ranges@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)

	mustCreateTransaction(t, ledger, owner, food.ID, "two years ago", 100, date(2023, time.June, 1))
	mustCreateTransaction(t, ledger, owner, food.ID, "ten months ago", 200, date(2024, time.August, 20))
	mustCreateTransaction(t, ledger, owner, food.ID, "five months ago", 300, date(2025, time.January, 20))
	mustCreateTransaction(t, ledger, owner, food.ID, "two months ago", 400, date(2025, time.April, 20))
	mustCreateTransaction(t, ledger, owner, food.ID, "this month", 500, date(2025, time.June, 10))

	tests := []struct {
		token string
		want  int
	}{
		{RangeMonth, 1},       // from June 1
		{RangeThreeMonths, 2}, // from March 15
		{RangeSixMonths, 3},   // from December 15
		{RangeYear, 4},        // rolling, from June 15 2024
		{RangeAll, 5},
		{"bogus", 5}, // unknown tokens behave as all-time
	}

	for _, tc := range tests {
		analysis, err := ledger.Analysis(ctx, owner, tc.token)
		if err != nil {
			t.Fatalf("Analysis(%q) error = %v", tc.token, err)
		}
		if len(analysis.Movements) != tc.want {
			t.Errorf("Analysis(%q) movements = %d, want %d", tc.token, len(analysis.Movements), tc.want)
		}
		if analysis.Summary.TotalTransactions != tc.want {
			t.Errorf("Analysis(%q) TotalTransactions = %d, want %d", tc.token, analysis.Summary.TotalTransactions, tc.want)
		}
		if analysis.Summary.DateRange != tc.token {
			t.Errorf("Analysis(%q) DateRange = %q, want the input token", tc.token, analysis.Summary.DateRange)
		}
		if !analysis.Summary.HasData {
			t.Errorf("Analysis(%q) HasData = false, want true", tc.token)
		}
	}
}

func TestLedger_AnalysisCategoriesUsed(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return now }
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "used@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)
	salary := mustCreateCategory(t, store, owner, "Salary", models.TypeIncome)
	mustCreateCategory(t, store, owner, "Transport", models.TypeExpense) // never used

	mustCreateTransaction(t, ledger, owner, food.ID, "groceries", 100, date(2025, time.June, 1))
	mustCreateTransaction(t, ledger, owner, food.ID, "restaurant", 200, date(2025, time.June, 2))
	mustCreateTransaction(t, ledger, owner, salary.ID, "old salary", 300, date(2024, time.January, 2))

	analysis, err := ledger.Analysis(ctx, owner, RangeMonth)
	if err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}

	// only Food appears in June, deduplicated
	if len(analysis.Categories) != 1 || analysis.Categories[0].ID != food.ID {
		t.Errorf("Analysis categories = %+v, want only Food", analysis.Categories)
	}

	all, err := ledger.Analysis(ctx, owner, RangeAll)
	if err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}
	if len(all.Categories) != 2 {
		t.Errorf("Analysis(all) categories = %d, want 2 (Transport is unused)", len(all.Categories))
	}
}

func TestLedger_AnalysisEmpty(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	owner := createTestUser(t, db, "nodata@example.com")

	analysis, err := ledger.Analysis(context.Background(), owner, RangeAll)
	if err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}
	if analysis.Summary.HasData {
		t.Error("HasData = true, want false for an empty owner")
	}
	if len(analysis.Movements) != 0 || len(analysis.Categories) != 0 {
		t.Errorf("Analysis() = %+v, want empty result", analysis)
	}
}

func TestLedger_ExpensesByCategory(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "expenses@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)
	transport := mustCreateCategory(t, store, owner, "Transport", models.TypeExpense)
	salary := mustCreateCategory(t, store, owner, "Salary", models.TypeIncome)

	mustCreateTransaction(t, ledger, owner, food.ID, "groceries", 3000, date(2025, time.March, 1))
	mustCreateTransaction(t, ledger, owner, food.ID, "restaurant", 2000, date(2025, time.March, 2))
	mustCreateTransaction(t, ledger, owner, transport.ID, "bus pass", 1500, date(2025, time.March, 3))
	// income must never show up in the expense report
	mustCreateTransaction(t, ledger, owner, salary.ID, "march salary", 200000, date(2025, time.March, 1))

	rows, err := ledger.ExpensesByCategory(ctx, owner, nil, nil)
	if err != nil {
		t.Fatalf("ExpensesByCategory() error = %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("ExpensesByCategory() returned %d rows, want 2", len(rows))
	}
	if rows[0].CategoryName != "Food" || rows[0].TotalCents != 5000 || rows[0].Count != 2 {
		t.Errorf("rows[0] = %+v, want Food 5000 cents over 2 movements", rows[0])
	}
	if rows[1].CategoryName != "Transport" || rows[1].TotalCents != 1500 || rows[1].Count != 1 {
		t.Errorf("rows[1] = %+v, want Transport 1500 cents over 1 movement", rows[1])
	}
}

func TestLedger_ExpensesByCategoryWindow(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	store := NewCategoryStore(db, ledger)
	owner := createTestUser(t, db, "expwindow@example.com")
	ctx := context.Background()

	food := mustCreateCategory(t, store, owner, "Food", models.TypeExpense)

	mustCreateTransaction(t, ledger, owner, food.ID, "january", 1000, date(2025, time.January, 10))
	mustCreateTransaction(t, ledger, owner, food.ID, "march", 4000, date(2025, time.March, 10))

	from := date(2025, time.March, 1)
	rows, err := ledger.ExpensesByCategory(ctx, owner, &from, nil)
	if err != nil {
		t.Fatalf("ExpensesByCategory() error = %v", err)
	}
	if len(rows) != 1 || rows[0].TotalCents != 4000 {
		t.Errorf("windowed rows = %+v, want only march's 4000 cents", rows)
	}
}
