package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/danielvaho2/tu-bolsillo/internal/core"
	"github.com/danielvaho2/tu-bolsillo/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves movement, dashboard and analysis endpoints.
type TransactionHandler struct {
	Ledger *core.Ledger
	Store  *core.CategoryStore
}

func NewTransactionHandler(ledger *core.Ledger, store *core.CategoryStore) *TransactionHandler {
	return &TransactionHandler{Ledger: ledger, Store: store}
}

type movementResp struct {
	ID           uint      `json:"id"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Type         string    `json:"type"`
	AmountCents  int64     `json:"amount_cents"`
	Amount       string    `json:"amount"` // decimal string for the client
	Description  string    `json:"description"`
	Date         string    `json:"date"` // YYYY-MM-DD
	CreatedAt    time.Time `json:"created_at"`
}

func toMovementResp(v core.TransactionView) movementResp {
	return movementResp{
		ID:           v.ID,
		CategoryID:   v.CategoryID,
		CategoryName: v.CategoryName,
		Type:         v.Type,
		AmountCents:  v.AmountCents,
		Amount:       core.FormatAmount(v.AmountCents),
		Description:  v.Description,
		Date:         v.Date.Format("2006-01-02"),
		CreatedAt:    v.CreatedAt,
	}
}

func toMovementResps(views []core.TransactionView) []movementResp {
	items := make([]movementResp, 0, len(views))
	for _, v := range views {
		items = append(items, toMovementResp(v))
	}
	return items
}

// parseDateWindow reads optional start/end query params (YYYY-MM-DD).
func parseDateWindow(c *gin.Context) (from, to *time.Time, ok bool) {
	if s := c.Query("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start date must be YYYY-MM-DD")
			return nil, nil, false
		}
		from = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end date must be YYYY-MM-DD")
			return nil, nil, false
		}
		to = &t
	}
	return from, to, true
}

type createMovementReq struct {
	CategoryID  uint   `json:"category_id" binding:"required"`
	Description string `json:"description" binding:"required,max=255"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date"` // YYYY-MM-DD, defaults to today
}

// CreateMovement records a movement. The type comes from the category; a
// type field in the request body is ignored.
func (h *TransactionHandler) CreateMovement(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createMovementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "all fields are required")
		return
	}

	amountCents, err := core.ParseAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "enter a valid amount")
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be YYYY-MM-DD")
			return
		}
	}

	tx, err := h.Ledger.Create(c.Request.Context(), user.ID, req.CategoryID, req.Description, amountCents, date)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "movement recorded successfully",
		"movement": movementResp{
			ID:          tx.ID,
			CategoryID:  tx.CategoryID,
			Type:        tx.Type,
			AmountCents: tx.AmountCents,
			Amount:      core.FormatAmount(tx.AmountCents),
			Description: tx.Description,
			Date:        tx.Date.Format("2006-01-02"),
			CreatedAt:   tx.CreatedAt,
		},
	})
}

// ListMovements returns all of the caller's movements, newest first.
func (h *TransactionHandler) ListMovements(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := h.Ledger.List(c.Request.Context(), user.ID)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	util.Success(c, util.Response{
		"movements": toMovementResps(views),
	})
}

// DeleteMovement removes one of the caller's movements.
func (h *TransactionHandler) DeleteMovement(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid movement id")
		return
	}

	if err := h.Ledger.Delete(c.Request.Context(), uint(id), user.ID); err != nil {
		respondCoreError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "movement deleted successfully",
	})
}

// GetDashboard returns the financial summary plus categories with totals,
// optionally restricted to ?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *TransactionHandler) GetDashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	from, to, ok := parseDateWindow(c)
	if !ok {
		return
	}

	summary, err := h.Ledger.Summary(c.Request.Context(), user.ID, from, to)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	categories, err := h.Store.List(c.Request.Context(), user.ID)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	catItems := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		catItems = append(catItems, gin.H{
			"id":   cat.ID,
			"name": cat.Name,
			"type": cat.Type,
		})
	}

	util.Success(c, util.Response{
		"financialData": gin.H{
			"balance":            core.FormatAmount(summary.BalanceCents),
			"income":             core.FormatAmount(summary.TotalIncomeCents),
			"expenses":           core.FormatAmount(summary.TotalExpenseCents),
			"balance_cents":      summary.BalanceCents,
			"income_cents":       summary.TotalIncomeCents,
			"expenses_cents":     summary.TotalExpenseCents,
			"recentTransactions": toMovementResps(summary.RecentTransactions),
		},
		"categories": catItems,
	})
}

// GetAnalysis returns the movements of a named time range together with the
// categories they use. Unknown ?range= tokens behave as all-time.
func (h *TransactionHandler) GetAnalysis(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rangeToken := c.DefaultQuery("range", core.RangeAll)

	analysis, err := h.Ledger.Analysis(c.Request.Context(), user.ID, rangeToken)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	util.Success(c, util.Response{
		"movements":  toMovementResps(analysis.Movements),
		"categories": analysis.Categories,
		"summary":    analysis.Summary,
	})
}

// GetExpensesByCategory groups the caller's expenses per category, biggest
// total first, optionally windowed by ?start and ?end.
func (h *TransactionHandler) GetExpensesByCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	from, to, ok := parseDateWindow(c)
	if !ok {
		return
	}

	rows, err := h.Ledger.ExpensesByCategory(c.Request.Context(), user.ID, from, to)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	type expenseRow struct {
		CategoryID   uint   `json:"category_id"`
		CategoryName string `json:"category_name"`
		TotalCents   int64  `json:"total_cents"`
		Total        string `json:"total"`
		Count        int64  `json:"count"`
	}
	items := make([]expenseRow, 0, len(rows))
	for _, r := range rows {
		items = append(items, expenseRow{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			TotalCents:   r.TotalCents,
			Total:        core.FormatAmount(r.TotalCents),
			Count:        r.Count,
		})
	}

	util.Success(c, util.Response{
		"expenses_by_category": items,
	})
}
