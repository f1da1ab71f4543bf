package handler

import (
	"net/http"
	"strconv"

	"github.com/danielvaho2/tu-bolsillo/internal/core"
	"github.com/danielvaho2/tu-bolsillo/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the category endpoints on top of the core store.
type CategoryHandler struct {
	Store *core.CategoryStore
}

func NewCategoryHandler(store *core.CategoryStore) *CategoryHandler {
	return &CategoryHandler{Store: store}
}

type categoryResp struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"` // decimal string for the client
}

// ListCategories returns the caller's categories with their summed amounts.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	totals, err := h.Store.ListWithTotals(c.Request.Context(), user.ID)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	items := make([]categoryResp, 0, len(totals))
	for _, t := range totals {
		items = append(items, categoryResp{
			ID:          t.ID,
			Name:        t.Name,
			Type:        t.Type,
			AmountCents: t.AmountCents,
			Amount:      core.FormatAmount(t.AmountCents),
		})
	}

	util.Success(c, util.Response{
		"categories": items,
	})
}

type createCategoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
	Type string `json:"type" binding:"required"`
}

// CreateCategory stores a new category for the caller.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "all fields are required")
		return
	}

	category, err := h.Store.Create(c.Request.Context(), user.ID, req.Name, req.Type)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "category created successfully",
		"category": categoryResp{
			ID:     category.ID,
			Name:   category.Name,
			Type:   category.Type,
			Amount: core.FormatAmount(0),
		},
	})
}

// DeleteCategory removes one of the caller's categories; blocked while
// movements still reference it.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return
	}

	if err := h.Store.Delete(c.Request.Context(), uint(id), user.ID); err != nil {
		respondCoreError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "category deleted successfully",
	})
}
