package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/danielvaho2/tu-bolsillo/internal/core"
	"github.com/danielvaho2/tu-bolsillo/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler writes the caller's movements as CSV or XLSX downloads.
type ExportHandler struct {
	Ledger *core.Ledger
}

func NewExportHandler(ledger *core.Ledger) *ExportHandler {
	return &ExportHandler{Ledger: ledger}
}

var exportHeaders = []string{"Type", "Category", "Amount", "Description", "Date"}

func exportRow(v core.TransactionView) []string {
	return []string{
		v.Type,
		v.CategoryName,
		core.FormatAmount(v.AmountCents),
		v.Description,
		v.Date.Format("2006-01-02"),
	}
}

// ExportCSV streams all movements as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := h.Ledger.List(c.Request.Context(), user.ID)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"movements_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet apps detect the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, v := range views {
		writer.Write(exportRow(v))
	}
}

// ExportXLSX writes all movements as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := h.Ledger.List(c.Request.Context(), user.ID)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Movements"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, v := range views {
		row := idx + 2
		for col, value := range exportRow(v) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 18)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 32)
	f.SetColWidth(sheetName, "E", "E", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"movements_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
