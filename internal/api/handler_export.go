package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"itemseek-backend/internal/model"
	"itemseek-backend/internal/store"
)

const (
	exportSheet = "Inventory"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []any{"Name", "Quantity", "Unit", "Category", "Location", "Status", "Last Updated"}

// ExportItems handles GET /api/items/export. It honours the same filters as
// ListItems and streams an xlsx workbook.
func (h *Handler) ExportItems(c *gin.Context) {
	items, err := h.store.ListItems(c.Request.Context(), store.ItemFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	f, err := buildInventoryWorkbook(items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("inventory-%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", xlsxMIME)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.log.WithError(err).Error("Failed to stream inventory export")
	}
}

func buildInventoryWorkbook(items []model.Item) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, err
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []any{
			item.Name,
			item.Quantity,
			item.Unit,
			item.Category,
			item.Location,
			string(item.Status),
			item.LastUpdated.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 32); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
