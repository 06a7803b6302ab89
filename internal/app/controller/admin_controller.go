package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sellora/sellora-backend/internal/app/model"
	"github.com/sellora/sellora-backend/internal/app/service"
	apperrors "github.com/sellora/sellora-backend/internal/errors"
	"github.com/sellora/sellora-backend/internal/middleware"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminController exposes the read-only admin surface over store
// applications. Status mutation belongs to the external approval process.
type AdminController struct {
	storeService service.StoreService
}

func NewAdminController(storeService service.StoreService) *AdminController {
	return &AdminController{
		storeService: storeService,
	}
}

// ListStores lists store applications, optionally filtered by status.
// GET /api/admin/stores?status=pending
func (ctrl *AdminController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.StoreStatus(c.Query("status"))
	stores, err := ctrl.storeService.ListApplications(status)
	if err != nil {
		log.Error("Failed to list store applications", err)
		info := apperrors.ParseError(err, "store list")
		apperrors.BadRequest(c, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

// ExportStores streams the store applications as an Excel workbook.
// GET /api/admin/stores/export?status=pending
func (ctrl *AdminController) ExportStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.StoreStatus(c.Query("status"))
	stores, err := ctrl.storeService.ListApplications(status)
	if err != nil {
		log.Error("Failed to load store applications for export", err)
		info := apperrors.ParseError(err, "store export")
		apperrors.BadRequest(c, info.Code, info.Message)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	headers := []string{"ID", "Username", "Name", "Owner", "Email", "Contact", "Address", "Status", "Applied At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, store := range stores {
		values := []interface{}{
			store.ID,
			store.Username,
			store.Name,
			store.UserID,
			store.Email,
			store.Contact,
			store.Address,
			string(store.Status),
			store.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Error("Failed to build export workbook", err)
		apperrors.InternalError(c, "Failed to build export file")
		return
	}

	filename := fmt.Sprintf("store-applications-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())

	log.Info("Store applications exported", map[string]interface{}{
		"count":  len(stores),
		"status": status,
	})
}
