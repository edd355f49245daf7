package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"lapor/internal/middleware"
	"lapor/internal/service"
	"lapor/pkg/response"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	exports := router.Group("/exports", middleware.RequireReviewer())
	{
		exports.GET("/reports.xlsx", h.ExportXLSX)
		exports.GET("/reports.csv", h.ExportCSV)
	}
}

func exportQuery(c *gin.Context) service.ListReportsQuery {
	locationID, _ := strconv.Atoi(c.Query("location_id"))
	deptID, _ := strconv.Atoi(c.Query("dept_id"))
	return service.ListReportsQuery{
		LocationID: uint(locationID),
		DeptID:     uint(deptID),
		DateFilter: c.Query("date"),
		Search:     c.Query("search"),
	}
}

// ExportXLSX handles GET /exports/reports.xlsx
// @Summary      Export reports to Excel
// @Description  One row per task, report columns repeated. Accepts the same filters as the report list.
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        location_id  query  int     false  "Filter by location"
// @Param        dept_id      query  int     false  "Filter by department"
// @Param        date         query  string  false  "today, week, month or all"
// @Success      200  {file}  file
// @Failure      500  {object}  response.Response
// @Router       /exports/reports.xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	data, err := h.exportService.ExportXLSX(c.Request.Context(), exportQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to build export"))
		return
	}

	filename := fmt.Sprintf("laporan-harian-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportCSV handles GET /exports/reports.csv
// @Summary      Export reports to CSV
// @Description  Same row layout as the Excel export
// @Tags         exports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        location_id  query  int     false  "Filter by location"
// @Param        dept_id      query  int     false  "Filter by department"
// @Param        date         query  string  false  "today, week, month or all"
// @Success      200  {file}  file
// @Failure      500  {object}  response.Response
// @Router       /exports/reports.csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	data, err := h.exportService.ExportCSV(c.Request.Context(), exportQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to build export"))
		return
	}

	filename := fmt.Sprintf("laporan-harian-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
