package handler

import (
	"errors"
	"net/http"
	"strconv"

	"lapor/internal/lifecycle"
	"lapor/internal/middleware"
	"lapor/internal/service"
	"lapor/pkg/pagination"
	"lapor/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports", middleware.RequireAuth())
	{
		reports.POST("", h.Create)
		reports.GET("", h.List)
		reports.GET("/stats", h.Stats)
		reports.GET("/carry-over", h.CarryOver)
		reports.POST("/plan-suggestions", h.PlanSuggestions)
		reports.GET("/:id", h.GetDetail)
		reports.GET("/:id/summary", h.Summary)
		reports.PUT("/:id", h.Update)
		reports.DELETE("/:id", h.Delete)
		reports.POST("/:id/submit", h.SubmitDraft)
		reports.POST("/:id/approve", middleware.RequireReviewer(), h.Approve)
	}
}

// reportError maps service errors onto HTTP statuses.
func reportError(c *gin.Context, err error) {
	var vErr *lifecycle.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, vErr.Error()))
	case errors.Is(err, lifecycle.ErrDraft):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, lifecycle.ErrAlreadyApproved), errors.Is(err, service.ErrReportLocked):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.Is(err, lifecycle.ErrUnauthorized), errors.Is(err, service.ErrNotCreator):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case errors.Is(err, service.ErrReportNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

// Create handles POST /reports for both drafts and direct submissions
// @Summary      Create report
// @Description  Creates a daily report with its tasks, materials and plans. Non-draft submissions are validated and notify reviewers.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SubmitReportRequest  true  "Report Payload"
// @Success      201      {object}  response.Response{data=model.DailyReport}
// @Failure      400      {object}  response.Response
// @Router       /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req service.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		reportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, report))
}

// List handles GET /reports with the dashboard filter set
// @Summary      List reports
// @Description  Paginated report list. Staff only see their own reports; reviewers see everything.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        location_id  query     int     false  "Filter by location"
// @Param        dept_id      query     int     false  "Filter by department"
// @Param        date         query     string  false  "today, week, month or all"
// @Param        search       query     string  false  "Matches creator, location, department, project type"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Failure      500          {object}  response.Response
// @Router       /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	locationID, _ := strconv.Atoi(c.Query("location_id"))
	deptID, _ := strconv.Atoi(c.Query("dept_id"))

	reports, total, err := h.reportService.List(
		c.Request.Context(),
		c.GetString("userID"),
		c.GetString("userRole"),
		service.ListReportsQuery{
			LocationID: uint(locationID),
			DeptID:     uint(deptID),
			DateFilter: c.Query("date"),
			Search:     c.Query("search"),
			Page:       params.Page,
			Limit:      params.Limit,
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch reports"))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, reports, total, params.Page, params.Limit))
}

// Stats handles GET /reports/stats for the dashboard counters
// @Summary      Report statistics
// @Description  Dashboard counters: total, verified, completed, in progress, problematic, drafts
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.ReportStats}
// @Failure      500  {object}  response.Response
// @Router       /reports/stats [get]
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.reportService.Stats(c.Request.Context(), c.GetString("userID"), c.GetString("userRole"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute statistics"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetDetail handles GET /reports/:id; viewing marks the report read
// @Summary      Get report detail
// @Description  Full report with tasks, attachments, materials and plans. Opening it adds the viewer to the reader set.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=model.DailyReport}
// @Failure      404  {object}  response.Response
// @Router       /reports/{id} [get]
func (h *ReportHandler) GetDetail(c *gin.Context) {
	report, err := h.reportService.GetDetail(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// Summary handles GET /reports/:id/summary
// @Summary      Report share text
// @Description  The report rendered as share-ready plain text
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=string}
// @Failure      404  {object}  response.Response
// @Router       /reports/{id}/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	text, err := h.reportService.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, text))
}

// Update handles PUT /reports/:id; creator only, blocked once verified
// @Summary      Update report
// @Description  Rewrites the report and replaces all its child rows
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Report ID"
// @Param        payload  body      service.SubmitReportRequest  true  "Report Payload"
// @Success      200      {object}  response.Response{data=model.DailyReport}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /reports/{id} [put]
func (h *ReportHandler) Update(c *gin.Context) {
	var req service.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// SubmitDraft handles POST /reports/:id/submit
// @Summary      Submit draft
// @Description  Promotes a draft into the approval flow after full validation
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=model.DailyReport}
// @Failure      400  {object}  response.Response
// @Router       /reports/{id}/submit [post]
func (h *ReportHandler) SubmitDraft(c *gin.Context) {
	report, err := h.reportService.SubmitDraft(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// Delete handles DELETE /reports/:id
// @Summary      Delete report
// @Description  Removes a report and all its child rows; blocked once verified
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.reportService.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Report deleted"))
}

// Approve handles POST /reports/:id/approve
// @Summary      Approve report
// @Description  Records the caller's approval signature. A manager or owner signature also verifies the report.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=model.DailyReport}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /reports/{id}/approve [post]
func (h *ReportHandler) Approve(c *gin.Context) {
	report, err := h.reportService.Approve(
		c.Request.Context(),
		c.GetString("userID"),
		c.GetString("userRole"),
		c.Param("id"),
	)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// CarryOver handles GET /reports/carry-over
// @Summary      Carry-over tasks
// @Description  Unfinished tasks from the caller's most recent report, prefixed for continuation
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]planner.TaskItem}
// @Failure      500  {object}  response.Response
// @Router       /reports/carry-over [get]
func (h *ReportHandler) CarryOver(c *gin.Context) {
	tasks, err := h.reportService.CarryOverTasks(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch carry-over tasks"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tasks))
}

// PlanSuggestions handles POST /reports/plan-suggestions
// @Summary      Derive tomorrow plans
// @Description  Appends auto-derived plans for unfinished tasks, deduplicated against existing plans
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.PlanSuggestionRequest  true  "Current plans and tasks"
// @Success      200      {object}  response.Response{data=[]planner.PlanItem}
// @Failure      400      {object}  response.Response
// @Router       /reports/plan-suggestions [post]
func (h *ReportHandler) PlanSuggestions(c *gin.Context) {
	var req service.PlanSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.reportService.PlanSuggestions(req)))
}
