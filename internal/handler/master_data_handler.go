package handler

import (
	"net/http"
	"strconv"

	"lapor/internal/middleware"
	"lapor/internal/model"
	"lapor/internal/service"
	"lapor/pkg/response"

	"github.com/gin-gonic/gin"
)

type MasterDataHandler struct {
	masterService service.MasterDataService
}

func NewMasterDataHandler(masterService service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{masterService: masterService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *MasterDataHandler) RegisterRoutes(router *gin.RouterGroup) {
	master := router.Group("/master-data", middleware.RequireAuth())
	{
		master.GET("", h.GetAll)
	}

	// Mutations are restricted to the top roles
	admin := router.Group("/master-data", middleware.RequireRole(model.RoleManager, model.RoleOwner))
	{
		admin.POST("/locations", h.CreateLocation)
		admin.POST("/departments", h.CreateDepartment)
		admin.POST("/project-types", h.CreateProjectType)
		admin.PATCH("/locations/:id/active", h.SetLocationActive)
		admin.PATCH("/departments/:id/active", h.SetDepartmentActive)
		admin.PATCH("/project-types/:id/active", h.SetProjectTypeActive)
	}
}

// GetAll handles GET /master-data
// @Summary      Get master data
// @Description  All reference lists the report form needs, in one round trip. Pass all=true to include inactive rows.
// @Tags         master-data
// @Produce      json
// @Security     BearerAuth
// @Param        all  query     bool  false  "Include inactive rows"
// @Success      200  {object}  response.Response{data=service.MasterData}
// @Failure      500  {object}  response.Response
// @Router       /master-data [get]
func (h *MasterDataHandler) GetAll(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	data, err := h.masterService.GetAll(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch master data"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}

// CreateLocation handles POST /master-data/locations
// @Summary      Create location
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateLocationRequest  true  "Location Payload"
// @Success      201      {object}  response.Response{data=model.Location}
// @Failure      400      {object}  response.Response
// @Router       /master-data/locations [post]
func (h *MasterDataHandler) CreateLocation(c *gin.Context) {
	var req service.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	loc, err := h.masterService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, loc))
}

// CreateDepartment handles POST /master-data/departments
// @Summary      Create department
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateDepartmentRequest  true  "Department Payload"
// @Success      201      {object}  response.Response{data=model.Department}
// @Failure      400      {object}  response.Response
// @Router       /master-data/departments [post]
func (h *MasterDataHandler) CreateDepartment(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	dept, err := h.masterService.CreateDepartment(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, dept))
}

// CreateProjectType handles POST /master-data/project-types
// @Summary      Create project type
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProjectTypeRequest  true  "Project Type Payload"
// @Success      201      {object}  response.Response{data=model.ProjectType}
// @Failure      400      {object}  response.Response
// @Router       /master-data/project-types [post]
func (h *MasterDataHandler) CreateProjectType(c *gin.Context) {
	var req service.CreateProjectTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	pt, err := h.masterService.CreateProjectType(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pt))
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *MasterDataHandler) setActive(c *gin.Context, fn func(id uint, active bool) error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid id"))
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	if err := fn(uint(id), *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Updated"))
}

// SetLocationActive handles PATCH /master-data/locations/:id/active
func (h *MasterDataHandler) SetLocationActive(c *gin.Context) {
	h.setActive(c, func(id uint, active bool) error {
		return h.masterService.SetLocationActive(c.Request.Context(), id, active)
	})
}

// SetDepartmentActive handles PATCH /master-data/departments/:id/active
func (h *MasterDataHandler) SetDepartmentActive(c *gin.Context) {
	h.setActive(c, func(id uint, active bool) error {
		return h.masterService.SetDepartmentActive(c.Request.Context(), id, active)
	})
}

// SetProjectTypeActive handles PATCH /master-data/project-types/:id/active
func (h *MasterDataHandler) SetProjectTypeActive(c *gin.Context) {
	h.setActive(c, func(id uint, active bool) error {
		return h.masterService.SetProjectTypeActive(c.Request.Context(), id, active)
	})
}
