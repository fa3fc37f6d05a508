package inspection

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trustedvehicles/dealerdesk/internal/common/middleware"
	"github.com/trustedvehicles/dealerdesk/internal/common/server"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// Handler 检测工单相关路由。
type Handler struct {
	svc    *Service
	intake middleware.RateLimiter
}

// NewHandler intake 是官网/第三方入口的限流器，可为 nil。
func NewHandler(svc *Service, intake middleware.RateLimiter) *Handler {
	return &Handler{svc: svc, intake: intake}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// 官网/第三方创建入口（免鉴权 + 限流），source 固定为 API
	r.POST("/api/website/inspections", middleware.RateLimit(h.intake), h.addFromAPI)

	g := r.Group("/api/inspections")
	g.GET("", h.list)
	g.POST("", h.add)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.POST("/:id/assign", h.assign)
	g.POST("/:id/viewed", h.markViewed)
	g.PATCH("/:id/status", h.setStatus)
	g.DELETE("/:id", h.delete)
}

type addReq struct {
	FullName           string          `json:"fullName"`
	PhoneNumber        string          `json:"phoneNumber"`
	Street             string          `json:"street"`
	City               string          `json:"city"`
	State              string          `json:"state"`
	PinCode            string          `json:"pinCode"`
	VehicleMake        string          `json:"vehicleMake" binding:"required"`
	VehicleModel       string          `json:"vehicleModel" binding:"required"`
	CarYear            string          `json:"carYear"`
	RegistrationNumber string          `json:"registrationNumber" binding:"required"`
	InspectionType     string          `json:"inspectionType"`
	AssignedToID       string          `json:"assignedToId"`
	LeadType           LeadType        `json:"leadType"`
	DealerID           string          `json:"dealerId"`
	Status             workflow.Status `json:"status"`
}

func (r addReq) toInput(source Source) AddInput {
	return AddInput{
		FullName:           r.FullName,
		PhoneNumber:        r.PhoneNumber,
		Street:             r.Street,
		City:               r.City,
		State:              r.State,
		PinCode:            r.PinCode,
		VehicleMake:        r.VehicleMake,
		VehicleModel:       r.VehicleModel,
		CarYear:            r.CarYear,
		RegistrationNumber: r.RegistrationNumber,
		InspectionType:     r.InspectionType,
		AssignedToID:       r.AssignedToID,
		Source:             source,
		LeadType:           r.LeadType,
		DealerID:           r.DealerID,
		Status:             r.Status,
	}
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	i, err := h.svc.Add(c.Request.Context(), req.toInput(SourceManual))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, i)
}

func (h *Handler) addFromAPI(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	i, err := h.svc.Add(c.Request.Context(), req.toInput(SourceAPI))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, i)
}

type updateReq struct {
	FullName           *string   `json:"fullName"`
	PhoneNumber        *string   `json:"phoneNumber"`
	Street             *string   `json:"street"`
	City               *string   `json:"city"`
	State              *string   `json:"state"`
	PinCode            *string   `json:"pinCode"`
	VehicleMake        *string   `json:"vehicleMake"`
	VehicleModel       *string   `json:"vehicleModel"`
	CarYear            *string   `json:"carYear"`
	RegistrationNumber *string   `json:"registrationNumber"`
	InspectionType     *string   `json:"inspectionType"`
	AssignedToID       *string   `json:"assignedToId"`
	LeadType           *LeadType `json:"leadType"`
	DealerID           *string   `json:"dealerId"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	i, err := h.svc.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		FullName:           req.FullName,
		PhoneNumber:        req.PhoneNumber,
		Street:             req.Street,
		City:               req.City,
		State:              req.State,
		PinCode:            req.PinCode,
		VehicleMake:        req.VehicleMake,
		VehicleModel:       req.VehicleModel,
		CarYear:            req.CarYear,
		RegistrationNumber: req.RegistrationNumber,
		InspectionType:     req.InspectionType,
		AssignedToID:       req.AssignedToID,
		LeadType:           req.LeadType,
		DealerID:           req.DealerID,
	})
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

type assignReq struct {
	InspectorID string `json:"inspectorId" binding:"required"`
}

func (h *Handler) assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	i, err := h.svc.Assign(c.Request.Context(), c.Param("id"), req.InspectorID)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

func (h *Handler) markViewed(c *gin.Context) {
	i, err := h.svc.MarkViewed(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

type statusReq struct {
	Status workflow.Status `json:"status" binding:"required"`
}

func (h *Handler) setStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	i, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

func (h *Handler) get(c *gin.Context) {
	i, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

func (h *Handler) list(c *gin.Context) {
	f := ListFilter{
		Status:       workflow.Status(c.Query("status")),
		AssignedToID: c.Query("assignedTo"),
		DealerID:     c.Query("dealerId"),
	}
	out, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
