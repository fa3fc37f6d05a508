package dealer

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trustedvehicles/dealerdesk/internal/common/server"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// Handler 合作车商相关路由。
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/dealers")
	g.GET("", h.list)
	g.POST("", h.add)
	g.GET("/deleted", h.listDeleted)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/status", h.setStatus)
	g.DELETE("/:id", h.softDelete)
	g.POST("/:id/restore", h.restore)
	g.DELETE("/:id/purge", h.purge)
}

type addReq struct {
	DealershipName string    `json:"dealershipName" binding:"required"`
	OwnerName      string    `json:"ownerName" binding:"required"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone" binding:"required"`
	Address        string    `json:"address"`
	JoiningDate    time.Time `json:"joiningDate"`
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	d, err := h.svc.Add(c.Request.Context(), AddInput{
		DealershipName: req.DealershipName,
		OwnerName:      req.OwnerName,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		JoiningDate:    req.JoiningDate,
	})
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

type updateReq struct {
	DealershipName *string    `json:"dealershipName"`
	OwnerName      *string    `json:"ownerName"`
	Email          *string    `json:"email"`
	Phone          *string    `json:"phone"`
	Address        *string    `json:"address"`
	JoiningDate    *time.Time `json:"joiningDate"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	d, err := h.svc.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		DealershipName: req.DealershipName,
		OwnerName:      req.OwnerName,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		JoiningDate:    req.JoiningDate,
	})
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
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
	d, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type deleteReq struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) softDelete(c *gin.Context) {
	var req deleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	d, err := h.svc.SoftDelete(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) restore(c *gin.Context) {
	d, err := h.svc.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) purge(c *gin.Context) {
	deleted, err := h.svc.Purge(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) listDeleted(c *gin.Context) {
	out, err := h.svc.ListDeleted(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
