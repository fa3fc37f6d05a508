package lead

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trustedvehicles/dealerdesk/internal/common/middleware"
	"github.com/trustedvehicles/dealerdesk/internal/common/server"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// Handler 线索通用路由。每种线索挂两组：
// - POST /api/website/<form>   官网表单入口（免鉴权 + 限流）
// - /api/leads/<slug>/...      后台管理入口
type Handler[T any, PT ptr[T]] struct {
	svc    *Service[T, PT]
	slug   string
	form   string
	intake middleware.RateLimiter
}

func NewHandler[T any, PT ptr[T]](svc *Service[T, PT], slug, form string, intake middleware.RateLimiter) *Handler[T, PT] {
	return &Handler[T, PT]{svc: svc, slug: slug, form: form, intake: intake}
}

func (h *Handler[T, PT]) RegisterRoutes(r *gin.Engine) {
	if h.form != "" {
		r.POST("/api/website/"+h.form, middleware.RateLimit(h.intake), h.add)
	}
	g := r.Group("/api/leads/" + h.slug)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("/:id/seen", h.markSeen)
	g.PATCH("/:id/status", h.setStatus)
	g.DELETE("/:id", h.delete)
}

func (h *Handler[T, PT]) add(c *gin.Context) {
	rec := PT(new(T))
	if err := c.ShouldBindJSON(rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := h.svc.Add(c.Request.Context(), rec); err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler[T, PT]) get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler[T, PT]) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler[T, PT]) markSeen(c *gin.Context) {
	rec, err := h.svc.MarkSeen(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type statusReq struct {
	Status workflow.Status `json:"status" binding:"required"`
}

func (h *Handler[T, PT]) setStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	rec, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler[T, PT]) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
