package employee

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trustedvehicles/dealerdesk/internal/common/auth"
	"github.com/trustedvehicles/dealerdesk/internal/common/config"
	"github.com/trustedvehicles/dealerdesk/internal/common/server"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// Handler 员工账号相关路由。
type Handler struct {
	svc     *Service
	authCfg config.AuthConfig
}

func NewHandler(svc *Service, authCfg config.AuthConfig) *Handler {
	return &Handler{svc: svc, authCfg: authCfg}
}

// RegisterRoutes 挂载路由。/api/login 是免鉴权入口（见配置 public_paths）。
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/login", h.login)

	g := r.Group("/api/users")
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

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	e, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// 账号不存在与口令错误统一提示，避免撞库探测
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	resp := gin.H{"user": e}
	if h.authCfg.Enabled {
		ttl := time.Duration(h.authCfg.TokenTTL) * time.Hour
		token, expiresAt, err := auth.GenerateAccessToken(h.authCfg, e.ID, []string{string(e.Designation)}, ttl)
		if err != nil {
			server.WriteError(c, err)
			return
		}
		resp["token"] = token
		resp["expiresAt"] = expiresAt
	}
	c.JSON(http.StatusOK, resp)
}

type addReq struct {
	Email       string      `json:"email" binding:"required"`
	Name        string      `json:"name" binding:"required"`
	Password    string      `json:"password" binding:"required"`
	Phone       string      `json:"phone"`
	DOB         time.Time   `json:"dob"`
	JoiningDate time.Time   `json:"joiningDate"`
	Designation Designation `json:"designation"`
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	e, err := h.svc.Add(c.Request.Context(), AddInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		Phone:       req.Phone,
		DOB:         req.DOB,
		JoiningDate: req.JoiningDate,
		Designation: req.Designation,
	})
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

type updateReq struct {
	Email       *string      `json:"email"`
	Name        *string      `json:"name"`
	Password    *string      `json:"password"`
	Phone       *string      `json:"phone"`
	DOB         *time.Time   `json:"dob"`
	JoiningDate *time.Time   `json:"joiningDate"`
	Designation *Designation `json:"designation"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		Phone:       req.Phone,
		DOB:         req.DOB,
		JoiningDate: req.JoiningDate,
		Designation: req.Designation,
	})
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
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
	e, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
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
	e, err := h.svc.SoftDelete(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) restore(c *gin.Context) {
	e, err := h.svc.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
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
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
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
