package marketplace

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trustedvehicles/dealerdesk/internal/common/auth"
	"github.com/trustedvehicles/dealerdesk/internal/common/config"
	"github.com/trustedvehicles/dealerdesk/internal/common/middleware"
	"github.com/trustedvehicles/dealerdesk/internal/common/server"
	"github.com/trustedvehicles/dealerdesk/internal/lead"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// Handler 商城相关路由。分两块：
// - /api/public/marketplace/* 与 /api/marketplace/auth/* 是商城前端入口（免鉴权）
// - /api/marketplace/* 是后台管理入口
type Handler struct {
	vehicles  *VehicleService
	banners   *BannerService
	users     *UserService
	inquiries *InquiryService
	contacts  *lead.Service[Contact, *Contact]
	authCfg   config.AuthConfig
	intake    middleware.RateLimiter
}

func NewHandler(
	vehicles *VehicleService,
	banners *BannerService,
	users *UserService,
	inquiries *InquiryService,
	contacts *lead.Service[Contact, *Contact],
	authCfg config.AuthConfig,
	intake middleware.RateLimiter,
) *Handler {
	return &Handler{
		vehicles:  vehicles,
		banners:   banners,
		users:     users,
		inquiries: inquiries,
		contacts:  contacts,
		authCfg:   authCfg,
		intake:    intake,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// 商城前端（免鉴权）
	a := r.Group("/api/marketplace/auth")
	a.POST("/register", middleware.RateLimit(h.intake), h.register)
	a.POST("/login", h.login)

	p := r.Group("/api/public/marketplace")
	p.GET("/vehicles", h.listVehicles)
	p.GET("/vehicles/:id", h.getVehicle)
	p.GET("/banners", h.listActiveBanners)
	p.POST("/contact", middleware.RateLimit(h.intake), h.addContact)
	p.POST("/inquiries", middleware.RateLimit(h.intake), h.addInquiry)

	// 后台管理
	v := r.Group("/api/marketplace/vehicles")
	v.GET("", h.listVehicles)
	v.POST("", h.addVehicle)
	v.GET("/:id", h.getVehicle)
	v.PUT("/:id", h.updateVehicle)
	v.PATCH("/:id/status", h.setVehicleStatus)
	v.DELETE("/:id", h.deleteVehicle)

	b := r.Group("/api/marketplace/banners")
	b.GET("", h.listBanners)
	b.POST("", h.addBanner)
	b.PUT("/:id", h.updateBanner)
	b.PATCH("/:id/status", h.setBannerStatus)
	b.DELETE("/:id", h.deleteBanner)

	r.GET("/api/marketplace/users", h.listUsers)

	i := r.Group("/api/marketplace/inquiries")
	i.GET("", h.listInquiries)
	i.PATCH("/:id/status", h.setInquiryStatus)
	i.DELETE("/:id", h.deleteInquiry)

	ct := r.Group("/api/marketplace/contacts")
	ct.GET("", h.listContacts)
	ct.POST("/:id/seen", h.markContactSeen)
	ct.PATCH("/:id/status", h.setContactStatus)
	ct.DELETE("/:id", h.deleteContact)
}

type registerReq struct {
	UserType       UserType `json:"userType" binding:"required"`
	FullName       string   `json:"fullName" binding:"required"`
	Phone          string   `json:"phone" binding:"required"`
	Email          string   `json:"email"`
	Password       string   `json:"password" binding:"required"`
	DealershipName string   `json:"dealershipName"`
	DealershipType string   `json:"dealershipType"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	PinCode        string   `json:"pincode"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	u, err := h.users.Register(c.Request.Context(), RegisterInput{
		UserType:       req.UserType,
		FullName:       req.FullName,
		Phone:          req.Phone,
		Email:          req.Email,
		Password:       req.Password,
		DealershipName: req.DealershipName,
		DealershipType: req.DealershipType,
		City:           req.City,
		State:          req.State,
		PinCode:        req.PinCode,
	})
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

type loginReq struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	u, err := h.users.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	resp := gin.H{"user": u}
	if h.authCfg.Enabled {
		ttl := time.Duration(h.authCfg.TokenTTL) * time.Hour
		token, expiresAt, err := auth.GenerateAccessToken(h.authCfg, u.ID, []string{"marketplace", string(u.UserType)}, ttl)
		if err != nil {
			server.WriteError(c, err)
			return
		}
		resp["token"] = token
		resp["expiresAt"] = expiresAt
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) addVehicle(c *gin.Context) {
	var v Vehicle
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	out, err := h.vehicles.Add(c.Request.Context(), &v)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) updateVehicle(c *gin.Context) {
	var v Vehicle
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	out, err := h.vehicles.Update(c.Request.Context(), c.Param("id"), &v)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type statusReq struct {
	Status workflow.Status `json:"status" binding:"required"`
}

func (h *Handler) setVehicleStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	out, err := h.vehicles.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getVehicle(c *gin.Context) {
	out, err := h.vehicles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) listVehicles(c *gin.Context) {
	out, err := h.vehicles.List(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	deleted, err := h.vehicles.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

type bannerReq struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

func (h *Handler) addBanner(c *gin.Context) {
	var req bannerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	b, err := h.banners.Add(c.Request.Context(), req.Title, req.ImageURL)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) updateBanner(c *gin.Context) {
	var req bannerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	b, err := h.banners.Update(c.Request.Context(), c.Param("id"), req.Title, req.ImageURL)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) setBannerStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	b, err := h.banners.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) listBanners(c *gin.Context) {
	out, err := h.banners.List(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) listActiveBanners(c *gin.Context) {
	out, err := h.banners.ListActive(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) deleteBanner(c *gin.Context) {
	deleted, err := h.banners.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// listUsers 按用户类型分组返回（与前端展示结构一致）。
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	customers := make([]User, 0)
	dealers := make([]User, 0)
	for _, u := range users {
		switch u.UserType {
		case UserCustomer:
			customers = append(customers, u)
		case UserDealer:
			dealers = append(dealers, u)
		}
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "dealers": dealers})
}

type inquiryReq struct {
	VehicleID string `json:"vehicleId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
}

func (h *Handler) addInquiry(c *gin.Context) {
	var req inquiryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	i, err := h.inquiries.Add(c.Request.Context(), req.VehicleID, req.UserID)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, i)
}

func (h *Handler) listInquiries(c *gin.Context) {
	out, err := h.inquiries.List(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) setInquiryStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	i, err := h.inquiries.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

func (h *Handler) deleteInquiry(c *gin.Context) {
	deleted, err := h.inquiries.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

type contactReq struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *Handler) addContact(c *gin.Context) {
	var req contactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	rec := &Contact{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.contacts.Add(c.Request.Context(), rec); err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) listContacts(c *gin.Context) {
	out, err := h.contacts.List(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) markContactSeen(c *gin.Context) {
	rec, err := h.contacts.MarkSeen(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) setContactStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	rec, err := h.contacts.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) deleteContact(c *gin.Context) {
	deleted, err := h.contacts.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
