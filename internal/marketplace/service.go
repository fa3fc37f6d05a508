package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/trustedvehicles/dealerdesk/internal/common/auth"
	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
	"github.com/trustedvehicles/dealerdesk/internal/common/logger"
	"github.com/trustedvehicles/dealerdesk/internal/notify"
	"github.com/trustedvehicles/dealerdesk/internal/report"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// VehicleService 在售车辆用例。
type VehicleService struct {
	repo     *VehicleRepo
	reports  *report.Writer
	notifier notify.Notifier
	log      logger.Logger
}

func NewVehicleService(repo *VehicleRepo, reports *report.Writer, notifier notify.Notifier, log logger.Logger) *VehicleService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &VehicleService{repo: repo, reports: reports, notifier: notifier, log: log}
}

// Add 上架车辆。make/model 必填；状态缺省 For Sale，
// 显式传入时必须是合法取值。
func (s *VehicleService) Add(ctx context.Context, v *Vehicle) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
	if v.Make == "" {
		return nil, errs.NewValidation("make", "required")
	}
	if v.Model == "" {
		return nil, errs.NewValidation("model", "required")
	}
	if v.Status == "" {
		v.Status = workflow.Vehicle.Initial
	} else if !workflow.Vehicle.Valid(v.Status) {
		return nil, fmt.Errorf("%w: %s: unknown status %q",
			errs.ErrInvalidTransition, workflow.Vehicle.Name, v.Status)
	}
	v.ID = uuid.NewString()
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	s.emitCounts(ctx)
	return v, nil
}

// Update 整单覆盖更新（前端回传完整表单）。id 与状态以库内为准，
// 状态变更走 SetStatus。
func (s *VehicleService) Update(ctx context.Context, id string, in *Vehicle) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ID = cur.ID
	in.Status = cur.Status
	in.CreatedAt = cur.CreatedAt
	if strings.TrimSpace(in.Make) == "" {
		return nil, errs.NewValidation("make", "required")
	}
	if strings.TrimSpace(in.Model) == "" {
		return nil, errs.NewValidation("model", "required")
	}
	if err := s.repo.Update(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// SetStatus 上架/暂停/售出，经状态机校验（Sold 为终态）。
func (s *VehicleService) SetStatus(ctx context.Context, id string, to workflow.Status) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.Vehicle.Apply(v.Status, to)
	if err != nil {
		return nil, err
	}
	v.Status = next
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VehicleService) Get(ctx context.Context, id string) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *VehicleService) List(ctx context.Context) ([]Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx)
}

// Delete 下架（物理删除）。删行前先写归档报告；报告写失败只告警，
// 不阻塞下架。
func (s *VehicleService) Delete(ctx context.Context, id string) (bool, error) {
	if s == nil || s.repo == nil {
		return false, fmt.Errorf("service not initialized")
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if s.reports != nil {
		if _, err := s.reports.WriteVehicle(v.ID, v.Make, v.Model, v.RegNumber, vehicleDetails(v), vehicleImages(v)); err != nil {
			s.log.Warnf("archive report for vehicle %s failed: %v", v.ID, err)
		}
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.emitCounts(ctx)
	}
	return deleted, nil
}

func (s *VehicleService) emitCounts(ctx context.Context) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return
	}
	s.notifier.Emit(notify.EventUpdateCounts, map[string]interface{}{"vehicles": n})
}

// vehicleDetails 报告明细：除照片外的全部列。
func vehicleDetails(v *Vehicle) []report.Field {
	return []report.Field{
		{Key: "id", Value: v.ID},
		{Key: "category", Value: v.Category},
		{Key: "year", Value: intField(v.Year)},
		{Key: "make", Value: v.Make},
		{Key: "model", Value: v.Model},
		{Key: "variant", Value: v.Variant},
		{Key: "price", Value: intField(int(v.Price))},
		{Key: "status", Value: string(v.Status)},
		{Key: "verified", Value: strconv.FormatBool(v.Verified)},
		{Key: "regYear", Value: intField(v.RegYear)},
		{Key: "mfgYear", Value: intField(v.MfgYear)},
		{Key: "regNumber", Value: v.RegNumber},
		{Key: "odometer", Value: intField(v.Odometer)},
		{Key: "fuelType", Value: v.FuelType},
		{Key: "transmission", Value: v.Transmission},
		{Key: "rtoState", Value: v.RtoState},
		{Key: "ownership", Value: v.Ownership},
		{Key: "insurance", Value: v.Insurance},
		{Key: "serviceHistory", Value: v.ServiceHistory},
		{Key: "color", Value: v.Color},
		{Key: "createdAt", Value: v.CreatedAt.Format("2006-01-02 15:04:05")},
	}
}

func vehicleImages(v *Vehicle) []report.Image {
	fields := v.Images()
	out := make([]report.Image, 0, len(fields))
	for _, f := range fields {
		out = append(out, report.Image{Name: f.Name, URL: f.URL})
	}
	return out
}

func intField(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// BannerService 首页 Banner 用例。
type BannerService struct {
	repo *BannerRepo
}

func NewBannerService(repo *BannerRepo) *BannerService {
	return &BannerService{repo: repo}
}

func (s *BannerService) Add(ctx context.Context, title, imageURL string) (*Banner, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	title = strings.TrimSpace(title)
	imageURL = strings.TrimSpace(imageURL)
	if title == "" {
		return nil, errs.NewValidation("title", "required")
	}
	if imageURL == "" {
		return nil, errs.NewValidation("imageUrl", "required")
	}
	b := &Banner{
		ID:       uuid.NewString(),
		Title:    title,
		ImageURL: imageURL,
		Status:   workflow.Banner.Initial,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BannerService) Update(ctx context.Context, id, title, imageURL string) (*Banner, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(title); t != "" {
		b.Title = t
	}
	if u := strings.TrimSpace(imageURL); u != "" {
		b.ImageURL = u
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BannerService) SetStatus(ctx context.Context, id string, to workflow.Status) (*Banner, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.Banner.Apply(b.Status, to)
	if err != nil {
		return nil, err
	}
	b.Status = next
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BannerService) List(ctx context.Context) ([]Banner, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx)
}

// ListActive 商城前端可见的 Banner。
func (s *BannerService) ListActive(ctx context.Context) ([]Banner, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.ListActive(ctx)
}

func (s *BannerService) Delete(ctx context.Context, id string) (bool, error) {
	if s == nil || s.repo == nil {
		return false, fmt.Errorf("service not initialized")
	}
	return s.repo.Delete(ctx, id)
}

// UserService 商城用户注册 / 登录。
type UserService struct {
	repo *UserRepo
}

func NewUserService(repo *UserRepo) *UserService {
	return &UserService{repo: repo}
}

// RegisterInput 商城注册入参。
type RegisterInput struct {
	UserType       UserType
	FullName       string
	Phone          string
	Email          string
	Password       string
	DealershipName string
	DealershipType string
	City           string
	State          string
	PinCode        string
}

// Register 手机号全局唯一，重复注册返回 ErrAlreadyExists。
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.FullName == "" {
		return nil, errs.NewValidation("fullName", "required")
	}
	if in.Phone == "" {
		return nil, errs.NewValidation("phone", "required")
	}
	if in.Password == "" {
		return nil, errs.NewValidation("password", "required")
	}
	if in.UserType != UserCustomer && in.UserType != UserDealer {
		return nil, errs.NewValidation("userType", "must be Customer or Dealer")
	}

	salt, err := auth.GenerateSaltHex()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password, salt)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:             uuid.NewString(),
		UserType:       in.UserType,
		FullName:       in.FullName,
		Phone:          in.Phone,
		Email:          strings.TrimSpace(in.Email),
		PasswordHash:   hash,
		PasswordSalt:   salt,
		DealershipName: strings.TrimSpace(in.DealershipName),
		DealershipType: strings.TrimSpace(in.DealershipType),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		PinCode:        strings.TrimSpace(in.PinCode),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 按手机号 + 密码登录。手机号不存在与密码不对都返回 ErrNotFound，
// 不区分提示。
func (s *UserService) Login(ctx context.Context, phone, password string) (*User, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	u, err := s.repo.FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(password, u.PasswordSalt, u.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", errs.ErrNotFound)
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*User, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]User, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx)
}

// InquiryService 车辆咨询用例。
type InquiryService struct {
	repo     *InquiryRepo
	vehicles *VehicleRepo
	users    *UserRepo
	notifier notify.Notifier
}

func NewInquiryService(repo *InquiryRepo, vehicles *VehicleRepo, users *UserRepo, notifier notify.Notifier) *InquiryService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &InquiryService{repo: repo, vehicles: vehicles, users: users, notifier: notifier}
}

// Add 创建咨询前必须解析到车辆和用户，任一缺失整次失败、不落库。
func (s *InquiryService) Add(ctx context.Context, vehicleID, userID string) (*Inquiry, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	v, err := s.vehicles.FindByID(ctx, strings.TrimSpace(vehicleID))
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}

	i := &Inquiry{
		ID:        uuid.NewString(),
		VehicleID: v.ID,
		UserID:    u.ID,
		Status:    workflow.MarketplaceInquiry.Initial,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	s.notifier.Emit(notify.EventNewNotification, map[string]interface{}{
		"type":    "marketplace-inquiry",
		"id":      i.ID,
		"message": fmt.Sprintf("New inquiry for %s %s from %s", v.Make, v.Model, u.FullName),
	})
	return i, nil
}

func (s *InquiryService) List(ctx context.Context) ([]FullInquiry, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.ListFull(ctx)
}

// SetStatus New -> Contacted -> Closed，经状态机校验。
func (s *InquiryService) SetStatus(ctx context.Context, id string, to workflow.Status) (*Inquiry, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.MarketplaceInquiry.Apply(i.Status, to)
	if err != nil {
		return nil, err
	}
	i.Status = next
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *InquiryService) Delete(ctx context.Context, id string) (bool, error) {
	if s == nil || s.repo == nil {
		return false, fmt.Errorf("service not initialized")
	}
	return s.repo.Delete(ctx, id)
}
