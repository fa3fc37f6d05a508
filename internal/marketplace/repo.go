package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// VehicleRepo 在售车辆仓储。
type VehicleRepo struct {
	db *gorm.DB
}

func NewVehicleRepo(db *gorm.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

func (r *VehicleRepo) Create(ctx context.Context, v *Vehicle) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VehicleRepo) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepo) List(ctx context.Context) ([]Vehicle, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Vehicle
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *VehicleRepo) Count(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&Vehicle{}).Count(&total).Error
	return total, err
}

func (r *VehicleRepo) Update(ctx context.Context, v *Vehicle) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Save(v).Error
}

// Delete 物理删除，幂等。
func (r *VehicleRepo) Delete(ctx context.Context, id string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Vehicle{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// BannerRepo 首页 Banner 仓储。
type BannerRepo struct {
	db *gorm.DB
}

func NewBannerRepo(db *gorm.DB) *BannerRepo {
	return &BannerRepo{db: db}
}

func (r *BannerRepo) Create(ctx context.Context, b *Banner) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BannerRepo) FindByID(ctx context.Context, id string) (*Banner, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var b Banner
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: banner %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *BannerRepo) List(ctx context.Context) ([]Banner, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Banner
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// ListActive 商城前端只看启用中的 Banner。
func (r *BannerRepo) ListActive(ctx context.Context) ([]Banner, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Banner
	err := r.db.WithContext(ctx).
		Where("status = ?", workflow.BannerActive).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *BannerRepo) Update(ctx context.Context, b *Banner) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BannerRepo) Delete(ctx context.Context, id string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Banner{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UserRepo 商城用户仓储。
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create 手机号撞唯一索引时返回 ErrAlreadyExists。
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: phone %s", errs.ErrAlreadyExists, u.Phone)
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var u User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: marketplace user %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (*User, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var u User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: marketplace user phone %s", errs.ErrNotFound, phone)
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// InquiryRepo 车辆咨询仓储。
type InquiryRepo struct {
	db *gorm.DB
}

func NewInquiryRepo(db *gorm.DB) *InquiryRepo {
	return &InquiryRepo{db: db}
}

func (r *InquiryRepo) Create(ctx context.Context, i *Inquiry) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *InquiryRepo) FindByID(ctx context.Context, id string) (*Inquiry, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var i Inquiry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: inquiry %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &i, nil
}

// ListFull 联表返回咨询 + 车辆摘要 + 用户摘要。
// 车辆或用户被物理删除后对应咨询不再出现在列表里（与内连接语义一致）。
func (r *InquiryRepo) ListFull(ctx context.Context) ([]FullInquiry, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	type row struct {
		ID        string
		Status    workflow.Status
		CreatedAt time.Time
		VehicleID string
		Make      string
		Model     string
		Price     int64
		ImageURL  string
		UserID    string
		FullName  string
		Phone     string
		Email     string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("inquiries AS i").
		Select("i.id, i.status, i.created_at, " +
			"v.id AS vehicle_id, v.make, v.model, v.price, v.image_url, " +
			"u.id AS user_id, u.full_name, u.phone, u.email").
		Joins("JOIN vehicles v ON i.vehicle_id = v.id").
		Joins("JOIN users u ON i.user_id = u.id").
		Order("i.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]FullInquiry, 0, len(rows))
	for _, rw := range rows {
		out = append(out, FullInquiry{
			ID:        rw.ID,
			Status:    rw.Status,
			CreatedAt: rw.CreatedAt,
			Vehicle: InquiryVehicle{
				ID: rw.VehicleID, Make: rw.Make, Model: rw.Model,
				Price: rw.Price, ImageURL: rw.ImageURL,
			},
			User: InquiryUser{
				ID: rw.UserID, FullName: rw.FullName, Phone: rw.Phone, Email: rw.Email,
			},
		})
	}
	return out, nil
}

func (r *InquiryRepo) Update(ctx context.Context, i *Inquiry) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *InquiryRepo) Delete(ctx context.Context, id string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Inquiry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
