package employee

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, e *Employee) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: email %s", errs.ErrAlreadyExists, e.Email)
		}
		return err
	}
	return nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Employee, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var e Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var e Employee
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee %s", errs.ErrNotFound, email)
		}
		return nil, err
	}
	return &e, nil
}

// List 默认列表：排除软删除的行。
func (r *Repo) List(ctx context.Context) ([]Employee, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Employee
	err := r.db.WithContext(ctx).
		Where("status <> ?", workflow.AccountDeleted).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListDeleted 归档列表：仅软删除的行。
func (r *Repo) ListDeleted(ctx context.Context) ([]Employee, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Employee
	err := r.db.WithContext(ctx).
		Where("status = ?", workflow.AccountDeleted).
		Order("deleted_at desc").
		Find(&out).Error
	return out, err
}

// CountActive 非软删除的行数（update-counts 事件用）。
func (r *Repo) CountActive(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&Employee{}).
		Where("status <> ?", workflow.AccountDeleted).
		Count(&total).Error
	return total, err
}

func (r *Repo) Update(ctx context.Context, e *Employee) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: email %s", errs.ErrAlreadyExists, e.Email)
		}
		return err
	}
	return nil
}

// Delete 物理删除。返回是否真的删掉了行（不存在返回 false，不报错，幂等）。
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Employee{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
