package inspection

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

func (r *Repo) Create(ctx context.Context, i *Inspection) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Inspection, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var i Inspection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: inspection %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &i, nil
}

// ListFilter 列表过滤条件（都是可选的）。
type ListFilter struct {
	Status       workflow.Status
	AssignedToID string
	DealerID     string
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Inspection, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := r.db.WithContext(ctx).Model(&Inspection{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AssignedToID != "" {
		q = q.Where("assigned_to_id = ?", f.AssignedToID)
	}
	if f.DealerID != "" {
		q = q.Where("dealer_id = ?", f.DealerID)
	}
	var out []Inspection
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&Inspection{}).Count(&total).Error
	return total, err
}

func (r *Repo) Update(ctx context.Context, i *Inspection) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Save(i).Error
}

// Delete 物理删除，幂等。
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Inspection{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
