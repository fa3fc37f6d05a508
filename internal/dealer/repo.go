package dealer

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

func (r *Repo) Create(ctx context.Context, d *Dealer) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Dealer, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var d Dealer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: dealer %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &d, nil
}

// List 默认列表（排除软删除），按加盟时间倒序。
func (r *Repo) List(ctx context.Context) ([]Dealer, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Dealer
	err := r.db.WithContext(ctx).
		Where("status <> ?", workflow.AccountDeleted).
		Order("joining_date desc").
		Find(&out).Error
	return out, err
}

func (r *Repo) ListDeleted(ctx context.Context) ([]Dealer, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []Dealer
	err := r.db.WithContext(ctx).
		Where("status = ?", workflow.AccountDeleted).
		Order("deleted_at desc").
		Find(&out).Error
	return out, err
}

func (r *Repo) CountActive(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&Dealer{}).
		Where("status <> ?", workflow.AccountDeleted).
		Count(&total).Error
	return total, err
}

// LeadCounts 统计各车商名下的检测线索数（dealer_id 非空的检测单）。
func (r *Repo) LeadCounts(ctx context.Context) (map[string]int64, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	rows := []struct {
		DealerID string
		Count    int64
	}{}
	err := r.db.WithContext(ctx).
		Table("inspections").
		Select("dealer_id, COUNT(*) as count").
		Where("dealer_id IS NOT NULL AND dealer_id <> ''").
		Group("dealer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.DealerID] = row.Count
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, d *Dealer) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Save(d).Error
}

// Delete 物理删除，幂等（见 employee.Repo.Delete）。
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Dealer{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
