package lead

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
)

// Repo 线索表的通用仓储。六张线索表的存取路径完全一致
// （按 id 读写、按创建时间倒序列表、硬删除），用泛型收掉六份拷贝。
type Repo[T any] struct {
	db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) *Repo[T] {
	return &Repo[T]{db: db}
}

func (r *Repo[T]) Create(ctx context.Context, rec *T) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repo[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rec T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lead %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &rec, nil
}

func (r *Repo[T]) List(ctx context.Context) ([]T, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out []T
	err := r.db.WithContext(ctx).Model(new(T)).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *Repo[T]) Count(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error
	return total, err
}

func (r *Repo[T]) Update(ctx context.Context, rec *T) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Save(rec).Error
}

// Delete 物理删除，幂等。
func (r *Repo[T]) Delete(ctx context.Context, id string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
