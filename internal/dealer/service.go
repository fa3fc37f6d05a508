package dealer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
	"github.com/trustedvehicles/dealerdesk/internal/notify"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

type Service struct {
	repo     *Repo
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(repo *Repo, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// AddInput 新建车商入参。
type AddInput struct {
	DealershipName string
	OwnerName      string
	Email          string
	Phone          string
	Address        string
	JoiningDate    time.Time
}

func (s *Service) Add(ctx context.Context, in AddInput) (*Dealer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	in.DealershipName = strings.TrimSpace(in.DealershipName)
	in.OwnerName = strings.TrimSpace(in.OwnerName)
	if in.DealershipName == "" {
		return nil, errs.NewValidation("dealershipName", "required")
	}
	if in.OwnerName == "" {
		return nil, errs.NewValidation("ownerName", "required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return nil, errs.NewValidation("phone", "required")
	}
	if in.JoiningDate.IsZero() {
		in.JoiningDate = s.now()
	}

	d := &Dealer{
		ID:             uuid.NewString(),
		DealershipName: in.DealershipName,
		OwnerName:      in.OwnerName,
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Address:        strings.TrimSpace(in.Address),
		JoiningDate:    in.JoiningDate,
		Status:         workflow.Account.Initial,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.emitCounts(ctx)
	return d, nil
}

// UpdateInput 编辑车商。nil 字段保持原值。
type UpdateInput struct {
	DealershipName *string
	OwnerName      *string
	Email          *string
	Phone          *string
	Address        *string
	JoiningDate    *time.Time
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Dealer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.DealershipName != nil {
		d.DealershipName = strings.TrimSpace(*in.DealershipName)
	}
	if in.OwnerName != nil {
		d.OwnerName = strings.TrimSpace(*in.OwnerName)
	}
	if in.Email != nil {
		d.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		d.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		d.Address = strings.TrimSpace(*in.Address)
	}
	if in.JoiningDate != nil {
		d.JoiningDate = *in.JoiningDate
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.emitCounts(ctx)
	return d, nil
}

// SetStatus 启用/停用切换，经状态机校验。
func (s *Service) SetStatus(ctx context.Context, id string, to workflow.Status) (*Dealer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.Account.Apply(d.Status, to)
	if err != nil {
		return nil, err
	}
	d.Status = next
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SoftDelete 软删除，原因必填。
func (s *Service) SoftDelete(ctx context.Context, id, reason string) (*Dealer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.NewValidation("reason", "required")
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.Account.Apply(d.Status, workflow.AccountDeleted)
	if err != nil {
		return nil, err
	}
	now := s.now()
	d.Status = next
	d.DeletionReason = &reason
	d.DeletedAt = &now
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.emitCounts(ctx)
	return d, nil
}

// Restore 恢复软删除的车商。
func (s *Service) Restore(ctx context.Context, id string) (*Dealer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != workflow.AccountDeleted {
		return nil, fmt.Errorf("%w: account: restore requires Deleted, got %s",
			errs.ErrInvalidTransition, d.Status)
	}
	d.Status = workflow.AccountActive
	d.DeletionReason = nil
	d.DeletedAt = nil
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.emitCounts(ctx)
	return d, nil
}

// Purge 物理删除，不可逆。不级联：引用该车商的检测单保留，
// dealer_id 悬空，读取侧按“未关联”展示。
func (s *Service) Purge(ctx context.Context, id string) (bool, error) {
	if s == nil || s.repo == nil {
		return false, fmt.Errorf("service not initialized")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*Dealer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.FindByID(ctx, id)
}

// List 返回车商及各自名下的线索数。
func (s *Service) List(ctx context.Context) ([]WithLeads, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	dealers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.LeadCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WithLeads, 0, len(dealers))
	for _, d := range dealers {
		out = append(out, WithLeads{Dealer: d, LeadsCount: counts[d.ID]})
	}
	return out, nil
}

func (s *Service) ListDeleted(ctx context.Context) ([]Dealer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.ListDeleted(ctx)
}

func (s *Service) emitCounts(ctx context.Context) {
	n, err := s.repo.CountActive(ctx)
	if err != nil {
		return
	}
	s.notifier.Emit(notify.EventUpdateCounts, map[string]interface{}{"dealers": n})
}
