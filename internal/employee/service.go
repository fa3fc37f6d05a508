package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trustedvehicles/dealerdesk/internal/common/auth"
	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
	"github.com/trustedvehicles/dealerdesk/internal/notify"
	"github.com/trustedvehicles/dealerdesk/internal/sequence"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// Service 员工账号的核心用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	repo     *Repo
	seq      *sequence.Allocator
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(repo *Repo, seq *sequence.Allocator, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{repo: repo, seq: seq, notifier: notifier, now: time.Now}
}

// AddInput 新建员工入参。
type AddInput struct {
	Email       string
	Name        string
	Password    string
	Phone       string
	DOB         time.Time
	JoiningDate time.Time
	Designation Designation
}

func (s *Service) Add(ctx context.Context, in AddInput) (*Employee, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" {
		return nil, errs.NewValidation("email", "required")
	}
	if in.Name == "" {
		return nil, errs.NewValidation("name", "required")
	}
	if in.Password == "" {
		return nil, errs.NewValidation("password", "required")
	}

	id, err := s.seq.Next(ctx, "employees", IDPrefix, IDWidth)
	if err != nil {
		return nil, err
	}

	salt, err := auth.GenerateSaltHex()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password, salt)
	if err != nil {
		return nil, err
	}

	if in.JoiningDate.IsZero() {
		in.JoiningDate = s.now()
	}
	e := &Employee{
		ID:           id,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		PasswordSalt: salt,
		Phone:        strings.TrimSpace(in.Phone),
		DOB:          in.DOB,
		JoiningDate:  in.JoiningDate,
		Designation:  in.Designation,
		Status:       workflow.Account.Initial,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.emitCounts(ctx)
	return e, nil
}

// UpdateInput 编辑员工。nil 字段保持原值；Password 非空时重置口令。
type UpdateInput struct {
	Email       *string
	Name        *string
	Password    *string
	Phone       *string
	DOB         *time.Time
	JoiningDate *time.Time
	Designation *Designation
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Employee, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		e.Email = strings.TrimSpace(*in.Email)
	}
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		e.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.DOB != nil {
		e.DOB = *in.DOB
	}
	if in.JoiningDate != nil {
		e.JoiningDate = *in.JoiningDate
	}
	if in.Designation != nil {
		e.Designation = *in.Designation
	}
	if in.Password != nil && *in.Password != "" {
		salt, err := auth.GenerateSaltHex()
		if err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*in.Password, salt)
		if err != nil {
			return nil, err
		}
		e.PasswordSalt = salt
		e.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.emitCounts(ctx)
	return e, nil
}

// SetStatus 启用/停用切换（Active ⇄ Inactive），经状态机校验。
func (s *Service) SetStatus(ctx context.Context, id string, to workflow.Status) (*Employee, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.Account.Apply(e.Status, to)
	if err != nil {
		return nil, err
	}
	e.Status = next
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// SoftDelete 软删除：必须给出原因；置 Deleted 并记录原因与时间。
// 之后默认列表立即不可见，只能从归档列表查到。
func (s *Service) SoftDelete(ctx context.Context, id, reason string) (*Employee, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.NewValidation("reason", "required")
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.Account.Apply(e.Status, workflow.AccountDeleted)
	if err != nil {
		return nil, err
	}
	now := s.now()
	e.Status = next
	e.DeletionReason = &reason
	e.DeletedAt = &now

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.emitCounts(ctx)
	return e, nil
}

// Restore 恢复软删除的账号：回到 Active，清除删除原因与时间。
func (s *Service) Restore(ctx context.Context, id string) (*Employee, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != workflow.AccountDeleted {
		return nil, fmt.Errorf("%w: account: restore requires Deleted, got %s",
			errs.ErrInvalidTransition, e.Status)
	}
	e.Status = workflow.AccountActive
	e.DeletionReason = nil
	e.DeletedAt = nil

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.emitCounts(ctx)
	return e, nil
}

// Purge 物理删除，不可逆。只从归档视图调用；不做级联检查。
func (s *Service) Purge(ctx context.Context, id string) (bool, error) {
	if s == nil || s.repo == nil {
		return false, fmt.Errorf("service not initialized")
	}
	return s.repo.Delete(ctx, id)
}

// Login 校验邮箱口令；软删除/停用账号不可登录。
func (s *Service) Login(ctx context.Context, email, password string) (*Employee, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	e, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if e.Status != workflow.AccountActive {
		return nil, fmt.Errorf("%w: employee %s", errs.ErrNotFound, email)
	}
	if !auth.VerifyPassword(password, e.PasswordSalt, e.PasswordHash) {
		return nil, errs.NewValidation("password", "invalid credentials")
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx)
}

func (s *Service) ListDeleted(ctx context.Context) ([]Employee, error) {
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
	s.notifier.Emit(notify.EventUpdateCounts, map[string]interface{}{"users": n})
}
