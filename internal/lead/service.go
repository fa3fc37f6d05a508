package lead

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/trustedvehicles/dealerdesk/internal/notify"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// ptr 约束：*T 且实现了 Record。
type ptr[T any] interface {
	*T
	Record
}

// Service 线索通用用例：创建、标记已读、状态流转、删除。
// 六种线索只差模型字段和状态机取值，行为完全共享。
type Service[T any, PT ptr[T]] struct {
	repo     *Repo[T]
	notifier notify.Notifier
	countKey string
}

func NewService[T any, PT ptr[T]](repo *Repo[T], notifier notify.Notifier, countKey string) *Service[T, PT] {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service[T, PT]{repo: repo, notifier: notifier, countKey: countKey}
}

// Add 落库新线索：分配 uuid、置初始状态，成功后广播新线索通知。
// 字段校验由 HTTP 层的 binding 完成，这里只管生命周期。
func (s *Service[T, PT]) Add(ctx context.Context, rec PT) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("service not initialized")
	}
	rec.SetID(uuid.NewString())
	rec.SetStatus(rec.Definition().Initial)
	if err := s.repo.Create(ctx, (*T)(rec)); err != nil {
		return err
	}
	s.notifier.Emit(notify.EventNewNotification, map[string]interface{}{
		"type":    rec.Kind(),
		"id":      rec.GetID(),
		"message": rec.NotifyMessage(),
	})
	s.emitCounts(ctx)
	return nil
}

func (s *Service[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service[T, PT]) List(ctx context.Context) ([]T, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx)
}

// MarkSeen 打开详情后显式标记已读（New -> 该类型的已读态）。
// 已不在 New 的记录幂等返回；读路径不做任何写入。
func (s *Service[T, PT]) MarkSeen(ctx context.Context, id string) (*T, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := PT(rec)
	def := p.Definition()
	next, changed := def.MarkSeen(p.GetStatus(), def.Initial, seenOf(def))
	if !changed {
		return rec, nil
	}
	p.SetStatus(next)
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SetStatus 显式状态编辑，经状态机校验。
func (s *Service[T, PT]) SetStatus(ctx context.Context, id string, to workflow.Status) (*T, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := PT(rec)
	next, err := p.Definition().Apply(p.GetStatus(), to)
	if err != nil {
		return nil, err
	}
	p.SetStatus(next)
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete 物理删除；删掉了行才广播计数变化。
func (s *Service[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	if s == nil || s.repo == nil {
		return false, fmt.Errorf("service not initialized")
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

func (s *Service[T, PT]) emitCounts(ctx context.Context) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return
	}
	s.notifier.Emit(notify.EventUpdateCounts, map[string]interface{}{s.countKey: n})
}

// seenOf 取线索状态机里的“已读”态：初始态可达状态中仍有后继的那个。
func seenOf(def workflow.Definition) workflow.Status {
	for _, st := range def.Allowed[def.Initial] {
		if len(def.Allowed[st]) > 0 {
			return st
		}
	}
	return def.Initial
}
