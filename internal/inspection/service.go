package inspection

import (
	"context"
	"fmt"
	"strings"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
	"github.com/trustedvehicles/dealerdesk/internal/dealer"
	"github.com/trustedvehicles/dealerdesk/internal/notify"
	"github.com/trustedvehicles/dealerdesk/internal/sequence"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// DealerDirectory 车商查询能力（由 dealer.Repo 满足）。
type DealerDirectory interface {
	FindByID(ctx context.Context, id string) (*dealer.Dealer, error)
}

// Service 检测工单核心用例。
type Service struct {
	repo     *Repo
	dealers  DealerDirectory
	seq      *sequence.Allocator
	notifier notify.Notifier
}

func NewService(repo *Repo, dealers DealerDirectory, seq *sequence.Allocator, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{repo: repo, dealers: dealers, seq: seq, notifier: notifier}
}

// AddInput 创建检测单入参。
type AddInput struct {
	FullName           string
	PhoneNumber        string
	Street             string
	City               string
	State              string
	PinCode            string
	VehicleMake        string
	VehicleModel       string
	CarYear            string
	RegistrationNumber string
	InspectionType     string
	AssignedToID       string
	Source             Source
	LeadType           LeadType
	DealerID           string
	// Status 允许 API 来源显式指定初始状态；为空时按分配情况推导。
	Status workflow.Status
}

// Add 创建检测单：
// - 车商线索先解析 dealer_id（不存在则失败，不写任何行），并用车商的
//   名称/电话覆盖联系人字段
// - 未分配检测员 -> Requested；已分配 -> Pending
func (s *Service) Add(ctx context.Context, in AddInput) (*Inspection, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	if in.Source == "" {
		in.Source = SourceManual
	}
	if in.LeadType == "" {
		in.LeadType = LeadCustomer
	}

	if in.LeadType == LeadDealer && in.DealerID != "" {
		d, err := s.dealers.FindByID(ctx, in.DealerID)
		if err != nil {
			return nil, err
		}
		in.FullName = d.DealershipName
		in.PhoneNumber = d.Phone
	}

	in.FullName = strings.TrimSpace(in.FullName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.FullName == "" {
		return nil, errs.NewValidation("fullName", "required")
	}
	if in.PhoneNumber == "" {
		return nil, errs.NewValidation("phoneNumber", "required")
	}
	if strings.TrimSpace(in.VehicleMake) == "" {
		return nil, errs.NewValidation("vehicleMake", "required")
	}
	if strings.TrimSpace(in.VehicleModel) == "" {
		return nil, errs.NewValidation("vehicleModel", "required")
	}
	if strings.TrimSpace(in.RegistrationNumber) == "" {
		return nil, errs.NewValidation("registrationNumber", "required")
	}

	assignedTo := strings.TrimSpace(in.AssignedToID)
	if assignedTo == "" {
		assignedTo = Unassigned
	}

	status := workflow.InspectionRequested
	if assignedTo != Unassigned {
		status = workflow.InspectionPending
	}
	if in.Status != "" {
		if !workflow.Inspection.Valid(in.Status) {
			return nil, fmt.Errorf("%w: inspection: unknown status %q", errs.ErrInvalidTransition, in.Status)
		}
		status = in.Status
	}

	id, err := s.seq.Next(ctx, "inspections", IDPrefix, IDWidth)
	if err != nil {
		return nil, err
	}

	i := &Inspection{
		ID:                 id,
		FullName:           in.FullName,
		PhoneNumber:        in.PhoneNumber,
		Street:             strings.TrimSpace(in.Street),
		City:               strings.TrimSpace(in.City),
		State:              strings.TrimSpace(in.State),
		PinCode:            strings.TrimSpace(in.PinCode),
		VehicleMake:        strings.TrimSpace(in.VehicleMake),
		VehicleModel:       strings.TrimSpace(in.VehicleModel),
		CarYear:            strings.TrimSpace(in.CarYear),
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		InspectionType:     strings.TrimSpace(in.InspectionType),
		AssignedToID:       assignedTo,
		Status:             status,
		Source:             in.Source,
		LeadType:           in.LeadType,
		DealerID:           strings.TrimSpace(in.DealerID),
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}

	s.notifier.Emit(notify.EventNewNotification, map[string]interface{}{
		"type":    "inspection",
		"id":      i.ID,
		"message": fmt.Sprintf("New inspection for %s", i.FullName),
	})
	s.emitCounts(ctx)
	return i, nil
}

// UpdateInput 编辑检测单。nil 字段保持原值。
type UpdateInput struct {
	FullName           *string
	PhoneNumber        *string
	Street             *string
	City               *string
	State              *string
	PinCode            *string
	VehicleMake        *string
	VehicleModel       *string
	CarYear            *string
	RegistrationNumber *string
	InspectionType     *string
	AssignedToID       *string
	LeadType           *LeadType
	DealerID           *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Inspection, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		i.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.PhoneNumber != nil {
		i.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.Street != nil {
		i.Street = strings.TrimSpace(*in.Street)
	}
	if in.City != nil {
		i.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		i.State = strings.TrimSpace(*in.State)
	}
	if in.PinCode != nil {
		i.PinCode = strings.TrimSpace(*in.PinCode)
	}
	if in.VehicleMake != nil {
		i.VehicleMake = strings.TrimSpace(*in.VehicleMake)
	}
	if in.VehicleModel != nil {
		i.VehicleModel = strings.TrimSpace(*in.VehicleModel)
	}
	if in.CarYear != nil {
		i.CarYear = strings.TrimSpace(*in.CarYear)
	}
	if in.RegistrationNumber != nil {
		i.RegistrationNumber = strings.TrimSpace(*in.RegistrationNumber)
	}
	if in.InspectionType != nil {
		i.InspectionType = strings.TrimSpace(*in.InspectionType)
	}
	if in.LeadType != nil {
		i.LeadType = *in.LeadType
	}
	if in.DealerID != nil {
		i.DealerID = strings.TrimSpace(*in.DealerID)
	}
	if in.AssignedToID != nil {
		assignedTo := strings.TrimSpace(*in.AssignedToID)
		if assignedTo == "" {
			assignedTo = Unassigned
		}
		i.AssignedToID = assignedTo
		// Requested 单在编辑中分配了检测员 -> Pending
		if i.Status == workflow.InspectionRequested && assignedTo != Unassigned {
			i.Status = workflow.InspectionPending
		}
	}

	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// Assign 给 Requested 单分配检测员（Requested -> Pending）。
func (s *Service) Assign(ctx context.Context, id, inspectorID string) (*Inspection, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	inspectorID = strings.TrimSpace(inspectorID)
	if inspectorID == "" || inspectorID == Unassigned {
		return nil, errs.NewValidation("inspectorId", "required")
	}
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.Inspection.Apply(i.Status, workflow.InspectionPending)
	if err != nil {
		return nil, err
	}
	i.AssignedToID = inspectorID
	i.Status = next
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// MarkViewed 打开详情后显式标记已查看（Requested/Pending -> Viewed）。
// 对已经不在初始态的单是幂等空操作；读路径本身不做任何写入。
func (s *Service) MarkViewed(ctx context.Context, id string) (*Inspection, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, changed := workflow.Inspection.MarkSeen(i.Status, workflow.InspectionRequested, workflow.InspectionViewed)
	if !changed {
		next, changed = workflow.Inspection.MarkSeen(i.Status, workflow.InspectionPending, workflow.InspectionViewed)
	}
	if !changed {
		return i, nil
	}
	i.Status = next
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// SetStatus 显式状态编辑（完成/取消等），经状态机校验。
func (s *Service) SetStatus(ctx context.Context, id string, to workflow.Status) (*Inspection, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.Inspection.Apply(i.Status, to)
	if err != nil {
		return nil, err
	}
	i.Status = next
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Inspection, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Inspection, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, f)
}

// Delete 物理删除；删掉了行才广播计数变化。
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
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

func (s *Service) emitCounts(ctx context.Context) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return
	}
	s.notifier.Emit(notify.EventUpdateCounts, map[string]interface{}{"inspections": n})
}
