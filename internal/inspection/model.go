package inspection

import (
	"time"

	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// 检测单编号前缀：INS-0000001（7 位，顺序分配）。
const (
	IDPrefix = "INS"
	IDWidth  = 7
)

// Unassigned 未分配检测员的哨兵值。
const Unassigned = "Unassigned"

// Source 工单来源。
type Source string

const (
	SourceManual Source = "Manual" // 后台手工录入
	SourceAPI    Source = "API"    // 官网/第三方接口
)

// LeadType 线索类型：个人客户 / 合作车商。
type LeadType string

const (
	LeadCustomer LeadType = "Customer"
	LeadDealer   LeadType = "Dealer"
)

// Inspection 是 inspections 表的 GORM 模型（上门检测工单）。
// 状态走 workflow.Inspection；dealer_id 只在车商线索时填写，
// 对应车商被物理删除后允许悬空，读取侧按未关联处理。
type Inspection struct {
	ID                 string          `gorm:"primaryKey;size:16" json:"id"`
	FullName           string          `gorm:"size:64;not null" json:"fullName"`
	PhoneNumber        string          `gorm:"size:32;not null" json:"phoneNumber"`
	Street             string          `gorm:"size:128" json:"street"`
	City               string          `gorm:"size:64" json:"city"`
	State              string          `gorm:"size:64" json:"state"`
	PinCode            string          `gorm:"size:16" json:"pinCode"`
	VehicleMake        string          `gorm:"size:64;not null" json:"vehicleMake"`
	VehicleModel       string          `gorm:"size:64;not null" json:"vehicleModel"`
	CarYear            string          `gorm:"size:8" json:"carYear"`
	RegistrationNumber string          `gorm:"size:32;not null" json:"registrationNumber"`
	InspectionType     string          `gorm:"size:64" json:"inspectionType"`
	AssignedToID       string          `gorm:"index;size:16;not null;default:'Unassigned'" json:"assignedToId"`
	Status             workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	Source             Source          `gorm:"size:8;not null" json:"source"`
	LeadType           LeadType        `gorm:"size:16;not null" json:"leadType"`
	DealerID           string          `gorm:"index;size:36" json:"dealerId,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
