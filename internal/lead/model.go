package lead

import (
	"fmt"
	"time"

	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// 线索类实体：官网各入口表单落下来的行。共同形状是
// id + createdAt + status（New -> 已读 -> 终态），其余是各自的载荷字段。
// 行生命周期：创建 -> 状态流转 -> 硬删除（无软删除层）。

// Record 线索记录的公共访问面（由各模型的指针实现）。
type Record interface {
	GetID() string
	SetID(id string)
	GetStatus() workflow.Status
	SetStatus(s workflow.Status)
	// Definition 该类型的状态机。
	Definition() workflow.Definition
	// Kind 通知事件里的类型标识。
	Kind() string
	// NotifyMessage 新线索的通知文案。
	NotifyMessage() string
}

// ContactSubmission 官网联系表单。
type ContactSubmission struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Name      string          `gorm:"size:64;not null" json:"name" binding:"required"`
	Email     string          `gorm:"size:128;not null" json:"email" binding:"required"`
	Phone     string          `gorm:"size:32" json:"phone"`
	Subject   string          `gorm:"size:128;not null" json:"subject" binding:"required"`
	Message   string          `gorm:"size:2048;not null" json:"message" binding:"required"`
	Status    workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (c *ContactSubmission) GetID() string                    { return c.ID }
func (c *ContactSubmission) SetID(id string)                  { c.ID = id }
func (c *ContactSubmission) GetStatus() workflow.Status       { return c.Status }
func (c *ContactSubmission) SetStatus(s workflow.Status)      { c.Status = s }
func (c *ContactSubmission) Definition() workflow.Definition  { return workflow.Contact }
func (c *ContactSubmission) Kind() string                     { return "contact" }
func (c *ContactSubmission) NotifyMessage() string {
	return fmt.Sprintf("New contact from %s", c.Name)
}

// SellCarRequest 卖车申请。
type SellCarRequest struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`
	Make              string          `gorm:"size:64;not null" json:"make" binding:"required"`
	Model             string          `gorm:"size:64;not null" json:"model" binding:"required"`
	Year              string          `gorm:"size:8" json:"year"`
	Variant           string          `gorm:"size:64" json:"variant"`
	FuelType          string          `gorm:"size:32" json:"fuelType"`
	Transmission      string          `gorm:"size:32" json:"transmission"`
	KmDriven          string          `gorm:"size:16" json:"kmDriven"`
	Owners            string          `gorm:"size:16" json:"owners"`
	RegistrationState string          `gorm:"size:64" json:"registrationState"`
	City              string          `gorm:"size:64" json:"city"`
	SellerName        string          `gorm:"size:64;not null" json:"sellerName" binding:"required"`
	Phone             string          `gorm:"size:32;not null" json:"phone" binding:"required"`
	Email             string          `gorm:"size:128" json:"email"`
	Description       string          `gorm:"size:2048" json:"description"`
	Status            workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (s *SellCarRequest) GetID() string                   { return s.ID }
func (s *SellCarRequest) SetID(id string)                 { s.ID = id }
func (s *SellCarRequest) GetStatus() workflow.Status      { return s.Status }
func (s *SellCarRequest) SetStatus(st workflow.Status)    { s.Status = st }
func (s *SellCarRequest) Definition() workflow.Definition { return workflow.SellRequest }
func (s *SellCarRequest) Kind() string                    { return "sell-request" }
func (s *SellCarRequest) NotifyMessage() string {
	return fmt.Sprintf("New sell request from %s", s.SellerName)
}

// WebsiteInspection 官网检测申请（区别于后台录入的 Inspection 工单）。
type WebsiteInspection struct {
	ID                 string          `gorm:"primaryKey;size:36" json:"id"`
	FullName           string          `gorm:"size:64;not null" json:"fullName" binding:"required"`
	PhoneNumber        string          `gorm:"size:32;not null" json:"phoneNumber" binding:"required"`
	CarMake            string          `gorm:"size:64;not null" json:"carMake" binding:"required"`
	CarModel           string          `gorm:"size:64;not null" json:"carModel" binding:"required"`
	CarYear            string          `gorm:"size:8" json:"carYear"`
	InspectionType     string          `gorm:"size:64" json:"inspectionType"`
	RegistrationNumber string          `gorm:"size:32" json:"registrationNumber"`
	Street             string          `gorm:"size:128" json:"street"`
	City               string          `gorm:"size:64" json:"city"`
	State              string          `gorm:"size:64" json:"state"`
	PinCode            string          `gorm:"size:16" json:"pinCode"`
	Status             workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (w *WebsiteInspection) GetID() string                   { return w.ID }
func (w *WebsiteInspection) SetID(id string)                 { w.ID = id }
func (w *WebsiteInspection) GetStatus() workflow.Status      { return w.Status }
func (w *WebsiteInspection) SetStatus(s workflow.Status)     { w.Status = s }
func (w *WebsiteInspection) Definition() workflow.Definition { return workflow.WebsiteInspection }
func (w *WebsiteInspection) Kind() string                    { return "website-inspection" }
func (w *WebsiteInspection) NotifyMessage() string {
	return fmt.Sprintf("Website inspection req from %s", w.FullName)
}

// LoanRequest 购车贷款申请。
type LoanRequest struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	Name         string          `gorm:"size:64;not null" json:"name" binding:"required"`
	Phone        string          `gorm:"size:32;not null" json:"phone" binding:"required"`
	Email        string          `gorm:"size:128;not null" json:"email" binding:"required"`
	Make         string          `gorm:"size:64;not null" json:"make" binding:"required"`
	Model        string          `gorm:"size:64;not null" json:"model" binding:"required"`
	Variant      string          `gorm:"size:64" json:"variant"`
	PANNumber    string          `gorm:"size:16;not null" json:"panNumber" binding:"required"`
	AadharNumber string          `gorm:"size:16;not null" json:"aadharNumber" binding:"required"`
	Status       workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (l *LoanRequest) GetID() string                   { return l.ID }
func (l *LoanRequest) SetID(id string)                 { l.ID = id }
func (l *LoanRequest) GetStatus() workflow.Status      { return l.Status }
func (l *LoanRequest) SetStatus(s workflow.Status)     { l.Status = s }
func (l *LoanRequest) Definition() workflow.Definition { return workflow.LoanRequest }
func (l *LoanRequest) Kind() string                    { return "loan-request" }
func (l *LoanRequest) NotifyMessage() string {
	return fmt.Sprintf("New loan request from %s", l.Name)
}

// InsuranceRenewal 保险续保申请。
type InsuranceRenewal struct {
	ID                 string          `gorm:"primaryKey;size:36" json:"id"`
	Name               string          `gorm:"size:64;not null" json:"name" binding:"required"`
	Phone              string          `gorm:"size:32;not null" json:"phone" binding:"required"`
	RegistrationNumber string          `gorm:"size:32;not null" json:"registrationNumber" binding:"required"`
	InsuranceType      string          `gorm:"size:64;not null" json:"insuranceType" binding:"required"`
	Status             workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (i *InsuranceRenewal) GetID() string                   { return i.ID }
func (i *InsuranceRenewal) SetID(id string)                 { i.ID = id }
func (i *InsuranceRenewal) GetStatus() workflow.Status      { return i.Status }
func (i *InsuranceRenewal) SetStatus(s workflow.Status)     { i.Status = s }
func (i *InsuranceRenewal) Definition() workflow.Definition { return workflow.InsuranceRenewal }
func (i *InsuranceRenewal) Kind() string                    { return "insurance-renewal" }
func (i *InsuranceRenewal) NotifyMessage() string {
	return fmt.Sprintf("New insurance renewal for %s", i.Name)
}

// PDIInspection 提车前检测（PDI）申请。
type PDIInspection struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Name      string          `gorm:"size:64;not null" json:"name" binding:"required"`
	Phone     string          `gorm:"size:32;not null" json:"phone" binding:"required"`
	Email     string          `gorm:"size:128;not null" json:"email" binding:"required"`
	City      string          `gorm:"size:64;not null" json:"city" binding:"required"`
	Make      string          `gorm:"size:64;not null" json:"make" binding:"required"`
	Model     string          `gorm:"size:64;not null" json:"model" binding:"required"`
	Status    workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (p *PDIInspection) GetID() string                   { return p.ID }
func (p *PDIInspection) SetID(id string)                 { p.ID = id }
func (p *PDIInspection) GetStatus() workflow.Status      { return p.Status }
func (p *PDIInspection) SetStatus(s workflow.Status)     { p.Status = s }
func (p *PDIInspection) Definition() workflow.Definition { return workflow.PDIInspection }
func (p *PDIInspection) Kind() string                    { return "pdi-inspection" }
func (p *PDIInspection) NotifyMessage() string {
	return fmt.Sprintf("New PDI request from %s", p.Name)
}
