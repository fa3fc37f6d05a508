package employee

import (
	"time"

	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// 员工编号前缀：TVE-000001（6 位，顺序分配，删除后不复用）。
const (
	IDPrefix = "TVE"
	IDWidth  = 6
)

// Designation 岗位。
type Designation string

const (
	DesignationSales     Designation = "Sales"
	DesignationInspector Designation = "Inspector"
	DesignationManager   Designation = "Manager"
	DesignationAdmin     Designation = "Admin"
)

// Employee 是 employees 表的 GORM 模型。
// 状态走 workflow.Account（Active / Inactive / Deleted）；
// Deleted 是软删除：行保留，deletion_reason / deleted_at 记录删除信息，
// 默认列表不可见，可 restore，物理删除需单独 purge。
type Employee struct {
	ID           string          `gorm:"primaryKey;size:16" json:"id"`
	Email        string          `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Name         string          `gorm:"size:64;not null" json:"name"`
	PasswordHash string          `gorm:"size:128;not null" json:"-"`
	PasswordSalt string          `gorm:"size:64;not null" json:"-"`
	Phone        string          `gorm:"size:32" json:"phone"`
	DOB          time.Time       `json:"dob"`
	JoiningDate  time.Time       `json:"joiningDate"`
	Designation  Designation     `gorm:"size:16;not null" json:"designation"`
	Status       workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`

	DeletionReason *string    `gorm:"size:255" json:"deletionReason,omitempty"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
