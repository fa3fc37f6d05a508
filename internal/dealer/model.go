package dealer

import (
	"time"

	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// Dealer 是 dealers 表的 GORM 模型（合作车商）。
// 生命周期与员工账号相同：Active / Inactive / Deleted（软删除）。
type Dealer struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	DealershipName string          `gorm:"size:128;not null" json:"dealershipName"`
	OwnerName      string          `gorm:"size:64;not null" json:"ownerName"`
	Email          string          `gorm:"size:128;not null" json:"email"`
	Phone          string          `gorm:"size:32;not null" json:"phone"`
	Address        string          `gorm:"size:255;not null" json:"address"`
	JoiningDate    time.Time       `json:"joiningDate"`
	Status         workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`

	DeletionReason *string    `gorm:"size:255" json:"deletionReason,omitempty"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// WithLeads 车商 + 名下检测线索数（后台列表展示用）。
type WithLeads struct {
	Dealer
	LeadsCount int64 `json:"leadsCount"`
}
