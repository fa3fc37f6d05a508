package workflow

// 各实体家族的状态取值与流转配置。
// 状态字符串是对外可见的（入库 + API 返回），不要改动已有取值。

// 检测工单（Inspection）。
const (
	InspectionRequested Status = "Requested"
	InspectionPending   Status = "Pending"
	InspectionViewed    Status = "Viewed"
	InspectionCompleted Status = "Completed"
	InspectionCancelled Status = "Cancelled"
)

// Inspection 检测工单状态机：
// - 创建时未分配检测员为 Requested，已分配为 Pending
// - 打开详情触发 Requested/Pending -> Viewed（幂等）
// - Completed / Cancelled 为终态
var Inspection = Definition{
	Name:    "inspection",
	Initial: InspectionRequested,
	Allowed: map[Status][]Status{
		InspectionRequested: {InspectionPending, InspectionViewed, InspectionCompleted, InspectionCancelled},
		InspectionPending:   {InspectionViewed, InspectionCompleted, InspectionCancelled},
		InspectionViewed:    {InspectionCompleted, InspectionCancelled},
		InspectionCompleted: {},
		InspectionCancelled: {},
	},
}

// 线索类（联系表单、卖车申请、贷款、续保、PDI、站内检测申请、商城咨询/留言）。
// 各表的中间态叫法不同（Read / Viewed / Contacted），终态也不同
// （Closed / Archived / Completed），所以按取值分别建 Definition。
const (
	LeadNew       Status = "New"
	LeadRead      Status = "Read"
	LeadViewed    Status = "Viewed"
	LeadContacted Status = "Contacted"
	LeadClosed    Status = "Closed"
	LeadArchived  Status = "Archived"
	LeadCompleted Status = "Completed"
)

// leadChain 按“初始 -> 已读 -> 终态”的固定形状生成线索状态机。
func leadChain(name string, seen, terminal Status) Definition {
	return Definition{
		Name:    name,
		Initial: LeadNew,
		Allowed: map[Status][]Status{
			LeadNew:  {seen, terminal},
			seen:     {terminal},
			terminal: {},
		},
	}
}

var (
	// Contact 官网联系表单：New -> Read -> Archived。
	Contact = leadChain("contact", LeadRead, LeadArchived)
	// SellRequest 卖车申请：New -> Contacted -> Closed。
	SellRequest = leadChain("sell_request", LeadContacted, LeadClosed)
	// WebsiteInspection 官网检测申请：New -> Viewed -> Contacted。
	WebsiteInspection = leadChain("website_inspection", LeadViewed, LeadContacted)
	// LoanRequest 贷款申请：New -> Contacted -> Closed。
	LoanRequest = leadChain("loan_request", LeadContacted, LeadClosed)
	// InsuranceRenewal 保险续保：New -> Contacted -> Closed。
	InsuranceRenewal = leadChain("insurance_renewal", LeadContacted, LeadClosed)
	// PDIInspection 提车检测：New -> Viewed -> Completed。
	PDIInspection = leadChain("pdi_inspection", LeadViewed, LeadCompleted)
	// MarketplaceContact 商城留言：New -> Read -> Archived。
	MarketplaceContact = leadChain("marketplace_contact", LeadRead, LeadArchived)
	// MarketplaceInquiry 商城咨询：New -> Contacted -> Closed。
	MarketplaceInquiry = leadChain("marketplace_inquiry", LeadContacted, LeadClosed)
)

// 商城在售车辆。
const (
	VehicleForSale Status = "For Sale"
	VehiclePaused  Status = "Paused"
	VehicleSold    Status = "Sold"
)

// Vehicle 在售/暂停可自由切换，Sold 为终态；下架走硬删除（见 marketplace 包）。
var Vehicle = Definition{
	Name:    "marketplace_vehicle",
	Initial: VehicleForSale,
	Allowed: map[Status][]Status{
		VehicleForSale: {VehiclePaused, VehicleSold},
		VehiclePaused:  {VehicleForSale, VehicleSold},
		VehicleSold:    {},
	},
}

// 商城 Banner：启用/停用自由切换，无终态。
const (
	BannerActive   Status = "Active"
	BannerInactive Status = "Inactive"
)

var Banner = Definition{
	Name:    "marketplace_banner",
	Initial: BannerActive,
	Allowed: map[Status][]Status{
		BannerActive:   {BannerInactive},
		BannerInactive: {BannerActive},
	},
}

// 员工 / 车商账号：启用/停用自由切换，删除走软删除生命周期
// （Deleted 可 restore 回 Active，purge 由 repo 层物理删除）。
const (
	AccountActive   Status = "Active"
	AccountInactive Status = "Inactive"
	AccountDeleted  Status = "Deleted"
)

var Account = Definition{
	Name:    "account",
	Initial: AccountActive,
	Allowed: map[Status][]Status{
		AccountActive:   {AccountInactive, AccountDeleted},
		AccountInactive: {AccountActive, AccountDeleted},
		AccountDeleted:  {AccountActive},
	},
}
