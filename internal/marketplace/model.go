package marketplace

import (
	"fmt"
	"time"

	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// 商城侧实体：在售车辆、首页 Banner、注册用户、车辆咨询、留言。
// 车辆与 Banner 由后台维护，用户/咨询/留言来自商城前端。

// Vehicle 在售车辆。img_* 列是固定拍摄位的照片地址，
// 下架（物理删除）前会把整行连同图片地址归档成 HTML 报告。
type Vehicle struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	Category       string          `gorm:"size:32" json:"category"`
	ImageURL       string          `gorm:"column:image_url;size:512" json:"imageUrl"`
	Year           int             `json:"year"`
	Make           string          `gorm:"size:64;not null" json:"make"`
	Model          string          `gorm:"size:64;not null" json:"model"`
	Variant        string          `gorm:"size:64" json:"variant"`
	Price          int64           `json:"price"`
	Status         workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	Verified       bool            `json:"verified"`
	RegYear        int             `json:"regYear"`
	MfgYear        int             `json:"mfgYear"`
	RegNumber      string          `gorm:"size:32" json:"regNumber"`
	Odometer       int             `json:"odometer"`
	FuelType       string          `gorm:"size:32" json:"fuelType"`
	Transmission   string          `gorm:"size:32" json:"transmission"`
	RtoState       string          `gorm:"size:64" json:"rtoState"`
	Ownership      string          `gorm:"size:32" json:"ownership"`
	Insurance      string          `gorm:"size:64" json:"insurance"`
	ServiceHistory string          `gorm:"size:64" json:"serviceHistory"`
	Color          string          `gorm:"size:32" json:"color"`

	ImgFront          string `gorm:"column:img_front;size:512" json:"img_front,omitempty"`
	ImgFrontRight     string `gorm:"column:img_front_right;size:512" json:"img_front_right,omitempty"`
	ImgRight          string `gorm:"column:img_right;size:512" json:"img_right,omitempty"`
	ImgBackRight      string `gorm:"column:img_back_right;size:512" json:"img_back_right,omitempty"`
	ImgBack           string `gorm:"column:img_back;size:512" json:"img_back,omitempty"`
	ImgOpenDickey     string `gorm:"column:img_open_dickey;size:512" json:"img_open_dickey,omitempty"`
	ImgBackLeft       string `gorm:"column:img_back_left;size:512" json:"img_back_left,omitempty"`
	ImgLeft           string `gorm:"column:img_left;size:512" json:"img_left,omitempty"`
	ImgFrontLeft      string `gorm:"column:img_front_left;size:512" json:"img_front_left,omitempty"`
	ImgOpenBonnet     string `gorm:"column:img_open_bonnet;size:512" json:"img_open_bonnet,omitempty"`
	ImgDashboard      string `gorm:"column:img_dashboard;size:512" json:"img_dashboard,omitempty"`
	ImgRightFrontDoor string `gorm:"column:img_right_front_door;size:512" json:"img_right_front_door,omitempty"`
	ImgRightBackDoor  string `gorm:"column:img_right_back_door;size:512" json:"img_right_back_door,omitempty"`
	ImgTyre1          string `gorm:"column:img_tyre_1;size:512" json:"img_tyre_1,omitempty"`
	ImgTyre2          string `gorm:"column:img_tyre_2;size:512" json:"img_tyre_2,omitempty"`
	ImgTyre3          string `gorm:"column:img_tyre_3;size:512" json:"img_tyre_3,omitempty"`
	ImgTyre4          string `gorm:"column:img_tyre_4;size:512" json:"img_tyre_4,omitempty"`
	ImgTyreOptional   string `gorm:"column:img_tyre_optional;size:512" json:"img_tyre_optional,omitempty"`
	ImgEngine         string `gorm:"column:img_engine;size:512" json:"img_engine,omitempty"`
	ImgRoof           string `gorm:"column:img_roof;size:512" json:"img_roof,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Images 返回非空的照片地址，key 为列名（归档报告按列名标注）。
func (v *Vehicle) Images() []ImageField {
	all := []ImageField{
		{"imageUrl", v.ImageURL},
		{"img_front", v.ImgFront},
		{"img_front_right", v.ImgFrontRight},
		{"img_right", v.ImgRight},
		{"img_back_right", v.ImgBackRight},
		{"img_back", v.ImgBack},
		{"img_open_dickey", v.ImgOpenDickey},
		{"img_back_left", v.ImgBackLeft},
		{"img_left", v.ImgLeft},
		{"img_front_left", v.ImgFrontLeft},
		{"img_open_bonnet", v.ImgOpenBonnet},
		{"img_dashboard", v.ImgDashboard},
		{"img_right_front_door", v.ImgRightFrontDoor},
		{"img_right_back_door", v.ImgRightBackDoor},
		{"img_tyre_1", v.ImgTyre1},
		{"img_tyre_2", v.ImgTyre2},
		{"img_tyre_3", v.ImgTyre3},
		{"img_tyre_4", v.ImgTyre4},
		{"img_tyre_optional", v.ImgTyreOptional},
		{"img_engine", v.ImgEngine},
		{"img_roof", v.ImgRoof},
	}
	out := make([]ImageField, 0, len(all))
	for _, f := range all {
		if f.URL != "" {
			out = append(out, f)
		}
	}
	return out
}

// ImageField 照片位 -> 地址。
type ImageField struct {
	Name string
	URL  string
}

// Banner 商城首页 Banner。
type Banner struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Title     string          `gorm:"size:128;not null" json:"title"`
	ImageURL  string          `gorm:"column:image_url;size:512;not null" json:"imageUrl"`
	Status    workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// UserType 商城用户类型。
type UserType string

const (
	UserCustomer UserType = "Customer"
	UserDealer   UserType = "Dealer"
)

// User 商城注册用户。手机号唯一，是登录凭据。
type User struct {
	ID             string   `gorm:"primaryKey;size:36" json:"id"`
	UserType       UserType `gorm:"size:16;not null" json:"userType"`
	FullName       string   `gorm:"size:64;not null" json:"fullName"`
	Phone          string   `gorm:"size:32;uniqueIndex;not null" json:"phone"`
	Email          string   `gorm:"size:128" json:"email,omitempty"`
	PasswordHash   string   `gorm:"size:128;not null" json:"-"`
	PasswordSalt   string   `gorm:"size:64;not null" json:"-"`
	DealershipName string   `gorm:"size:128" json:"dealershipName,omitempty"`
	DealershipType string   `gorm:"size:8" json:"dealershipType,omitempty"`
	City           string   `gorm:"size:64" json:"city,omitempty"`
	State          string   `gorm:"size:64" json:"state,omitempty"`
	PinCode        string   `gorm:"size:16" json:"pincode,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Inquiry 对某台在售车辆的购买咨询。创建时必须能解析到车辆和用户，
// 任一缺失则整次创建失败、不落库。
type Inquiry struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	VehicleID string          `gorm:"index;size:36;not null" json:"vehicleId"`
	UserID    string          `gorm:"index;size:36;not null" json:"userId"`
	Status    workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// FullInquiry 后台列表视图：咨询 + 车辆摘要 + 用户摘要。
type FullInquiry struct {
	ID        string          `json:"id"`
	Status    workflow.Status `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	Vehicle   InquiryVehicle  `json:"vehicle"`
	User      InquiryUser     `json:"user"`
}

type InquiryVehicle struct {
	ID       string `json:"id"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Price    int64  `json:"price"`
	ImageURL string `json:"imageUrl"`
}

type InquiryUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// Contact 商城留言。走线索的通用生命周期（lead.Record）。
type Contact struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Name      string          `gorm:"size:64;not null" json:"name"`
	Email     string          `gorm:"size:128;not null" json:"email"`
	Message   string          `gorm:"size:2048;not null" json:"message"`
	Status    workflow.Status `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (c *Contact) GetID() string                   { return c.ID }
func (c *Contact) SetID(id string)                 { c.ID = id }
func (c *Contact) GetStatus() workflow.Status      { return c.Status }
func (c *Contact) SetStatus(s workflow.Status)     { c.Status = s }
func (c *Contact) Definition() workflow.Definition { return workflow.MarketplaceContact }
func (c *Contact) Kind() string                    { return "marketplace-contact" }
func (c *Contact) NotifyMessage() string {
	return fmt.Sprintf("New marketplace message from %s", c.Name)
}
