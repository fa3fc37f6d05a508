package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/trustedvehicles/dealerdesk/internal/common/auth"
	"github.com/trustedvehicles/dealerdesk/internal/dealer"
	"github.com/trustedvehicles/dealerdesk/internal/employee"
	"github.com/trustedvehicles/dealerdesk/internal/inspection"
	"github.com/trustedvehicles/dealerdesk/internal/lead"
	"github.com/trustedvehicles/dealerdesk/internal/marketplace"
	"github.com/trustedvehicles/dealerdesk/internal/sequence"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

// 默认管理员（首次启动种子数据）。
const (
	seedAdminID    = "admin-user-01"
	seedAdminEmail = "trustedvehiclesofficial@gmail.com"
	seedAdminPass  = "5911@Trusted_Vehicles"
)

// Migrate 建表。全部表定义集中在各领域包的 GORM 模型上，
// 这里是唯一的迁移入口，mysql / sqlite 共用。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&sequence.Counter{},
		&employee.Employee{},
		&dealer.Dealer{},
		&inspection.Inspection{},
		&lead.ContactSubmission{},
		&lead.SellCarRequest{},
		&lead.WebsiteInspection{},
		&lead.LoanRequest{},
		&lead.InsuranceRenewal{},
		&lead.PDIInspection{},
		&marketplace.Vehicle{},
		&marketplace.Banner{},
		&marketplace.User{},
		&marketplace.Inquiry{},
		&marketplace.Contact{},
	)
}

// SeedAdmin 不存在默认管理员时创建一个（幂等）。
func SeedAdmin(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&employee.Employee{}).Where("email = ?", seedAdminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	salt, err := auth.GenerateSaltHex()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(seedAdminPass, salt)
	if err != nil {
		return err
	}

	admin := &employee.Employee{
		ID:           seedAdminID,
		Email:        seedAdminEmail,
		Name:         "Admin",
		PasswordHash: hash,
		PasswordSalt: salt,
		Phone:        "1234567890",
		DOB:          time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		JoiningDate:  time.Now(),
		Designation:  employee.DesignationAdmin,
		Status:       workflow.AccountActive,
	}
	if err := gormDB.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
