package dealer_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
	"github.com/trustedvehicles/dealerdesk/internal/dealer"
	"github.com/trustedvehicles/dealerdesk/internal/inspection"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

func newTestService(t *testing.T) (*dealer.Service, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         glogger.Default.LogMode(glogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.AutoMigrate(&dealer.Dealer{}, &inspection.Inspection{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dealer.NewService(dealer.NewRepo(gdb), nil), gdb
}

func mustAdd(t *testing.T, svc *dealer.Service, name string) *dealer.Dealer {
	t.Helper()
	d, err := svc.Add(context.Background(), dealer.AddInput{
		DealershipName: name,
		OwnerName:      "Owner",
		Phone:          "9876543210",
	})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return d
}

func TestAddDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	d := mustAdd(t, svc, "Sharma Motors")

	if d.ID == "" {
		t.Fatal("id should be assigned")
	}
	if d.Status != workflow.AccountActive {
		t.Fatalf("status mismatch: %s", d.Status)
	}
	if d.JoiningDate.IsZero() {
		t.Fatal("joining date should default to now")
	}
}

func TestListMergesLeadCounts(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	d1 := mustAdd(t, svc, "Sharma Motors")
	d2 := mustAdd(t, svc, "Verma Cars")

	seed := []inspection.Inspection{
		{ID: "INS-0000001", FullName: "x", PhoneNumber: "1", VehicleMake: "m", VehicleModel: "n",
			RegistrationNumber: "r1", AssignedToID: inspection.Unassigned,
			Status: workflow.InspectionRequested, Source: inspection.SourceManual,
			LeadType: inspection.LeadDealer, DealerID: d1.ID},
		{ID: "INS-0000002", FullName: "x", PhoneNumber: "1", VehicleMake: "m", VehicleModel: "n",
			RegistrationNumber: "r2", AssignedToID: inspection.Unassigned,
			Status: workflow.InspectionRequested, Source: inspection.SourceManual,
			LeadType: inspection.LeadDealer, DealerID: d1.ID},
		{ID: "INS-0000003", FullName: "x", PhoneNumber: "1", VehicleMake: "m", VehicleModel: "n",
			RegistrationNumber: "r3", AssignedToID: inspection.Unassigned,
			Status: workflow.InspectionRequested, Source: inspection.SourceManual,
			LeadType: inspection.LeadCustomer},
	}
	for i := range seed {
		if err := gdb.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed inspection: %v", err)
		}
	}

	out, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	counts := map[string]int64{}
	for _, w := range out {
		counts[w.ID] = w.LeadsCount
	}
	if counts[d1.ID] != 2 || counts[d2.ID] != 0 {
		t.Fatalf("lead counts mismatch: %v", counts)
	}
}

func TestSoftDeleteRestoreRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	d := mustAdd(t, svc, "Sharma Motors")

	if _, err := svc.SoftDelete(ctx, d.ID, " "); !errs.IsValidation(err) {
		t.Fatalf("blank reason should fail validation, got %v", err)
	}

	deleted, err := svc.SoftDelete(ctx, d.ID, "partnership ended")
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if deleted.Status != workflow.AccountDeleted || deleted.DeletedAt == nil {
		t.Fatalf("soft delete fields mismatch: %+v", deleted)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatal("soft-deleted dealer should not appear in default listing")
	}
	archived, err := svc.ListDeleted(ctx)
	if err != nil {
		t.Fatalf("list deleted: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("archived listing mismatch: %+v", archived)
	}

	restored, err := svc.Restore(ctx, d.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Status != workflow.AccountActive || restored.DeletedAt != nil || restored.DeletionReason != nil {
		t.Fatalf("restore fields mismatch: %+v", restored)
	}
}

// 物理删除车商不级联：名下检测单保留，dealer_id 悬空。
func TestPurgeLeavesInspectionsDangling(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	d := mustAdd(t, svc, "Sharma Motors")

	ins := inspection.Inspection{
		ID: "INS-0000001", FullName: "x", PhoneNumber: "1", VehicleMake: "m", VehicleModel: "n",
		RegistrationNumber: "r1", AssignedToID: inspection.Unassigned,
		Status: workflow.InspectionRequested, Source: inspection.SourceManual,
		LeadType: inspection.LeadDealer, DealerID: d.ID,
	}
	if err := gdb.Create(&ins).Error; err != nil {
		t.Fatalf("seed inspection: %v", err)
	}

	deleted, err := svc.Purge(ctx, d.ID)
	if err != nil || !deleted {
		t.Fatalf("purge: deleted=%v err=%v", deleted, err)
	}
	if _, err := svc.Get(ctx, d.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after purge, got %v", err)
	}

	var n int64
	if err := gdb.Model(&inspection.Inspection{}).Where("dealer_id = ?", d.ID).Count(&n).Error; err != nil {
		t.Fatalf("count inspections: %v", err)
	}
	if n != 1 {
		t.Fatalf("inspection should survive dealer purge, got %d", n)
	}

	deleted, err = svc.Purge(ctx, d.ID)
	if err != nil || deleted {
		t.Fatalf("second purge should be a noop: deleted=%v err=%v", deleted, err)
	}
}
