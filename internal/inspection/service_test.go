package inspection

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
	"github.com/trustedvehicles/dealerdesk/internal/dealer"
	"github.com/trustedvehicles/dealerdesk/internal/notify"
	"github.com/trustedvehicles/dealerdesk/internal/sequence"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

func newTestService(t *testing.T) (*Service, *dealer.Repo, *notify.Recording, *gorm.DB) {
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
	if err := gdb.AutoMigrate(&Inspection{}, &dealer.Dealer{}, &sequence.Counter{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	rec := &notify.Recording{}
	dealers := dealer.NewRepo(gdb)
	svc := NewService(NewRepo(gdb), dealers, sequence.NewAllocator(gdb), rec)
	return svc, dealers, rec, gdb
}

func baseInput() AddInput {
	return AddInput{
		FullName:           "Ravi Kumar",
		PhoneNumber:        "9876543210",
		VehicleMake:        "Maruti",
		VehicleModel:       "Swift",
		RegistrationNumber: "KA01AB1234",
	}
}

func TestAddUnassignedStartsRequested(t *testing.T) {
	svc, _, rec, _ := newTestService(t)

	i, err := svc.Add(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if i.ID != "INS-0000001" {
		t.Fatalf("id mismatch: %s", i.ID)
	}
	if i.Status != workflow.InspectionRequested {
		t.Fatalf("status mismatch: %s", i.Status)
	}
	if i.AssignedToID != Unassigned {
		t.Fatalf("assignedTo mismatch: %s", i.AssignedToID)
	}
	if i.Source != SourceManual || i.LeadType != LeadCustomer {
		t.Fatalf("defaults mismatch: %s %s", i.Source, i.LeadType)
	}

	events := rec.Events()
	if len(events) < 2 {
		t.Fatalf("expected notification + counts events, got %d", len(events))
	}
	if events[0].Event != notify.EventNewNotification {
		t.Fatalf("first event mismatch: %s", events[0].Event)
	}
}

func TestAddAssignedStartsPending(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	in := baseInput()
	in.AssignedToID = "TVE-000007"
	i, err := svc.Add(context.Background(), in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if i.Status != workflow.InspectionPending {
		t.Fatalf("status mismatch: %s", i.Status)
	}
}

func TestAddDealerLeadCopiesDealerContact(t *testing.T) {
	svc, dealers, _, _ := newTestService(t)
	ctx := context.Background()

	d := &dealer.Dealer{
		ID:             "d-1",
		DealershipName: "Sharma Motors",
		OwnerName:      "Sharma",
		Phone:          "1112223334",
		Status:         workflow.AccountActive,
	}
	if err := dealers.Create(ctx, d); err != nil {
		t.Fatalf("seed dealer: %v", err)
	}

	in := baseInput()
	in.FullName = "ignored"
	in.PhoneNumber = "ignored"
	in.LeadType = LeadDealer
	in.DealerID = "d-1"
	i, err := svc.Add(ctx, in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if i.FullName != "Sharma Motors" || i.PhoneNumber != "1112223334" {
		t.Fatalf("dealer contact should be copied: %s %s", i.FullName, i.PhoneNumber)
	}
}

func TestAddDealerLeadUnknownDealerFailsWithoutWrite(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	in := baseInput()
	in.LeadType = LeadDealer
	in.DealerID = "missing"
	if _, err := svc.Add(ctx, in); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	out, err := svc.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("nothing should be persisted, got %d rows", len(out))
	}
}

func TestAssignMovesRequestedToPending(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	i, err := svc.Add(ctx, baseInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	i, err = svc.Assign(ctx, i.ID, "TVE-000002")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if i.Status != workflow.InspectionPending || i.AssignedToID != "TVE-000002" {
		t.Fatalf("assign result mismatch: %+v", i)
	}

	// 终态之后不能再分配
	if _, err := svc.SetStatus(ctx, i.ID, workflow.InspectionCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := svc.Assign(ctx, i.ID, "TVE-000003"); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestMarkViewedIsIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	i, err := svc.Add(ctx, baseInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	i, err = svc.MarkViewed(ctx, i.ID)
	if err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if i.Status != workflow.InspectionViewed {
		t.Fatalf("status mismatch: %s", i.Status)
	}

	// 再标记不变
	i, err = svc.MarkViewed(ctx, i.ID)
	if err != nil {
		t.Fatalf("second mark viewed: %v", err)
	}
	if i.Status != workflow.InspectionViewed {
		t.Fatalf("status should stay Viewed: %s", i.Status)
	}

	// 终态也不受影响
	if _, err := svc.SetStatus(ctx, i.ID, workflow.InspectionCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	i, err = svc.MarkViewed(ctx, i.ID)
	if err != nil {
		t.Fatalf("mark viewed on terminal: %v", err)
	}
	if i.Status != workflow.InspectionCancelled {
		t.Fatalf("terminal status should stay: %s", i.Status)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, _, rec, _ := newTestService(t)
	ctx := context.Background()
	i, err := svc.Add(ctx, baseInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	before := len(rec.Events())
	deleted, err := svc.Delete(ctx, i.ID)
	if err != nil || !deleted {
		t.Fatalf("first delete: deleted=%v err=%v", deleted, err)
	}
	if len(rec.Events()) != before+1 {
		t.Fatal("successful delete should emit a counts event")
	}

	deleted, err = svc.Delete(ctx, i.ID)
	if err != nil || deleted {
		t.Fatalf("second delete should be a noop: deleted=%v err=%v", deleted, err)
	}
	if len(rec.Events()) != before+1 {
		t.Fatal("noop delete should not emit events")
	}
}
