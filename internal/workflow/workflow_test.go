package workflow

import (
	"errors"
	"testing"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
)

func TestApplyAllowedAndDenied(t *testing.T) {
	// Requested -> Pending 允许
	next, err := Inspection.Apply(InspectionRequested, InspectionPending)
	if err != nil {
		t.Fatalf("expected allow, got err=%v", err)
	}
	if next != InspectionPending {
		t.Fatalf("next mismatch: %s", next)
	}

	// Completed 是终态，不能再流转
	_, err = Inspection.Apply(InspectionCompleted, InspectionPending)
	if !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// 未知状态
	_, err = Inspection.Apply(InspectionRequested, Status("Bogus"))
	if !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for unknown status, got %v", err)
	}
}

func TestApplySelfTransitionIsNoop(t *testing.T) {
	next, err := Account.Apply(AccountActive, AccountActive)
	if err != nil {
		t.Fatalf("self transition should be allowed: %v", err)
	}
	if next != AccountActive {
		t.Fatalf("next mismatch: %s", next)
	}
}

func TestMarkSeenIdempotent(t *testing.T) {
	// New -> Read
	next, changed := Contact.MarkSeen(LeadNew, LeadNew, LeadRead)
	if !changed || next != LeadRead {
		t.Fatalf("expected transition to Read, got %s changed=%v", next, changed)
	}

	// 已是 Read，再标记不变
	next, changed = Contact.MarkSeen(LeadRead, LeadNew, LeadRead)
	if changed || next != LeadRead {
		t.Fatalf("expected noop, got %s changed=%v", next, changed)
	}

	// 终态也不变
	next, changed = Contact.MarkSeen(LeadArchived, LeadNew, LeadRead)
	if changed || next != LeadArchived {
		t.Fatalf("expected noop on terminal, got %s changed=%v", next, changed)
	}
}

func TestAccountLifecycle(t *testing.T) {
	// Active ⇄ Inactive 自由切换
	if !Account.CanTransition(AccountActive, AccountInactive) {
		t.Fatal("Active -> Inactive should be allowed")
	}
	if !Account.CanTransition(AccountInactive, AccountActive) {
		t.Fatal("Inactive -> Active should be allowed")
	}
	// Deleted 只能恢复回 Active
	if !Account.CanTransition(AccountDeleted, AccountActive) {
		t.Fatal("Deleted -> Active (restore) should be allowed")
	}
	if Account.CanTransition(AccountDeleted, AccountInactive) {
		t.Fatal("Deleted -> Inactive should be denied")
	}
}

func TestVehicleSoldIsTerminal(t *testing.T) {
	if !Vehicle.CanTransition(VehicleForSale, VehiclePaused) {
		t.Fatal("For Sale -> Paused should be allowed")
	}
	if !Vehicle.CanTransition(VehiclePaused, VehicleForSale) {
		t.Fatal("Paused -> For Sale should be allowed")
	}
	if Vehicle.CanTransition(VehicleSold, VehicleForSale) {
		t.Fatal("Sold is terminal")
	}
}

// 状态字符串入库且对外返回，取值固定。
func TestStatusStringsAreStable(t *testing.T) {
	cases := []struct {
		s    Status
		want string
	}{
		{InspectionRequested, "Requested"},
		{InspectionPending, "Pending"},
		{InspectionViewed, "Viewed"},
		{InspectionCompleted, "Completed"},
		{InspectionCancelled, "Cancelled"},
		{LeadNew, "New"},
		{LeadRead, "Read"},
		{LeadContacted, "Contacted"},
		{LeadClosed, "Closed"},
		{LeadArchived, "Archived"},
		{VehicleForSale, "For Sale"},
		{VehiclePaused, "Paused"},
		{VehicleSold, "Sold"},
		{BannerActive, "Active"},
		{BannerInactive, "Inactive"},
		{AccountActive, "Active"},
		{AccountInactive, "Inactive"},
		{AccountDeleted, "Deleted"},
	}
	for _, c := range cases {
		if string(c.s) != c.want {
			t.Fatalf("status %q changed, want %q", c.s, c.want)
		}
	}
}

func TestLeadChainShapes(t *testing.T) {
	cases := []struct {
		def      Definition
		seen     Status
		terminal Status
	}{
		{Contact, LeadRead, LeadArchived},
		{SellRequest, LeadContacted, LeadClosed},
		{WebsiteInspection, LeadViewed, LeadContacted},
		{LoanRequest, LeadContacted, LeadClosed},
		{InsuranceRenewal, LeadContacted, LeadClosed},
		{PDIInspection, LeadViewed, LeadCompleted},
		{MarketplaceContact, LeadRead, LeadArchived},
		{MarketplaceInquiry, LeadContacted, LeadClosed},
	}
	for _, c := range cases {
		if c.def.Initial != LeadNew {
			t.Fatalf("%s: initial should be New", c.def.Name)
		}
		if !c.def.CanTransition(LeadNew, c.seen) {
			t.Fatalf("%s: New -> %s should be allowed", c.def.Name, c.seen)
		}
		if !c.def.CanTransition(c.seen, c.terminal) {
			t.Fatalf("%s: %s -> %s should be allowed", c.def.Name, c.seen, c.terminal)
		}
		if c.def.CanTransition(c.terminal, LeadNew) {
			t.Fatalf("%s: %s is terminal", c.def.Name, c.terminal)
		}
	}
}
