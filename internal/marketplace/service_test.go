package marketplace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
	"github.com/trustedvehicles/dealerdesk/internal/notify"
	"github.com/trustedvehicles/dealerdesk/internal/report"
	"github.com/trustedvehicles/dealerdesk/internal/workflow"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	if err := gdb.AutoMigrate(&Vehicle{}, &Banner{}, &User{}, &Inquiry{}, &Contact{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestRegisterRejectsDuplicatePhone(t *testing.T) {
	svc := NewUserService(NewUserRepo(newTestDB(t)))
	ctx := context.Background()

	in := RegisterInput{
		UserType: UserCustomer,
		FullName: "Asha",
		Phone:    "9876543210",
		Password: "secret-1",
	}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("register: %v", err)
	}

	in.FullName = "Someone Else"
	if _, err := svc.Register(ctx, in); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserLogin(t *testing.T) {
	svc := NewUserService(NewUserRepo(newTestDB(t)))
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		UserType: UserDealer,
		FullName: "Sharma",
		Phone:    "1112223334",
		Password: "secret-1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "1112223334", "secret-1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Login(ctx, "1112223334", "wrong"); err == nil {
		t.Fatal("wrong password should fail")
	}
	if _, err := svc.Login(ctx, "0000000000", "secret-1"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown phone should be ErrNotFound, got %v", err)
	}
}

func newInquiryFixture(t *testing.T) (*InquiryService, *VehicleRepo, *UserRepo, *notify.Recording) {
	t.Helper()
	gdb := newTestDB(t)
	vehicles := NewVehicleRepo(gdb)
	users := NewUserRepo(gdb)
	rec := &notify.Recording{}
	return NewInquiryService(NewInquiryRepo(gdb), vehicles, users, rec), vehicles, users, rec
}

func TestInquiryRequiresVehicleAndUser(t *testing.T) {
	svc, vehicles, users, _ := newInquiryFixture(t)
	ctx := context.Background()

	v := &Vehicle{ID: "v-1", Make: "Maruti", Model: "Swift", Status: workflow.VehicleForSale}
	if err := vehicles.Create(ctx, v); err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	u := &User{ID: "u-1", UserType: UserCustomer, FullName: "Asha", Phone: "9876543210",
		PasswordHash: "x", PasswordSalt: "y"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	// 车辆不存在：失败且不落库
	if _, err := svc.Add(ctx, "missing", "u-1"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for vehicle, got %v", err)
	}
	// 用户不存在：同样失败
	if _, err := svc.Add(ctx, "v-1", "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for user, got %v", err)
	}
	out, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("nothing should be persisted, got %d", len(out))
	}

	// 两边都在：创建成功，联表视图可见
	i, err := svc.Add(ctx, "v-1", "u-1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if i.Status != workflow.LeadNew {
		t.Fatalf("status mismatch: %s", i.Status)
	}
	out, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].Vehicle.Make != "Maruti" || out[0].User.FullName != "Asha" {
		t.Fatalf("full inquiry mismatch: %+v", out)
	}
}

func TestVehicleDeleteWritesArchiveReport(t *testing.T) {
	gdb := newTestDB(t)
	dir := t.TempDir()
	rec := &notify.Recording{}
	svc := NewVehicleService(NewVehicleRepo(gdb), report.NewWriter(dir, nil), rec, nil)
	ctx := context.Background()

	v := &Vehicle{
		Make:      "Tata",
		Model:     "Nexon EV",
		RegNumber: "KA05XY9999",
		ImgFront:  "https://cdn.example.com/front.jpg",
	}
	if _, err := svc.Add(ctx, v); err != nil {
		t.Fatalf("add: %v", err)
	}

	deleted, err := svc.Delete(ctx, v.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}

	// 文件名里的空白折叠成连字符
	want := filepath.Join(dir, "deleted-Tata-Nexon-EV-"+v.ID+".html")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "KA05XY9999") {
		t.Fatal("report should contain the reg number")
	}
	if !strings.Contains(content, "img_front") {
		t.Fatal("report should list the image fields")
	}

	// 行已删除，重复删除是幂等空操作
	deleted, err = svc.Delete(ctx, v.ID)
	if err != nil || deleted {
		t.Fatalf("second delete should be a noop: deleted=%v err=%v", deleted, err)
	}
}

func TestVehicleStatusSoldIsTerminal(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewVehicleService(NewVehicleRepo(gdb), nil, nil, nil)
	ctx := context.Background()

	v := &Vehicle{Make: "Honda", Model: "City"}
	if _, err := svc.Add(ctx, v); err != nil {
		t.Fatalf("add: %v", err)
	}
	if v.Status != workflow.VehicleForSale {
		t.Fatalf("initial status mismatch: %s", v.Status)
	}

	if _, err := svc.SetStatus(ctx, v.ID, workflow.VehiclePaused); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := svc.SetStatus(ctx, v.ID, workflow.VehicleSold); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if _, err := svc.SetStatus(ctx, v.ID, workflow.VehicleForSale); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestBannerActiveListing(t *testing.T) {
	svc := NewBannerService(NewBannerRepo(newTestDB(t)))
	ctx := context.Background()

	b1, err := svc.Add(ctx, "Festive offer", "https://cdn.example.com/b1.jpg")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, "Old banner", "https://cdn.example.com/b2.jpg"); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 banners, got %d", len(all))
	}

	if _, err := svc.SetStatus(ctx, b1.ID, workflow.BannerInactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID == b1.ID {
		t.Fatalf("active listing mismatch: %+v", active)
	}
}
