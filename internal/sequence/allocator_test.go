package sequence

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

type ticket struct {
	ID string `gorm:"primaryKey;size:16"`
}

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
	if err := gdb.AutoMigrate(&ticket{}, &Counter{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestNextStartsAtOneWithPadding(t *testing.T) {
	a := NewAllocator(newTestDB(t))
	id, err := a.Next(context.Background(), "tickets", "INS", 7)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if id != "INS-0000001" {
		t.Fatalf("id mismatch: %s", id)
	}
}

func TestNextIsMonotonic(t *testing.T) {
	a := NewAllocator(newTestDB(t))
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		id, err := a.Next(ctx, "tickets", "TVE", 6)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		want := fmt.Sprintf("TVE-%06d", i)
		if id != want {
			t.Fatalf("id mismatch: got %s want %s", id, want)
		}
	}
}

// 物理删除最大编号的行之后，空出来的编号不能重新发出去。
func TestNextDoesNotReuseFreedNumbers(t *testing.T) {
	gdb := newTestDB(t)
	a := NewAllocator(gdb)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		id, err := a.Next(ctx, "tickets", "INS", 7)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if err := gdb.Create(&ticket{ID: id}).Error; err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := gdb.Where("id = ?", "INS-0000002").Delete(&ticket{}).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}

	id, err := a.Next(ctx, "tickets", "INS", 7)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if id != "INS-0000003" {
		t.Fatalf("freed number must not be reissued: got %s", id)
	}

	// 计数器落库，重启（新 Allocator）后也不回退
	id, err = NewAllocator(gdb).Next(ctx, "tickets", "INS", 7)
	if err != nil {
		t.Fatalf("next after restart: %v", err)
	}
	if id != "INS-0000004" {
		t.Fatalf("counter should survive restart: got %s", id)
	}
}

// 首次遇到某前缀时，计数器从目标表现存的最大编号初始化（兼容存量数据）。
func TestNextSeedsFromExistingRows(t *testing.T) {
	gdb := newTestDB(t)
	a := NewAllocator(gdb)
	ctx := context.Background()

	for _, id := range []string{"INS-0000001", "INS-0000002", "INS-0000009"} {
		if err := gdb.Create(&ticket{ID: id}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	id, err := a.Next(ctx, "tickets", "INS", 7)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if id != "INS-0000010" {
		t.Fatalf("id mismatch: %s", id)
	}
}

func TestNextPrefixesAreIndependent(t *testing.T) {
	gdb := newTestDB(t)
	a := NewAllocator(gdb)
	ctx := context.Background()

	if err := gdb.Create(&ticket{ID: "INS-0000009"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	id, err := a.Next(ctx, "tickets", "TVE", 6)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if id != "TVE-000001" {
		t.Fatalf("id mismatch: %s", id)
	}
	id, err = a.Next(ctx, "tickets", "INS", 7)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if id != "INS-0000010" {
		t.Fatalf("id mismatch: %s", id)
	}
}

func TestNextConcurrentCallsAreUnique(t *testing.T) {
	a := NewAllocator(newTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	out := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := a.Next(ctx, "tickets", "INS", 7)
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			out <- id
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[string]bool, 8)
	for id := range out {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 distinct ids, got %d", len(seen))
	}
}

func TestNextRejectsBadArgs(t *testing.T) {
	a := NewAllocator(newTestDB(t))
	if _, err := a.Next(context.Background(), "", "INS", 7); err == nil {
		t.Fatal("expected error for empty table")
	}
	if _, err := a.Next(context.Background(), "tickets", "", 7); err == nil {
		t.Fatal("expected error for empty prefix")
	}
	if _, err := a.Next(context.Background(), "tickets", "INS", 0); err == nil {
		t.Fatal("expected error for zero width")
	}
}
