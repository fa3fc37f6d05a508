package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// Counter 各前缀的高水位线（sequence_counters 表）。
// Last 是该前缀已分配出去的最大编号，只增不减。
type Counter struct {
	Prefix string `gorm:"primaryKey;size:8"`
	Last   int    `gorm:"not null"`
}

func (Counter) TableName() string { return "sequence_counters" }

// Allocator 生成人类可读的顺序编号，格式 PREFIX-NNNNNN（宽度按前缀固定）。
// 编号从计数器表取 Last+1，严格单调递增：目标表里的行被物理删除后
// 空出来的编号不会复用。首次遇到某前缀时用目标表里现存的最大编号
// 初始化计数器，兼容已有数据。进程内用互斥锁串行化分配。
type Allocator struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewAllocator(db *gorm.DB) *Allocator {
	return &Allocator{db: db}
}

// Next 分配下一个编号。table 为目标表名（只用于首次初始化计数器），
// width 为数字部分的零填充宽度。
func (a *Allocator) Next(ctx context.Context, table, prefix string, width int) (string, error) {
	if a == nil || a.db == nil {
		return "", fmt.Errorf("allocator db is nil")
	}
	if table == "" || prefix == "" || width <= 0 {
		return "", fmt.Errorf("invalid allocator args: table=%q prefix=%q width=%d", table, prefix, width)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var c Counter
	err := a.db.WithContext(ctx).Where("prefix = ?", prefix).First(&c).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		seed, seedErr := a.seedFromTable(ctx, table, prefix)
		if seedErr != nil {
			return "", seedErr
		}
		c = Counter{Prefix: prefix, Last: seed + 1}
		if err := a.db.WithContext(ctx).Create(&c).Error; err != nil {
			return "", fmt.Errorf("create counter for prefix %s: %w", prefix, err)
		}
	case err != nil:
		return "", fmt.Errorf("read counter for prefix %s: %w", prefix, err)
	default:
		c.Last++
		if err := a.db.WithContext(ctx).Model(&Counter{}).
			Where("prefix = ?", prefix).
			Update("last", c.Last).Error; err != nil {
			return "", fmt.Errorf("advance counter for prefix %s: %w", prefix, err)
		}
	}

	return fmt.Sprintf("%s-%0*d", prefix, width, c.Last), nil
}

// seedFromTable 取目标表里该前缀现存的最大编号（没有则为 0）。
// 编号定宽零填充，所以 “按长度再按字典序” 排序即数字大小排序，
// mysql / sqlite 都可用，不依赖方言的 CAST 语法。
func (a *Allocator) seedFromTable(ctx context.Context, table, prefix string) (int, error) {
	var lastID string
	query := fmt.Sprintf(
		"SELECT id FROM %s WHERE id LIKE ? ORDER BY LENGTH(id) DESC, id DESC LIMIT 1", table)
	row := a.db.WithContext(ctx).Raw(query, prefix+"-%").Row()
	if err := row.Scan(&lastID); err != nil {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(lastID, prefix+"-"))
	if err != nil {
		return 0, fmt.Errorf("malformed id %q for prefix %s: %w", lastID, prefix, err)
	}
	return n, nil
}
