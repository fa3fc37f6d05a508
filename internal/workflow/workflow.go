package workflow

import (
	"fmt"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
)

// Status 记录状态（持久化为字符串，取值见各实体的 Definition）。
type Status string

// Definition 描述一类实体的状态机：初始态 + 允许的流转关系。
// 之前各表的状态只靠调用方自觉维护，这里统一收口：
// 所有改状态的入口都必须经过 Apply。
type Definition struct {
	Name    string
	Initial Status
	// Allowed 采用“有向图”方式配置：from -> 可达状态列表。
	// 终态对应空列表。
	Allowed map[Status][]Status
}

// Valid 判断 s 是否属于该状态机的状态集合。
func (d Definition) Valid(s Status) bool {
	_, ok := d.Allowed[s]
	return ok
}

// CanTransition 判断 from -> to 是否允许（from == to 视为允许的空操作）。
func (d Definition) CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := d.Allowed[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Apply 校验并返回流转结果。不允许的流转返回 ErrInvalidTransition。
func (d Definition) Apply(from, to Status) (Status, error) {
	if !d.Valid(to) {
		return from, fmt.Errorf("%w: %s: unknown status %q", errs.ErrInvalidTransition, d.Name, to)
	}
	if !d.CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s: %s -> %s", errs.ErrInvalidTransition, d.Name, from, to)
	}
	return to, nil
}

// MarkSeen 处理“查看详情时标记已读”这类由读触发的流转：
// 仅当当前状态为 from 时才流转到 seen，否则原样返回（幂等，不报错）。
// 读路径本身保持无副作用，由调用方显式调用本方法落库。
func (d Definition) MarkSeen(current, from, seen Status) (Status, bool) {
	if current != from {
		return current, false
	}
	if !d.CanTransition(from, seen) {
		return current, false
	}
	return seen, true
}
