package notify

import "sync"

// 通知事件名（与前端约定，勿改）。
const (
	EventNewNotification = "new-notification"
	EventUpdateCounts    = "update-counts"
)

// Event 推送给已连接会话的事件。
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Notifier 面向业务侧的广播能力：尽力而为，不落盘、不重试、不保证顺序。
// 发送失败绝不影响伴随的写操作。
// 通过构造注入传给各 Service，测试时可换成 Nop / Recording。
type Notifier interface {
	Start() error
	Stop() error
	// Emit 向所有已连接会话广播一条事件；没有连接时静默丢弃。
	Emit(eventType string, payload interface{})
}

// Nop 空实现。
type Nop struct{}

func (Nop) Start() error                        { return nil }
func (Nop) Stop() error                         { return nil }
func (Nop) Emit(eventType string, payload interface{}) {}

// Recording 记录所有 Emit 调用（测试用）。
type Recording struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recording) Start() error { return nil }
func (r *Recording) Stop() error  { return nil }

func (r *Recording) Emit(eventType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Event: eventType, Data: payload})
}

// Events 返回已记录事件的快照。
func (r *Recording) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
