package coupon

import (
	"sync"
	"sync/atomic"
)

// Ticket 标记一次列表请求的发起顺序
type Ticket uint64

// Snapshot 列表的不可变快照
type Snapshot struct {
	Items      []Coupon
	TotalItems int
	TotalPages int
}

// ListState 列表状态
// 结果按请求发起顺序生效：晚发起的请求先返回后，早发起的结果会被丢弃。
// 删除会留下墓碑，删除之前发起的刷新不会把已删除的记录带回来。
type ListState struct {
	mu         sync.Mutex
	next       Ticket
	applied    Ticket
	snap       Snapshot
	tombstones map[string]Ticket
}

// NewListState 创建空列表
func NewListState() *ListState {
	return &ListState{
		snap:       Snapshot{Items: []Coupon{}},
		tombstones: make(map[string]Ticket),
	}
}

// Begin 在发起请求前调用
func (l *ListState) Begin() Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	return l.next
}

// Apply 应用一页结果，返回是否生效
func (l *ListState) Apply(t Ticket, p Page) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t <= l.applied {
		return false
	}
	l.applied = t

	items := make([]Coupon, 0, len(p.Items))
	total := p.TotalItems
	for _, c := range p.Items {
		// 墓碑晚于本次请求发起，说明服务端结果里还带着已删除的记录
		if deletedAt, ok := l.tombstones[c.ID]; ok && deletedAt > t {
			if total > 0 {
				total--
			}
			continue
		}
		items = append(items, c)
	}

	// 早于本次请求的墓碑已经反映在服务端结果中
	for id, deletedAt := range l.tombstones {
		if deletedAt <= t {
			delete(l.tombstones, id)
		}
	}

	l.snap = Snapshot{Items: items, TotalItems: total, TotalPages: p.TotalPages}
	return true
}

// Remove 删除成功后乐观移除，重复移除不会再次扣减总数
func (l *ListState) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	l.tombstones[id] = l.next

	items := make([]Coupon, 0, len(l.snap.Items))
	removed := false
	for _, c := range l.snap.Items {
		if c.ID == id {
			removed = true
			continue
		}
		items = append(items, c)
	}
	if !removed {
		return
	}

	total := l.snap.TotalItems
	if total > 0 {
		total--
	}
	l.snap = Snapshot{Items: items, TotalItems: total, TotalPages: l.snap.TotalPages}
}

// Snapshot 返回当前快照的副本
func (l *ListState) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]Coupon, len(l.snap.Items))
	copy(items, l.snap.Items)
	return Snapshot{Items: items, TotalItems: l.snap.TotalItems, TotalPages: l.snap.TotalPages}
}

// Op 界面上独立的加载状态
type Op int

const (
	OpListLoading Op = iota
	OpSubmitting
	OpRosterLoading
	OpDeleting
	opCount
)

func (o Op) String() string {
	switch o {
	case OpListLoading:
		return "list-loading"
	case OpSubmitting:
		return "form-submitting"
	case OpRosterLoading:
		return "roster-loading"
	case OpDeleting:
		return "delete-submitting"
	}
	return "unknown"
}

// Activity 四个互不影响的加载标记
// 同一操作可以并发进行，按计数判断是否仍在加载
type Activity struct {
	inflight [opCount]atomic.Int32
}

// Start 标记开始，返回结束函数
func (a *Activity) Start(op Op) func() {
	a.inflight[op].Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { a.inflight[op].Add(-1) })
	}
}

// Busy 是否仍有该类操作在进行
func (a *Activity) Busy(op Op) bool {
	return a.inflight[op].Load() > 0
}
