package coupon

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// RosterSource 用户列表来源，*Client 实现了该接口
type RosterSource interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// Selector 私有券的用户分配状态
// 维护已选用户集合和可选用户列表（roster），两者互相独立
type Selector struct {
	mu       sync.RWMutex
	assigned []string
	index    map[string]struct{}
	roster   []User
	log      *zap.Logger
}

// NewSelector 以已分配的用户初始化（编辑表单回填时使用）
func NewSelector(initial []string, log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Selector{
		index: make(map[string]struct{}),
		log:   log,
	}
	for _, id := range initial {
		s.Toggle(id, true)
	}
	return s
}

// LoadRoster 拉取可选用户
// 失败时退化为空列表，不阻塞表单其他部分
func (s *Selector) LoadRoster(ctx context.Context, src RosterSource) {
	users, err := src.ListUsers(ctx)
	if err != nil {
		s.log.Warn("load user roster failed, selector left empty", zap.Error(err))
		users = []User{}
	}

	s.mu.Lock()
	s.roster = users
	s.mu.Unlock()
}

// Toggle 加入或移除用户，幂等
func (s *Selector) Toggle(userID string, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.index[userID]
	switch {
	case included && !exists:
		s.index[userID] = struct{}{}
		s.assigned = append(s.assigned, userID)
	case !included && exists:
		delete(s.index, userID)
		for i, id := range s.assigned {
			if id == userID {
				s.assigned = append(s.assigned[:i], s.assigned[i+1:]...)
				break
			}
		}
	}
}

// Clear 清空已选用户
func (s *Selector) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assigned = nil
	s.index = make(map[string]struct{})
}

// Contains 是否已选中
func (s *Selector) Contains(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[userID]
	return ok
}

// Assigned 按选中顺序返回副本
func (s *Selector) Assigned() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.assigned))
	copy(out, s.assigned)
	return out
}

// Roster 可选用户副本
func (s *Selector) Roster() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, len(s.roster))
	copy(out, s.roster)
	return out
}

// Empty roster 为空时界面展示 "no users found"
func (s *Selector) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roster) == 0
}

// Apply 把当前选择写入草稿
func (s *Selector) Apply(d *Draft) {
	d.AssignedUsers = s.Assigned()
}
