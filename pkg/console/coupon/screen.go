package coupon

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Query 列表查询条件
type Query struct {
	Page     int
	PageSize int
	Search   string
}

// Form 新建/编辑表单
type Form struct {
	// ID 为空表示新建
	ID       string
	Draft    Draft
	Selector *Selector
}

// Screen 优惠券列表页
// 校验 -> 请求 -> 成功后刷新列表
type Screen struct {
	client   *Client
	list     *ListState
	activity *Activity
	log      *zap.Logger

	mu    sync.Mutex
	query Query
}

// NewScreen 创建列表页
func NewScreen(client *Client, log *zap.Logger) *Screen {
	if log == nil {
		log = zap.NewNop()
	}
	return &Screen{
		client:   client,
		list:     NewListState(),
		activity: &Activity{},
		log:      log,
		query:    Query{Page: 1, PageSize: 10},
	}
}

// State 当前列表快照
func (s *Screen) State() Snapshot {
	return s.list.Snapshot()
}

// Busy 某类操作是否在进行
func (s *Screen) Busy(op Op) bool {
	return s.activity.Busy(op)
}

// Refresh 按查询条件拉取列表；被更晚的请求覆盖时返回 false
func (s *Screen) Refresh(ctx context.Context, q Query) (bool, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}

	s.mu.Lock()
	s.query = q
	s.mu.Unlock()

	done := s.activity.Start(OpListLoading)
	defer done()

	t := s.list.Begin()
	page, err := s.client.List(ctx, q.Page, q.PageSize, q.Search)
	if err != nil {
		s.log.Error("refresh coupon list failed", zap.Error(err))
		return false, err
	}
	return s.list.Apply(t, page), nil
}

// OpenForm 打开表单：加载用户列表，编辑时用服务端记录回填
func (s *Screen) OpenForm(ctx context.Context, id string) (*Form, error) {
	form := &Form{ID: id}

	if id != "" {
		c, err := s.client.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		form.Draft = DraftFromCoupon(*c)
	} else {
		form.Draft = Draft{DiscountType: DiscountPercentage, IsPublic: true}
	}

	form.Selector = NewSelector(form.Draft.AssignedUsers, s.log)

	done := s.activity.Start(OpRosterLoading)
	form.Selector.LoadRoster(ctx, s.client)
	done()

	return form, nil
}

// Submit 新建或更新，成功后刷新当前页
func (s *Screen) Submit(ctx context.Context, f *Form) error {
	if f.Selector != nil {
		f.Selector.Apply(&f.Draft)
	}

	done := s.activity.Start(OpSubmitting)
	var err error
	if f.ID == "" {
		f.ID, err = s.client.Create(ctx, f.Draft)
	} else {
		err = s.client.Update(ctx, f.ID, f.Draft)
	}
	done()

	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			s.log.Error("submit coupon failed", zap.String("id", f.ID), zap.Error(err))
		}
		return err
	}

	s.mu.Lock()
	q := s.query
	s.mu.Unlock()

	if _, err := s.Refresh(ctx, q); err != nil {
		// 保存已成功，刷新失败只影响展示
		s.log.Warn("refresh after submit failed", zap.Error(err))
	}
	return nil
}

// Delete 删除并在本地移除，不重新拉取列表
func (s *Screen) Delete(ctx context.Context, id string) error {
	done := s.activity.Start(OpDeleting)
	defer done()

	if err := s.client.Delete(ctx, id); err != nil {
		s.log.Error("delete coupon failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.list.Remove(id)
	return nil
}
