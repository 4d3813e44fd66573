package coupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func threeItems() Page {
	return Page{
		Items:      []Coupon{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		TotalItems: 3,
		TotalPages: 1,
	}
}

func ids(s Snapshot) []string {
	out := make([]string, 0, len(s.Items))
	for _, c := range s.Items {
		out = append(out, c.ID)
	}
	return out
}

func TestListStateRemove(t *testing.T) {
	t.Run("Remove shrinks list and total", func(t *testing.T) {
		l := NewListState()
		assert.True(t, l.Apply(l.Begin(), threeItems()))

		l.Remove("b")

		snap := l.Snapshot()
		assert.Equal(t, []string{"a", "c"}, ids(snap))
		assert.Equal(t, 2, snap.TotalItems)
	})

	t.Run("Remove twice decrements once", func(t *testing.T) {
		l := NewListState()
		l.Apply(l.Begin(), threeItems())

		l.Remove("b")
		l.Remove("b")

		assert.Equal(t, 2, l.Snapshot().TotalItems)
	})

	t.Run("Unknown id is a no-op", func(t *testing.T) {
		l := NewListState()
		l.Apply(l.Begin(), threeItems())

		l.Remove("zzz")

		assert.Equal(t, 3, l.Snapshot().TotalItems)
	})
}

func TestListStateOrdering(t *testing.T) {
	t.Run("Older result is dropped", func(t *testing.T) {
		l := NewListState()
		older := l.Begin()
		newer := l.Begin()

		assert.True(t, l.Apply(newer, Page{Items: []Coupon{{ID: "new"}}, TotalItems: 1}))
		assert.False(t, l.Apply(older, Page{Items: []Coupon{{ID: "old"}}, TotalItems: 1}))

		assert.Equal(t, []string{"new"}, ids(l.Snapshot()))
	})

	t.Run("Refresh started before delete cannot resurrect item", func(t *testing.T) {
		l := NewListState()
		l.Apply(l.Begin(), threeItems())

		inflight := l.Begin()
		l.Remove("a")
		assert.True(t, l.Apply(inflight, threeItems()))

		snap := l.Snapshot()
		assert.Equal(t, []string{"b", "c"}, ids(snap))
		assert.Equal(t, 2, snap.TotalItems)
	})

	t.Run("Refresh started after delete is trusted", func(t *testing.T) {
		l := NewListState()
		l.Apply(l.Begin(), threeItems())
		l.Remove("a")

		after := l.Begin()
		l.Apply(after, Page{Items: []Coupon{{ID: "b"}, {ID: "c"}}, TotalItems: 2})

		snap := l.Snapshot()
		assert.Equal(t, []string{"b", "c"}, ids(snap))
		assert.Equal(t, 2, snap.TotalItems)
	})

	t.Run("Snapshot is a copy", func(t *testing.T) {
		l := NewListState()
		l.Apply(l.Begin(), threeItems())

		snap := l.Snapshot()
		snap.Items[0].ID = "mutated"

		assert.Equal(t, "a", l.Snapshot().Items[0].ID)
	})
}

func TestActivity(t *testing.T) {
	var a Activity

	doneList := a.Start(OpListLoading)
	doneDelete := a.Start(OpDeleting)

	assert.True(t, a.Busy(OpListLoading))
	assert.True(t, a.Busy(OpDeleting))
	assert.False(t, a.Busy(OpSubmitting))
	assert.False(t, a.Busy(OpRosterLoading))

	doneDelete()
	doneDelete()
	assert.False(t, a.Busy(OpDeleting))
	assert.True(t, a.Busy(OpListLoading))

	doneList()
	assert.False(t, a.Busy(OpListLoading))
	assert.Equal(t, "delete-submitting", OpDeleting.String())
}
