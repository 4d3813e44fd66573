package coupon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRosterSource struct {
	mock.Mock
}

func (m *MockRosterSource) ListUsers(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func TestSelectorToggle(t *testing.T) {
	t.Run("Toggle twice keeps a single entry", func(t *testing.T) {
		s := NewSelector(nil, nil)

		s.Toggle("u1", true)
		s.Toggle("u1", true)

		assert.Equal(t, []string{"u1"}, s.Assigned())
		assert.True(t, s.Contains("u1"))
	})

	t.Run("Remove keeps order of others", func(t *testing.T) {
		s := NewSelector([]string{"u1", "u2", "u3"}, nil)

		s.Toggle("u2", false)
		s.Toggle("u9", false)

		assert.Equal(t, []string{"u1", "u3"}, s.Assigned())
		assert.False(t, s.Contains("u2"))
	})

	t.Run("Initial duplicates collapse", func(t *testing.T) {
		s := NewSelector([]string{"u1", "u1"}, nil)
		assert.Equal(t, []string{"u1"}, s.Assigned())
	})

	t.Run("Clear empties the set", func(t *testing.T) {
		s := NewSelector([]string{"u1", "u2"}, nil)
		s.Clear()
		assert.Empty(t, s.Assigned())
		assert.False(t, s.Contains("u1"))

		s.Toggle("u1", true)
		assert.Equal(t, []string{"u1"}, s.Assigned())
	})

	t.Run("Apply writes selection into draft", func(t *testing.T) {
		s := NewSelector(nil, nil)
		s.Toggle("u1", true)
		d := Draft{}

		s.Apply(&d)

		assert.Equal(t, []string{"u1"}, d.AssignedUsers)
	})
}

func TestSelectorLoadRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("Roster loaded", func(t *testing.T) {
		src := new(MockRosterSource)
		users := []User{{ID: "u1", FirstName: "Ada"}}
		src.On("ListUsers", ctx).Return(users, nil)

		s := NewSelector(nil, nil)
		s.LoadRoster(ctx, src)

		assert.Equal(t, users, s.Roster())
		assert.False(t, s.Empty())
		src.AssertExpectations(t)
	})

	t.Run("Roster failure degrades to empty", func(t *testing.T) {
		src := new(MockRosterSource)
		src.On("ListUsers", ctx).Return(nil, errors.New("boom"))

		s := NewSelector([]string{"u1"}, nil)
		s.LoadRoster(ctx, src)

		assert.True(t, s.Empty())
		assert.Empty(t, s.Roster())
		// 已选用户不受影响
		assert.Equal(t, []string{"u1"}, s.Assigned())
		src.AssertExpectations(t)
	})
}
