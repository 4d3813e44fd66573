package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderModule struct {
	name     string
	priority int
	calls    *[]string
}

func (m *orderModule) Name() string  { return m.name }
func (m *orderModule) Priority() int { return m.priority }
func (m *orderModule) Init(*ModuleContext) error {
	*m.calls = append(*m.calls, m.name)
	return nil
}

func TestInitModulesOrder(t *testing.T) {
	saved := moduleRegistry
	moduleRegistry = make(map[string]Module)
	defer func() { moduleRegistry = saved }()

	var calls []string
	Register(&orderModule{name: "coupon", priority: 10, calls: &calls})
	Register(&orderModule{name: "user", priority: 1, calls: &calls})
	Register(&orderModule{name: "health", priority: 100, calls: &calls})

	err := InitModules(&ModuleContext{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"user", "coupon", "health"}, calls)
	assert.Len(t, GetModules(), 3)
}
