package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingModule struct {
	name     string
	priority int
	err      error
	order    *[]string
}

func (m *recordingModule) Name() string  { return m.name }
func (m *recordingModule) Priority() int { return m.priority }

func (m *recordingModule) Init(ctx *ModuleContext) error {
	*m.order = append(*m.order, m.name)
	return m.err
}

func withRegistry(t *testing.T) {
	t.Helper()
	saved := moduleRegistry
	moduleRegistry = make(map[string]Module)
	t.Cleanup(func() { moduleRegistry = saved })
}

func TestInitModules(t *testing.T) {
	t.Run("Runs in priority order", func(t *testing.T) {
		withRegistry(t)
		var order []string
		Register(&recordingModule{name: "feed", priority: 2, order: &order})
		Register(&recordingModule{name: "auth", priority: 1, order: &order})
		Register(&recordingModule{name: "admin", priority: 2, order: &order})

		assert.NoError(t, InitModules(&ModuleContext{}))
		assert.Equal(t, []string{"auth", "admin", "feed"}, order)
		assert.Len(t, GetModules(), 3)
	})

	t.Run("Stops at first error", func(t *testing.T) {
		withRegistry(t)
		var order []string
		boom := errors.New("boom")
		Register(&recordingModule{name: "a", priority: 1, err: boom, order: &order})
		Register(&recordingModule{name: "b", priority: 2, order: &order})

		assert.ErrorIs(t, InitModules(&ModuleContext{}), boom)
		assert.Equal(t, []string{"a"}, order)
	})
}
