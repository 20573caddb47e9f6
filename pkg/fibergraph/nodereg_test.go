package fibergraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
)

func stubDefinition(nodeType string) *fibergraph.Definition {
	return &fibergraph.Definition{
		Type: nodeType,
		New: func(config.Config) (fibergraph.Node, error) {
			return &explodeNode{}, nil
		},
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := fibergraph.NewRegistry()

	require.NoError(t, reg.Register(stubDefinition("zeta")))
	require.NoError(t, reg.Register(stubDefinition("alpha")))

	assert.True(t, reg.Has("zeta"))
	assert.False(t, reg.Has("missing"))
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"alpha", "zeta"}, reg.Types())

	def, ok := reg.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", def.Type)
}

func TestRegistryRejectsInvalid(t *testing.T) {
	reg := fibergraph.NewRegistry()

	assert.Error(t, reg.Register(nil))
	assert.Error(t, reg.Register(&fibergraph.Definition{}))
	assert.Error(t, reg.Register(&fibergraph.Definition{Type: "no-ctor"}))

	require.NoError(t, reg.Register(stubDefinition("dup")))
	assert.Error(t, reg.Register(stubDefinition("dup")))
}

func TestMustRegisterPanics(t *testing.T) {
	reg := fibergraph.NewRegistry()
	reg.MustRegister(stubDefinition("ok"))
	assert.Panics(t, func() { reg.MustRegister(stubDefinition("ok")) })
}

func TestDefinitionPinLookup(t *testing.T) {
	def := &fibergraph.Definition{
		Type: "twin",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "value", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "value", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
			{ID: "forks", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow,
				Strategy: fibergraph.StrategyParallel},
		},
	}

	assert.True(t, def.HasInputPin("value"))
	assert.True(t, def.HasOutputPin("value"))
	assert.True(t, def.HasInputPin("in"))
	assert.False(t, def.HasOutputPin("in"))
	assert.False(t, def.HasInputPin("forks"))

	assert.Equal(t, fibergraph.StrategyParallel, def.OutputStrategy("forks"))
	assert.Equal(t, fibergraph.StrategySequential, def.OutputStrategy("value"))
	assert.Equal(t, fibergraph.StrategySequential, def.OutputStrategy("missing"))
}
