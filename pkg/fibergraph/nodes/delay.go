package nodes

import (
	"time"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
)

// delayNode sleeps for a configured duration. The sleep races the
// run's signal: cancel skips without routing, fast-forward skips but
// still routes "next".
type delayNode struct {
	fibergraph.PassthroughFastForward
	duration time.Duration
}

func delayDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:        TypeDelay,
		Label:       "Delay",
		Description: "Suspends the fiber for a duration.",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "ms", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "next", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
		},
		Parameters: []fibergraph.Parameter{
			{ID: "ms", Description: "Sleep duration in milliseconds.", DefaultValue: 0},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &delayNode{
				PassthroughFastForward: fibergraph.PassthroughFastForward{PinID: "next"},
				duration:               cfg.Duration("ms", 0),
			}, nil
		},
	}
}

func (n *delayNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	duration := n.duration
	if v, ok := ctx.Input("ms"); ok {
		duration = config.New(map[string]any{"ms": v}).Duration("ms", duration)
	}

	if duration <= 0 {
		return &fibergraph.Result{
			Status:      fibergraph.StatusSuccess,
			Transitions: []fibergraph.Transition{{PinID: "next"}},
		}, nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	sig := ctx.Signal()
	if sig == nil {
		<-timer.C
		return &fibergraph.Result{
			Status:      fibergraph.StatusSuccess,
			Transitions: []fibergraph.Transition{{PinID: "next"}},
		}, nil
	}

	select {
	case <-timer.C:
		return &fibergraph.Result{
			Status:      fibergraph.StatusSuccess,
			Transitions: []fibergraph.Transition{{PinID: "next"}},
		}, nil
	case <-sig.Done():
		return fibergraph.Skipped("run cancelled"), nil
	case <-sig.FastForwarded():
		return n.OnFastForward(ctx)
	case <-ctx.Context().Done():
		return fibergraph.Skipped("context cancelled"), nil
	}
}
