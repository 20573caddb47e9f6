package nodes

import (
	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/event"
)

// onEventNode subscribes to a gateway event and spawns an ephemeral
// child run per emission. The node keeps its fiber suspended until the
// enclosing run tears down or fast-forwards, then unsubscribes.
type onEventNode struct {
	eventName       string
	graphID         string
	gatewayKey      string
	payloadKey      string
	shareBlackboard bool
}

func onEventDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:        TypeOnEvent,
		Label:       "On Event",
		Description: "Spawns a child run per gateway event.",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
		},
		Parameters: []fibergraph.Parameter{
			{ID: "event", Description: "Event name to subscribe to."},
			{ID: "graphId", Description: "Library id of the graph spawned per event."},
			{ID: "gatewayKey", Description: "Service key of the event gateway.", DefaultValue: fibergraph.ServiceEvents},
			{ID: "payloadKey", Description: "Blackboard key the payload is bound to.", DefaultValue: "event"},
			{ID: "shareBlackboard", Description: "Child runs share the parent blackboard.", DefaultValue: false},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &onEventNode{
				eventName:       cfg.String("event", ""),
				graphID:         cfg.String("graphId", ""),
				gatewayKey:      cfg.String("gatewayKey", fibergraph.ServiceEvents),
				payloadKey:      cfg.String("payloadKey", "event"),
				shareBlackboard: cfg.Bool("shareBlackboard", false),
			}, nil
		},
	}
}

func (n *onEventNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	if n.eventName == "" {
		return fibergraph.Failure("on-event: event name is required"), nil
	}
	lib := ctx.Library()
	if lib == nil {
		return fibergraph.Failure("on-event: graph library not configured"), nil
	}
	if n.graphID == "" {
		return fibergraph.Failure("on-event: graph id is required"), nil
	}

	gw := n.resolveGateway(ctx)
	if gw == nil {
		return fibergraph.Failure("on-event: no event gateway in services"), nil
	}

	unsubscribe, err := gw.On(n.eventName, func(ev event.Event) {
		n.spawn(ctx, lib, ev)
	})
	if err != nil {
		return fibergraph.Failure("on-event: " + err.Error()), nil
	}
	defer unsubscribe()

	select {
	case <-ctx.Signal().Done():
		return fibergraph.Skipped("run cancelled"), nil
	case <-ctx.Signal().FastForwarded():
		return fibergraph.Skipped("fast-forwarded"), nil
	case <-ctx.Context().Done():
		return fibergraph.Skipped("context cancelled"), nil
	}
}

// OnFastForward never subscribes.
func (n *onEventNode) OnFastForward(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	return fibergraph.Skipped("fast-forwarded"), nil
}

func (n *onEventNode) resolveGateway(ctx *fibergraph.ExecContext) event.Gateway {
	if gw, ok := ctx.Service(n.gatewayKey).(event.Gateway); ok {
		return gw
	}
	if gw, ok := ctx.Service(fibergraph.ServiceEvents).(event.Gateway); ok {
		return gw
	}
	return nil
}

// spawn runs the configured graph for one emission. Child runs get a
// fresh scope; the payload binds into the child blackboard under the
// configured key. Failures stay on the child run and are logged there.
func (n *onEventNode) spawn(ctx *fibergraph.ExecContext, lib fibergraph.Library, ev event.Event) {
	child, err := lib.Instantiate(ctx.Context(), n.graphID)
	if err != nil {
		ctx.Logger().Error("on-event: instantiate failed",
			"graphId", n.graphID, "error", err.Error())
		return
	}

	var bb *fibergraph.Blackboard
	if n.shareBlackboard {
		bb = ctx.Blackboard()
	} else {
		bb = fibergraph.NewBlackboard()
	}
	bb.Set(n.payloadKey, ev.Payload)

	handle := fibergraph.NewRunner(child,
		fibergraph.WithEntity(ctx.EntityID()),
		fibergraph.WithAdapter(ctx.Adapter()),
		fibergraph.WithServices(ctx.Services()),
		fibergraph.WithLibrary(lib),
		fibergraph.WithLogger(ctx.Logger()),
		fibergraph.WithBlackboard(bb),
	).Run(ctx.Context())

	go func() {
		select {
		case <-ctx.Signal().Done():
			handle.Cancel("parent run cancelled")
		case <-handle.Done():
		}
	}()
}
