package optimizer

import (
	"context"
	"sync"

	"github.com/promptpress/promptpress/pkg/providers"
)

// Fan-out policies.
const (
	PolicyParallel   = "parallel"
	PolicySequential = "sequential"
)

// Adapter outcome statuses recorded in provenance.
const (
	statusSuccess = "success"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// GatewayCaller is the provider surface the pipeline depends on. It is
// satisfied by *providers.Gateway and by test doubles.
type GatewayCaller interface {
	Name() string
	Call(ctx context.Context, prompt string, opts providers.CallOptions) providers.CallResult
}

// adapterOutcome pairs one gateway with its settled call result.
type adapterOutcome struct {
	name   string
	status string
	result providers.CallResult
}

// fanOutParallel calls every gateway concurrently and waits for all of them
// to settle. There is no early cancellation: a slow adapter delays the join
// but a failed one never cancels its siblings.
func fanOutParallel(ctx context.Context, gateways []GatewayCaller, prompt string, opts providers.CallOptions) []adapterOutcome {
	outcomes := make([]adapterOutcome, len(gateways))

	var wg sync.WaitGroup
	for i, gw := range gateways {
		wg.Add(1)
		go func(i int, gw GatewayCaller) {
			defer wg.Done()
			result := gw.Call(ctx, prompt, opts)
			status := statusFailed
			if result.Ok {
				status = statusSuccess
			}
			outcomes[i] = adapterOutcome{name: gw.Name(), status: status, result: result}
		}(i, gw)
	}
	wg.Wait()

	return outcomes
}

// fanOutSequential calls gateways in configuration order and stops at the
// first success. Gateways after the winner are marked skipped.
func fanOutSequential(ctx context.Context, gateways []GatewayCaller, prompt string, opts providers.CallOptions) []adapterOutcome {
	outcomes := make([]adapterOutcome, len(gateways))

	succeeded := false
	for i, gw := range gateways {
		if succeeded {
			outcomes[i] = adapterOutcome{name: gw.Name(), status: statusSkipped}
			continue
		}
		result := gw.Call(ctx, prompt, opts)
		status := statusFailed
		if result.Ok {
			status = statusSuccess
			succeeded = true
		}
		outcomes[i] = adapterOutcome{name: gw.Name(), status: status, result: result}
	}

	return outcomes
}
