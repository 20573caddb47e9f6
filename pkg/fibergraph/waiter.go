package fibergraph

import "fmt"

// waiter is one pending wait on a node's completion count. Its channel
// closes when the count reaches target, or when the run cancels.
type waiter struct {
	target int
	ch     chan struct{}
}

// awaitNodes registers waiters for each target node and returns the
// channels to block on. Targets that already satisfy the wait produce
// no channel. waitForNext demands a completion after this call rather
// than any prior one.
//
// Unknown target ids are an error; a cancelled run returns no channels
// so the caller never blocks.
func (r *Runner) awaitNodes(targets []string, waitForNext bool) ([]<-chan struct{}, error) {
	for _, id := range targets {
		if r.graph.Node(id) == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWaitTarget, id)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Cancel resolves all waiters under this mutex, so checking the
	// latch here closes the register-after-teardown race.
	if r.sig.Cancelled() {
		return nil, nil
	}

	var chans []<-chan struct{}
	for _, id := range targets {
		current := r.counts[id]
		target := 1
		if waitForNext {
			target = current + 1
		}
		if current >= target {
			continue
		}
		w := &waiter{target: target, ch: make(chan struct{})}
		r.waiters[id] = append(r.waiters[id], w)
		chans = append(chans, w.ch)
	}
	return chans, nil
}

// markCompleted increments a node's completion count and resolves
// every waiter the new count satisfies.
func (r *Runner) markCompleted(nodeID string) {
	r.mu.Lock()
	r.counts[nodeID]++
	count := r.counts[nodeID]

	var resolved []*waiter
	remaining := r.waiters[nodeID][:0]
	for _, w := range r.waiters[nodeID] {
		if count >= w.target {
			resolved = append(resolved, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	if len(remaining) == 0 {
		delete(r.waiters, nodeID)
	} else {
		r.waiters[nodeID] = remaining
	}
	r.mu.Unlock()

	for _, w := range resolved {
		close(w.ch)
	}
}

// resolveAllWaiters releases every pending waiter. Called on cancel so
// suspended fibers can drain their queues as skipped work.
func (r *Runner) resolveAllWaiters() {
	r.mu.Lock()
	var resolved []*waiter
	for id, ws := range r.waiters {
		resolved = append(resolved, ws...)
		delete(r.waiters, id)
	}
	r.mu.Unlock()

	for _, w := range resolved {
		close(w.ch)
	}
}
