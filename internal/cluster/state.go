package cluster

// State is the lifecycle position of a cluster handle. Transitions are
// driven by the operations in this package and reported through the
// Observer; FAILED is reachable from any state, DESTROYED is terminal.
type State int

const (
	StateUninitialized State = iota
	StateProvisioning
	StateServiceChecks
	StateJoining
	StateHealthcheck
	StateFinalizing
	StateReady
	StateStopped
	StateShelved
	StateDestroyed
	StateFailed
)

var stateNames = map[State]string{
	StateUninitialized: "uninitialized",
	StateProvisioning:  "provisioning",
	StateServiceChecks: "service-checks",
	StateJoining:       "joining",
	StateHealthcheck:   "healthcheck",
	StateFinalizing:    "finalizing",
	StateReady:         "ready",
	StateStopped:       "stopped",
	StateShelved:       "shelved",
	StateDestroyed:     "destroyed",
	StateFailed:        "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// setState records the new lifecycle state and reports the transition.
func (c *Cluster) setState(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.observer.Event(Event{
		Type:     EventStateChanged,
		Phase:    s.String(),
		Resource: c.Name,
		Message:  "cluster state is now " + s.String(),
	})
}

// State returns the current lifecycle state of the handle.
func (c *Cluster) State() State { return c.state }
