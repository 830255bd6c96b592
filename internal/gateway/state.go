package gateway

import (
	"fmt"
	"sync"

	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

type State int

const (
	Booting State = iota
	WifiConnecting
	Ready
	AwaitingCapture
	AwaitingDecision
	// Offline is terminal. Network tasks stay down until restart.
	Offline
)

func (s State) String() string {
	switch s {
	case Booting:
		return "booting"
	case WifiConnecting:
		return "wifi-connecting"
	case Ready:
		return "ready"
	case AwaitingCapture:
		return "awaiting-capture"
	case AwaitingDecision:
		return "awaiting-decision"
	case Offline:
		return "offline"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	Booting:          {WifiConnecting},
	WifiConnecting:   {Ready, Offline},
	Ready:            {AwaitingCapture},
	AwaitingCapture:  {Ready, AwaitingDecision},
	AwaitingDecision: {Ready, AwaitingCapture},
}

// Machine tracks the node state. It never blocks a task: a push may update
// the display in any state.
type Machine struct {
	mu     sync.Mutex
	state  State
	logger logger.Interface
}

func NewMachine(l logger.Interface) *Machine {
	return &Machine{state: Booting, logger: l}
}

func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !allowed(m.state, to) {
		return fmt.Errorf("Machine - Transition - %s to %s not allowed", m.state, to)
	}

	m.logger.Info("Machine - Transition - %s -> %s", m.state, to)
	m.state = to

	return nil
}

// TransitionFrom moves to `to` only when the current state is `from`.
func (m *Machine) TransitionFrom(from, to State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != from || !allowed(from, to) {
		return false
	}

	m.logger.Info("Machine - Transition - %s -> %s", m.state, to)
	m.state = to

	return true
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
