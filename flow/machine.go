package flow

import "sync"

// Record is the mutable conversation state of one chat. It is created when a
// flow starts, mutated on every step transition, and discarded on
// completion, cancellation, or logout. Nothing here survives a restart.
type Record struct {
	Flow   Flow
	Step   Step
	Fields map[string]string
}

// Machine owns the conversation records for all chats, addressable by chat
// ID. Beginning a new flow supersedes any active one, so a record never
// represents two flows at once.
type Machine struct {
	mu      sync.Mutex
	records map[int64]*Record
}

func NewMachine() *Machine {
	return &Machine{records: make(map[int64]*Record)}
}

// Begin starts a flow for the chat at the given step, discarding any
// previously collected state.
func (m *Machine) Begin(chatID int64, flow Flow, step Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[chatID] = &Record{
		Flow:   flow,
		Step:   step,
		Fields: make(map[string]string),
	}
}

// Current reports the active flow and step for the chat.
func (m *Machine) Current(chatID int64) (Flow, Step, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[chatID]
	if !ok {
		return FlowNone, StepNone, false
	}
	return record.Flow, record.Step, true
}

// Advance stores a collected field and moves the flow to the next step.
// It reports false when the chat has no active flow; validated input for a
// dead flow is dropped rather than resurrecting state.
func (m *Machine) Advance(chatID int64, field, value string, next Step) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[chatID]
	if !ok {
		return false
	}
	if field != "" {
		record.Fields[field] = value
	}
	record.Step = next
	return true
}

// Fields returns a copy of the collected fields for the chat.
func (m *Machine) Fields(chatID int64) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[chatID]
	if !ok {
		return map[string]string{}
	}
	fields := make(map[string]string, len(record.Fields))
	for k, v := range record.Fields {
		fields[k] = v
	}
	return fields
}

// Cancel discards the chat's conversation state, if any.
func (m *Machine) Cancel(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, chatID)
}
