// Package flow implements the per-chat conversation state machine. A flow is
// one multi-step conversation (login or event creation); each chat holds at
// most one active flow at a time, and its record lives only in process
// memory for the duration of that flow.
package flow

// Flow identifies one multi-step conversation.
type Flow uint8

const (
	FlowNone Flow = iota
	FlowLogin
	FlowEventCreate
)

// Step identifies the input a flow is waiting for.
type Step uint8

const (
	StepNone Step = iota

	// Login flow.
	StepUsername
	StepPassword

	// Event creation flow.
	StepTitle
	StepLocation
	StepType
	StepGroup
	StepDate
)

// Field names under which collected input is stored in a record.
const (
	FieldUsername = "username"
	FieldTitle    = "title"
	FieldLocation = "location"
	FieldType     = "type"
	FieldGroup    = "group"
	FieldDate     = "event_date"
)
