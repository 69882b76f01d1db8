package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginAdvanceCancel(t *testing.T) {
	m := NewMachine()

	_, _, ok := m.Current(1)
	require.False(t, ok)

	m.Begin(1, FlowLogin, StepUsername)
	f, s, ok := m.Current(1)
	require.True(t, ok)
	assert.Equal(t, FlowLogin, f)
	assert.Equal(t, StepUsername, s)

	require.True(t, m.Advance(1, FieldUsername, "student42", StepPassword))
	_, s, _ = m.Current(1)
	assert.Equal(t, StepPassword, s)
	assert.Equal(t, "student42", m.Fields(1)[FieldUsername])

	m.Cancel(1)
	_, _, ok = m.Current(1)
	assert.False(t, ok)
	assert.Empty(t, m.Fields(1))
}

func TestBeginSupersedesActiveFlow(t *testing.T) {
	m := NewMachine()

	m.Begin(1, FlowLogin, StepUsername)
	m.Advance(1, FieldUsername, "student42", StepPassword)

	m.Begin(1, FlowEventCreate, StepTitle)
	f, s, ok := m.Current(1)
	require.True(t, ok)
	assert.Equal(t, FlowEventCreate, f)
	assert.Equal(t, StepTitle, s)
	assert.Empty(t, m.Fields(1), "superseding a flow must discard collected state")
}

func TestAdvanceWithoutActiveFlow(t *testing.T) {
	m := NewMachine()

	assert.False(t, m.Advance(1, FieldTitle, "orphan", StepLocation))
	_, _, ok := m.Current(1)
	assert.False(t, ok)
}

func TestChatsAreIndependent(t *testing.T) {
	m := NewMachine()

	m.Begin(1, FlowLogin, StepUsername)
	m.Begin(2, FlowEventCreate, StepTitle)
	m.Cancel(1)

	_, _, ok := m.Current(1)
	assert.False(t, ok)
	f, _, ok := m.Current(2)
	require.True(t, ok)
	assert.Equal(t, FlowEventCreate, f)
}
