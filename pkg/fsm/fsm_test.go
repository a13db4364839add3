package fsm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/fsm"
)

type light string

func TestMachine(t *testing.T) {
	m := fsm.New("light", map[light][]light{
		"red":    {"green"},
		"green":  {"yellow"},
		"yellow": {"red", "yellow"},
	})

	assert.True(t, m.Can("red", "green"))
	assert.False(t, m.Can("red", "yellow"))
	assert.False(t, m.Can("red", "red"))
	assert.True(t, m.Can("yellow", "yellow"))
	assert.False(t, m.Terminal("green"))
	assert.True(t, m.Terminal("off"))

	require.NoError(t, m.Transition("green", "yellow"))

	err := m.Transition("green", "red")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))
	assert.Contains(t, err.Error(), "light cannot move from green to red")
}
