package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--sessions", "9/1,9/1,9/1,2/8,8/2", "--start", "2025-01-01"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "TRANSITION")
	assert.Contains(t, lines[1], "2025-01-01")
	assert.Contains(t, lines[4], "spike")
	assert.Contains(t, lines[4], "recovering #1")
	assert.Contains(t, lines[5], "recovered")
}

func TestSimulateCommandRejectsBadInput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--sessions", "nine/one"})

	assert.Error(t, cmd.Execute())
}

func TestSimulateCommandHonoursZeroSpikeSessionMax(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--sessions", "9/1,9/1,9/1,2/8", "--spike-session-max", "0"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.NotContains(t, lines[4], "spike")
	assert.Contains(t, lines[4], "advance")
}
