package errors

import (
	"bytes"
	"testing"

	"github.com/cristianoliveira/appwish/internal/catalog"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, fn func()) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	colors.SetOutput(&out, &errOut)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })
	fn()
	return out.String(), errOut.String()
}

func TestConsoleOutputStreams(t *testing.T) {
	out, errOut := captureOutput(t, func() {
		o := &ConsoleOutput{}
		o.Error("lookup", "failed")
		o.Warning("already", "tracked")
		o.Info("checked", "3 apps")
		o.Success("added", "Things 3")
	})

	assert.Contains(t, errOut, "Error:")
	assert.Contains(t, errOut, "lookup failed")
	assert.Contains(t, errOut, "Warning:")
	assert.Contains(t, errOut, "already tracked")
	assert.Contains(t, out, "checked 3 apps")
	assert.Contains(t, out, "added Things 3")
	assert.NotContains(t, out, "lookup failed")
}

func TestConsoleOutputHint(t *testing.T) {
	tests := []struct {
		name     string
		showHint func() bool
		want     bool
	}{
		{name: "always", showHint: nil, want: true},
		{name: "debug off", showHint: func() bool { return true }, want: true},
		{name: "debug on", showHint: func() bool { return false }, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := captureOutput(t, func() {
				o := &ConsoleOutput{Hint: DebugHint, ShowHint: tt.showHint}
				o.Error("boom")
				o.Warning("not an error")
			})
			if tt.want {
				assert.Equal(t, 1, bytes.Count([]byte(out), []byte(DebugHint)))
			} else {
				assert.NotContains(t, out, DebugHint)
			}
		})
	}
}

func TestDefaultCLIHandlerHintFollowsDebug(t *testing.T) {
	handler := NewDefaultCLIHandler()
	require.NotNil(t, handler)
	_, ok := handler.colors.(*ConsoleOutput)
	require.True(t, ok)

	t.Cleanup(func() { colors.SetDebug(false) })

	colors.SetDebug(false)
	out, errOut := captureOutput(t, func() { handler.Report(catalog.ErrRateLimited) })
	assert.Contains(t, errOut, "limiting requests")
	assert.Contains(t, out, DebugHint)

	colors.SetDebug(true)
	out, _ = captureOutput(t, func() { handler.Report(catalog.ErrRateLimited) })
	assert.NotContains(t, out, DebugHint)

	colors.SetDebug(false)
	out, _ = captureOutput(t, func() { handler.Report(domain.ErrAlreadyExists) })
	assert.NotContains(t, out, DebugHint, "warnings carry no hint")
}
