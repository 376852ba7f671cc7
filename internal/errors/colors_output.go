package errors

import "github.com/cristianoliveira/appwish/internal/colors"

// DebugHint follows an error when debug output is off.
const DebugHint = "Run again with --debug to see what went wrong."

// ConsoleOutput prints handler messages through the colors package.
// Errors are followed by Hint unless ShowHint reports false.
type ConsoleOutput struct {
	Hint     string
	ShowHint func() bool
}

var _ ColorOutput = (*ConsoleOutput)(nil)

func (o *ConsoleOutput) Error(msgs ...string) {
	colors.Error(msgs...)
	if o.Hint != "" && (o.ShowHint == nil || o.ShowHint()) {
		colors.Info(o.Hint)
	}
}

func (o *ConsoleOutput) Warning(msgs ...string) {
	colors.Warning(msgs...)
}

func (o *ConsoleOutput) Info(msgs ...string) {
	colors.Info(msgs...)
}

func (o *ConsoleOutput) Success(msgs ...string) {
	colors.Success(msgs...)
}

// NewDefaultCLIHandler returns the handler used by the appwish binary. The
// debug hint is dropped once --debug is set since details are already shown.
func NewDefaultCLIHandler() *CLIHandler {
	return NewCLIHandler(&ConsoleOutput{
		Hint:     DebugHint,
		ShowHint: func() bool { return !colors.DebugEnabled() },
	})
}
