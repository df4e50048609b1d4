package conversation

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Notifier = (*CLINotifier)(nil)
	_ domain.Notifier = (*LogNotifier)(nil)
)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
	cyan  = "\033[36m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes notifications to the terminal with ANSI formatting.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewCLINotifier creates a terminal notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s%s%s%s", cyan, bold, message, reset)
	return nil
}

// NotifyUrgent prints an urgent notification in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s%s%s%s", red, bold, message, reset)
	return nil
}

// LogNotifier routes notifications to the log. Used by the HTTP server,
// which has no terminal to print to.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs at info level.
func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.log.Info("%s", message)
	return nil
}

// NotifyUrgent logs at warn level.
func (n *LogNotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Warn("%s", message)
	return nil
}
