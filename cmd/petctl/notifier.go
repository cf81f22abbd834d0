package main

import (
	"fmt"
	"io"
	"sync"
)

// notifier prints view notifications to stderr and remembers whether an error was raised
type notifier struct {
	mu     sync.Mutex
	w      io.Writer
	failed bool
}

func newNotifier(w io.Writer) *notifier {
	return &notifier{w: w}
}

func (n *notifier) Success(message string) { n.write("OK", message, false) }

func (n *notifier) Error(message string) { n.write("Error", message, true) }

func (n *notifier) Info(message string) { n.write("Info", message, false) }

func (n *notifier) write(prefix, message string, failed bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if failed {
		n.failed = true
	}
	fmt.Fprintf(n.w, "%s: %s\n", prefix, message)
}

// reset forgets earlier errors, it is called before each command
func (n *notifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = false
}

func (n *notifier) errored() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.failed
}
