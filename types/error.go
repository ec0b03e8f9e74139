package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

var (
	_ error = &CycleError{}
	_ error = &ConfigError{}
	_ error = &WorkError{}
	_ error = &RunError{}
)

var (
	ErrDependencyFailed = errors.New("dependency failed")
	ErrCancelled        = errors.New("cancelled before dispatch")
)

func NewCycleError(emitted, total int, remaining []*Node) error {
	return &CycleError{
		baseError: newBaseErr(errors.Errorf("cycle detected, sorted %d of %d nodes, unsorted: %s",
			emitted, total, joinLabels(remaining))),
		Remaining: remaining,
	}
}

func NewConfigError(otherErr error) error {
	return &ConfigError{baseError: newBaseErr(otherErr)}
}

func NewConfigErrorf(format string, args ...interface{}) error {
	return NewConfigError(errors.Errorf(format, args...))
}

func NewWorkError(n *Node, otherErr error) error {
	return &WorkError{baseError: newBaseErr(otherErr), Node: n}
}

func newBaseErr(otherErr error) *baseError {
	return &baseError{unwrapErr(otherErr)}
}

func unwrapErr(err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := err.(wrappedErr); ok {
		return unwrapErr(ue.UnwrapLocal())
	}
	return err
}

type wrappedErr interface {
	UnwrapLocal() error
}

type baseError struct {
	BaseErr error
}

func (e *baseError) Error() string {
	return e.BaseErr.Error()
}

func (e *baseError) UnwrapLocal() error {
	return e.BaseErr
}

func (e *baseError) Unwrap() error {
	return e.BaseErr
}

// CycleError is returned by the sorter when the graph is not acyclic.
type CycleError struct {
	*baseError
	// Remaining holds the nodes which never reached in-degree zero.
	Remaining []*Node
}

// ConfigError reports invalid input: parallelism, orderings, dependency tables.
type ConfigError struct {
	*baseError
}

// WorkError is a failure of the work function on Node.
type WorkError struct {
	*baseError
	Node *Node
}

func (e *WorkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Node, e.BaseErr.Error())
}

/**
 * RunError summarises an unsuccessful concurrent run.
 * Failed holds the work errors, Skipped the nodes never run since a predecessor
 * did not complete, Cancelled the nodes never dispatched after cancellation.
 */
type RunError struct {
	Failed    map[*Node]error
	Skipped   []*Node
	Cancelled []*Node
}

func NewRunError() *RunError {
	return &RunError{Failed: make(map[*Node]error)}
}

func (e *RunError) Empty() bool {
	return len(e.Failed) == 0 && len(e.Skipped) == 0 && len(e.Cancelled) == 0
}

func (e *RunError) Error() string {
	failed := make([]string, 0, len(e.Failed))
	for n, err := range e.Failed {
		failed = append(failed, fmt.Sprintf("%s: %v", n, err))
	}
	sort.Strings(failed)

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%d failed", len(e.Failed))
	if len(failed) > 0 {
		fmt.Fprintf(sb, " [%s]", strings.Join(failed, "; "))
	}
	if len(e.Skipped) > 0 {
		fmt.Fprintf(sb, ", %d skipped [%s]", len(e.Skipped), joinLabels(e.Skipped))
	}
	if len(e.Cancelled) > 0 {
		fmt.Fprintf(sb, ", %d cancelled [%s]", len(e.Cancelled), joinLabels(e.Cancelled))
	}
	return sb.String()
}

func IsCycleError(err error) bool {
	_, ok := errors.Cause(err).(*CycleError)
	return ok
}

func IsConfigError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigError)
	return ok
}

func AsWorkError(err error) (*WorkError, bool) {
	we, ok := errors.Cause(err).(*WorkError)
	return we, ok
}

func AsRunError(err error) (*RunError, bool) {
	re, ok := errors.Cause(err).(*RunError)
	return re, ok
}

func joinLabels(nodes []*Node) string {
	labels := make([]string, 0, len(nodes))
	for _, n := range nodes {
		labels = append(labels, n.String())
	}
	return strings.Join(labels, ", ")
}
