// This file contains helpers for composing children.
package el

import (
	"fmt"

	"github.com/vango-dev/mirror/pkg/live"
)

// Textf returns formatted text for use as a child.
func Textf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// Fragment groups children so they can be passed as one argument.
func Fragment(children ...any) []any {
	return children
}

// If returns node when condition holds, otherwise nil (which constructors
// ignore).
func If(condition bool, node live.Node) any {
	if !condition {
		return nil
	}
	return node
}

// IfElse returns ifTrue or ifFalse.
func IfElse(condition bool, ifTrue, ifFalse live.Node) live.Node {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When calls fn only when condition holds.
func When(condition bool, fn func() live.Node) any {
	if !condition {
		return nil
	}
	return fn()
}

// Range maps items to children.
func Range[T any](items []T, fn func(item T, index int) live.Node) []any {
	out := make([]any, 0, len(items))
	for i, item := range items {
		out = append(out, fn(item, i))
	}
	return out
}

// Repeat calls fn n times.
func Repeat(n int, fn func(i int) live.Node) []any {
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fn(i))
	}
	return out
}
