package el

import "github.com/vango-dev/mirror/pkg/live"

// Type aliases for the live primitives used by the DSL.
type (
	Elem  = live.Elem
	Node  = live.Node
	Attr  = live.Attr
	Child = live.Child
)

// Event aliases for handler signatures.
type (
	ClickEvent   = live.ClickEvent
	InputEvent   = live.InputEvent
	ChangeEvent  = live.ChangeEvent
	MountEvent   = live.MountEvent
	UnmountEvent = live.UnmountEvent
)
