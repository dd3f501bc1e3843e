// Package errors provides coded, structured errors for the mirror runtime.
//
// Every error carries a code (e.g. "E101") that maps to a registered
// category, short message and longer explanation:
//
//	err := errors.New("E101").
//	    WithDetail("element _4 is already registered with session 3f2a...").
//	    WithSuggestion("Unmount the element before mounting it again")
//
//	fmt.Println(err.Format())
//	// ERROR E101: Element already mounted
//	//
//	//   element _4 is already registered with session 3f2a...
//	//
//	//   Hint: Unmount the element before mounting it again
//
// # Categories
//
//   - runtime: tree and session invariant violations (double mount, no session)
//   - protocol: malformed or unroutable inbound messages
//   - config: configuration loading and validation
//
// Runtime errors signal a corrupted invariant and are raised with panic by
// the live package; the dispatch boundary recovers them and reports them to
// the originating client.
package errors
