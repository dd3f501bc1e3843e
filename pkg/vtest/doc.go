// Package vtest provides in-memory test doubles for the live runtime.
//
// A Recorder is both the connection and the host of a session: it records
// every frame the session flushes and every file or upload endpoint it
// registers.
//
//	s, rec := vtest.NewSession(t)
//	s.SetRoot(app())
//	_ = s.Flush(ctx)
//	creates := rec.Events(message.EventCreate)
package vtest
