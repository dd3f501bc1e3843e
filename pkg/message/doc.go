// Package message defines the wire unit exchanged between the server runtime
// and the client renderer.
//
// A Message is an immutable record of an event name and a flat set of data
// fields. On the wire it is a single JSON object whose "event" key names the
// instruction and whose remaining keys carry its payload:
//
//	{"event":"create","tag":"div","id":"_1","parent":"body"}
//	{"event":"update","id":"_1","style":{"color":"red"}}
//	{"event":"remove","id":"_1"}
//
// Outbound messages are built only through the named factories (Create,
// Update, Remove, Clear, Execute, Function, Log, ...). Inbound frames are
// parsed with Parse.
package message
