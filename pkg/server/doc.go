// Package server is the HTTP and WebSocket transport for mirror sessions.
//
// Every GET outside the reserved paths returns a minimal page that loads
// the thin client from ClientPath. The client opens /ws; the server creates
// a live.Session for the connection and the client sends a load event with
// its URL, which the Pages router turns into the session's root element.
//
// # Connections
//
// Each connection runs three goroutines:
//   - ReadLoop: reads frames and queues them, dropping frames when the queue is full
//   - EventLoop: hands frames to the session one at a time and flushes
//   - WriteLoop: sends heartbeat pings
//
// # Side channels
//
// Sessions register shared files and upload gates with the Host on flush.
// Shared files are served at /tmp/{id}; uploads are POSTed as multipart
// forms to /upload/{token} and stored through an upload.Store.
//
// # Observability
//
// With metrics enabled, Prometheus collectors are exposed at the metrics
// path. With tracing enabled, each inbound event runs inside an
// OpenTelemetry span from the global tracer provider.
//
// # Example Usage
//
//	pages := server.NewPages().
//	    Page("/", func(loc *live.Location, _ ...string) live.Node {
//	        return el.H1("Hello")
//	    }).
//	    PageRegexp(`/users/(\d+)`, func(loc *live.Location, args ...string) live.Node {
//	        return el.P(el.Textf("user %s", args[0]))
//	    })
//
//	srv := server.New(&server.ServerConfig{Address: ":8080"}, pages)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
