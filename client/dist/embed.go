package clientdist

import _ "embed"

// MirrorJS is the thin client served at "/_mirror/client.js".
//
//go:embed mirror.js
var MirrorJS []byte
