// Package upload receives files posted to upload endpoints and keeps them
// in a storage backend.
//
// Large binary payloads are a poor fit for the WebSocket that carries UI
// messages: they block heartbeats and the event loop. Uploads therefore use
// plain HTTP:
//
//  1. A handler calls Session.CreateUploadGate and renders a form that
//     posts to the returned /upload/<id> URL.
//  2. The server receives the multipart body with Receive, which streams
//     every file part into a Store (disk or S3).
//  3. The gate's handler runs as a session task with the stored files.
//
// # Security
//
// Receive enforces Config.MaxSize with http.MaxBytesReader before parsing
// and checks Config.AllowedTypes against the type detected from the
// content (http.DetectContentType); the client's part header is not
// trusted.
package upload
