// Package cli provides the interactive Bookkeeper command-line client.
//
// It wires configuration, the HTTP API client and the session and book
// services into a REPL. A background watcher pings the server and switches
// the prompt between online and offline mode.
//
// Private books are managed with add, list, show, edit and delete. The
// shared catalog uses share, catalog, mine, showshared, editshared and
// deleteshared. Covers are transferred with setcover and getcover through
// presigned URLs.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
