// Package cli provides the interactive nkitsi command-line client.
//
// It wires configuration, the local document store, the API client and an
// interactive REPL. A background watcher pings the server and shows whether
// it is reachable in the prompt.
//
// Key features:
//   - Sign up, confirm, resend code, password reset
//   - Login / Logout, whoami, token refresh, password change
//   - Add a document (type, status, optional file upload with progress)
//   - List / Remove / Clear saved documents
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
