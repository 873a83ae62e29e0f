// Package cli provides the interactive admin console.
//
// App wires configuration, the local SQLite store, the HTTP gateway, the
// session and the resource services. Run restores any persisted session
// before the prompt appears, so the first command already sees the right
// state.
//
// Every command declares whether it needs a signed-in user and which
// permissions unlock it. The REPL consults the auth and login guards before
// dispatching, and "help" only lists what the current user may run.
package cli
