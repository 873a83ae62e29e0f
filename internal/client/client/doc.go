// Package client contains the console's building blocks for talking to the
// admin backend.
//
// # Overview
//
//  1. HTTPClient, a thin JSON gateway over net/http. Every request is sent to
//     a fixed base URL, carries the JSON content headers and, when the
//     TokenSource has one, an Authorization: Bearer header. Caller supplied
//     headers override the defaults. There is a single attempt per call.
//  2. A tagged error model: APIError for non-2xx answers, UserError for
//     failures already reduced to a human readable message, and
//     ExtractMessage which reduces any error to such a message.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite file holding the persisted token.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. A 401 answer matches
// ErrUnauthorized through errors.Is.
package client
