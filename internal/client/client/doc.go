// Package client talks to the nkitsi HTTP API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the CLI services; HTTPClient
// implements it over net/http. HTTPClient keeps the session issued by Login,
// attaches the access token as a bearer credential and, when the server
// answers 401 with code TokenExpired, refreshes the session once and retries
// the call.
//
// # Error Handling
//
// Every failure is a *common.Error. Server errors keep the server's message,
// details and code; the code is mapped back to its sentinel so callers can
// match with errors.Is (common.ErrNotConfirmed, common.ErrCredentialsUnavailable,
// ...). Network failures, timeouts and aborts are common.KindTransport.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call honors ctx and is bounded
// by the request or upload timeout.
package client
