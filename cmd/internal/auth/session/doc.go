// Package session implements the gateway's authentication state machine.
//
// A single Manager instance owns the observable session state
// (uninitialized -> initializing -> authenticated/unauthenticated, with
// login/logout transitions and refresh-failure fallbacks). The Coordinator
// deduplicates concurrent token refreshes into one in-flight backend call.
//
// The Manager is constructed once at application start and injected where
// needed; there is no ambient global instance.
package session
