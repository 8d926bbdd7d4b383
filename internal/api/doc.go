// Package api exposes the task list controller over JSON/HTTP. Each endpoint
// maps one user gesture to one controller intent and answers with the
// resulting view state, so a client re-renders from every response.
package api
