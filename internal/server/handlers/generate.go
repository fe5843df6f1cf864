// Package handlers provides HTTP request handlers for the stargazer API.
//
// Handlers are organized by domain:
//
//   - search.go: repository search (no credential forwarded)
//   - stars.go: star status, star and unstar for the caller's credential
//   - health.go: health and readiness checks
//
// Every handler follows the same pattern:
//
//  1. Extract and parse input (query values, path variables, credential)
//  2. Delegate to the application service
//  3. Map the result or the classified error onto the response envelope
//
// Handlers receive all dependencies through the Handlers struct.
package handlers

//go:generate gomarkdoc --output README.md .
