// Package middleware provides the HTTP middleware chain: JWT auth and the
// Redis-backed rate limiter.
package middleware
