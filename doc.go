// Package main provides the entry point for the TokenMint service.
// It initializes and runs a web server using the Fiber framework that mints
// cryptographically secure random strings, tokens and TOTP enrollment keys
// through a REST API. The application uses gorm to persist fingerprint-only
// records of issued tokens with metadata and expiration dates.
package main
