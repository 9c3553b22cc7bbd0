// Package subscriber implements the subscriber lifecycle manager.
//
// This is the single source of truth for the subscriber list: it owns the
// in-memory index keyed by lower-cased email, enforces validation and
// uniqueness on registration, runs the verification-token protocol, and
// persists the full index through the Repository after every mutation.
//
// The service layer contains pure business logic and depends on the
// Repository interface defined in repository.go. It never imports
// net/http.
package subscriber
