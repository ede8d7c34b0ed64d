// Package services defines the shared error taxonomy for meetnotes service
// components and the mapping from domain errors to HTTP status codes at the
// API boundary.
package services
