// Package observability builds the structured zap logger shared by every
// service binary.
package observability
