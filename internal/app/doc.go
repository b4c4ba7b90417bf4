// Package app composes the billing services into a running application.
//
// The package itself carries no business logic. Domain models live under
// domain/, storage interfaces and their memory/postgres implementations
// under storage/, the services under services/, and the HTTP surface under
// httpapi/. application.go wires them together, defaulting nil stores to the
// in-memory implementation so tests and local runs need no database.
package app
