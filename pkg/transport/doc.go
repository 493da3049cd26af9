// Package transport implements ports.Transport over HTTP with JSON bodies.
//
// Every request targets a single base URL. Failures of any kind (network,
// non-2xx status, malformed body) come back as *domain.TransportError.
package transport
