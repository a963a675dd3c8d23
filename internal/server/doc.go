// Package server assembles the Fiber application: request-ID middleware,
// the resolver catch-all, and the shared upstream HTTP client.
package server
