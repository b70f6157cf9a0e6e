// Package webserver implements the secure server lifecycle: a TLS listener
// on the secure port plus a plaintext listener on the insecure port, both
// serving the same route table.
//
// A Server is started immediately with Start or after a delay with
// StartAfter. Starting a running server restarts it, so at most one pair of
// listeners is live. A delayed start replaces any start still pending, and
// Stop cancels it.
package webserver
