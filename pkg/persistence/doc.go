// Package persistence stores the station configuration that the network
// stack keeps across restarts.
//
// Credentials are written by the network stack once a provisioning session
// applies them; the bring-up core only ever reads whether a configuration
// exists.
package persistence
