// Package netif models the network-stack collaborator: the Wi-Fi driver
// that is initialized, switched between station and access-point mode,
// started and asked to connect, and that reports its progress as
// asynchronous WIFI_EVENT and IP_EVENT notifications.
//
// Simulator is a host implementation that posts the same notifications
// through an event.Router, so the bring-up core runs unchanged on a
// development machine.
package netif
