// Package gate provides a manually-reset binary signal.
//
// A Gate starts cleared. Set marks it signaled and releases every waiter;
// it stays signaled until Clear is called. The network bring-up uses one
// Gate to let the main flow block until the station has an IP address.
package gate
