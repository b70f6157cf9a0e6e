// Package bringup wires the accessory bring-up together and runs it.
//
// Build constructs every component once and returns them in a Context,
// the single owner of the process-wide instances: one provisioning
// controller, one secure server, one accessory runtime. Run then performs
// the bring-up in a fixed order:
//
//  1. accessory init
//  2. network stack init
//  3. accessory start
//  4. provisioning (or direct station start)
//
// and idles, logging liveness, until the context is cancelled or a fatal
// error occurs. Fatal errors are returned as *FatalError; recoverable
// provisioning failures stay inside the controller.
package bringup
