// Package status publishes the bring-up state to an MQTT broker.
//
// A Publisher is a log.Logger: attach it to the trace pipeline and every
// state change is published as a retained JSON document on
//
//	<prefix>/<device-id>/bringup
//
// The broker holds an offline document as last will, so subscribers see
// the device drop off when the connection is lost.
package status
