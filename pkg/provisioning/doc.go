// Package provisioning brings the device onto a Wi-Fi network.
//
// Controller owns network initialization, the provisioning decision and the
// connectivity gate. On a device without stored credentials it starts a
// provisioning session through a Manager and returns; the secure server is
// started once the session ends. On a provisioned device it switches the
// driver to station mode and starts the secure server right away.
//
// SoftAPManager is the Manager used on the device: it runs the provisioning
// endpoints over a soft access point and reports progress as
// WIFI_PROV_EVENT notifications. ClientSession is the peer side of the
// provisioning handshake.
package provisioning
