// Package accessory brings up the accessory protocol runtime.
//
// The object model is Accessory > Service > Characteristic. Every accessory
// carries an Accessory Information service built from its Info; callers add
// their own services, each with an optional write callback. Bringup drives
// a Runtime through init and start, and HTTPRuntime is the host runtime: it
// serves the accessory database over HTTP, advertises it over mDNS and
// shares its listener with the provisioning endpoints.
package accessory
