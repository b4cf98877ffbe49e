// Package dtracksdk connects to an optical motion-capture controller and
// exposes its measurement stream and configuration channel to host
// applications.
//
// The controller transmits per-frame tracking data (rigid bodies, tracked
// hands, single markers, inertial/hybrid bodies, system status) as
// line-oriented ASCII datagrams over UDP, and accepts line-oriented ASCII
// commands over a persistent TCP session. A separate feedback channel,
// also UDP/ASCII, carries tactile and Flystick actuation messages back
// toward the controller.
//
// Session is the entry point: it owns the UDP receiver, the optional TCP
// command connection, and feedback emission, and publishes a fresh,
// immutable Snapshot on every successfully parsed measurement datagram.
package dtracksdk
