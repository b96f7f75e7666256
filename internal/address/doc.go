// Package address synthesises hierarchical addresses for endpoints.
//
// An address is the endpoint's display-name path, each segment converted
// with a naming.Style and joined with a delimiter:
//
//	accelerometer/x
//	/dmi/button/rising-edge
//	Motion.Accelerometer.Running
//
// Addresses are computed once, when the Table is built, and are guaranteed
// unique: two endpoints that would produce the same address fail the build
// with ErrCollision.
package address
