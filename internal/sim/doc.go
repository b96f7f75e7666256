// Package sim provides host-side stand-ins for instrument hardware: a
// scripted digital pin and an oscillating accelerometer. They let an
// instrument run, and be tested, without peripherals.
package sim
