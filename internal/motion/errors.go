package motion

import "errors"

// ErrNoSampler is returned by Init when the accelerometer has no driver.
var ErrNoSampler = errors.New("motion: no sampler")
