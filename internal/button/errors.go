package button

import "errors"

// ErrNoPin is returned by Init when the button was created without a pin.
var ErrNoPin = errors.New("button: no pin")
