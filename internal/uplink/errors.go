package uplink

import "errors"

var (
	// ErrInvalidAddress is returned by Attach when an endpoint address
	// contains characters MQTT reserves for wildcards.
	ErrInvalidAddress = errors.New("uplink: address not usable as topic")

	// ErrUnknownTopic is returned for set messages outside the instrument's set namespace.
	ErrUnknownTopic = errors.New("uplink: not a set topic")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("uplink: already started")
)
