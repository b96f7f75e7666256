package mqtt

import "strings"

// Topic namespace constants.
const (
	// topicPrefix is the root of every instrument topic.
	topicPrefix = "dmi"

	// Topic segments below the instrument name.
	segmentState  = "state"
	segmentSet    = "set"
	segmentStatus = "status"
)

// Topics builds MQTT topic strings for one instrument.
//
// Layout:
//
//	dmi/{instrument}/state/{address}   endpoint values published by the host
//	dmi/{instrument}/set/{address}     writes requested by remote peers
//	dmi/{instrument}/status            online/offline (retained, LWT)
//
// Addresses keep their own delimiter, so a slash-delimited address spans
// several topic levels while a dotted one stays in a single level.
type Topics struct {
	Instrument string
}

// Root returns "dmi/{instrument}".
func (t Topics) Root() string {
	return topicPrefix + "/" + t.Instrument
}

// State returns the topic an endpoint value is published on.
func (t Topics) State(address string) string {
	return t.Root() + "/" + segmentState + "/" + trimAddress(address)
}

// Set returns the topic a remote write for an endpoint arrives on.
func (t Topics) Set(address string) string {
	return t.Root() + "/" + segmentSet + "/" + trimAddress(address)
}

// AllSets returns the wildcard covering every write topic of the instrument.
func (t Topics) AllSets() string {
	return t.Root() + "/" + segmentSet + "/#"
}

// AllStates returns the wildcard covering every state topic of the instrument.
func (t Topics) AllStates() string {
	return t.Root() + "/" + segmentState + "/#"
}

// Status returns the instrument's retained status topic.
func (t Topics) Status() string {
	return t.Root() + "/" + segmentStatus
}

// SetAddress extracts the endpoint address from a write topic. The
// returned address has no leading delimiter; callers whose addresses
// carry a prefix re-attach it.
func (t Topics) SetAddress(topic string) (string, bool) {
	prefix := t.Root() + "/" + segmentSet + "/"
	if !strings.HasPrefix(topic, prefix) {
		return "", false
	}
	addr := topic[len(prefix):]
	if addr == "" {
		return "", false
	}
	return addr, true
}

// ValidAddress reports whether an address can be embedded in a topic.
// MQTT reserves + and # for wildcards and forbids NUL.
func ValidAddress(address string) bool {
	return address != "" && !strings.ContainsAny(address, "+#\x00")
}

// trimAddress drops a leading slash so root-relative addresses do not
// produce an empty topic level.
func trimAddress(address string) string {
	return strings.TrimPrefix(address, "/")
}
