package ntpwire

// MaxExtensionFields is the number of optional extension fields modeled
// after the fixed header. RFC 7822 allows more, but two is all a v4
// client-server exchange uses in practice.
const MaxExtensionFields = 2

// ExtensionField is the type/length/value framing of an optional field
// appended after the fixed 48-byte header. This is scaffolding for wire
// compatibility: the decoder never populates it, and parsing the
// variable-length body is deferred until a concrete profile (e.g. NTS,
// RFC 8915) is in scope.
type ExtensionField struct {
	Type   uint16
	Length uint16 // Total field length in bytes, header included
	Data   []byte
}
