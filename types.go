package uiskema

// Policy controls how an object schema treats keys it does not declare.
type Policy int

const (
	PolicyClosed Policy = iota // Reject undeclared keys with unknown_prop.
	PolicyOpen                 // Pass undeclared keys through unvalidated.
	PolicyStrip                // Accept undeclared keys and drop them from the output.
)

func (p Policy) String() string {
	switch p {
	case PolicyOpen:
		return "open"
	case PolicyStrip:
		return "strip"
	default:
		return "closed"
	}
}

// Limits applied when none are configured.
const (
	DefaultMaxDepth   = 32
	DefaultMaxNesting = 256
	DefaultMaxBytes   = 1 << 20
)

// ValidateOpt bundles validation limits.
type ValidateOpt struct {
	// MaxDepth is the deepest element depth allowed (the root is depth 0).
	MaxDepth int
	// MaxNesting caps raw JSON nesting of a document (objects and arrays).
	MaxNesting int
	// MaxBytes caps the size of a raw document.
	MaxBytes int64
	// AllowDuplicateKeys disables duplicate_key diagnostics; the last value wins.
	AllowDuplicateKeys bool
}

// WithDefaults fills zero limits with the package defaults.
func (o ValidateOpt) WithDefaults() ValidateOpt {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNesting <= 0 {
		o.MaxNesting = DefaultMaxNesting
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	return o
}
