package routematch

// Options modifies how a compiled matcher behaves. The zero value gives the default behavior:
// a trailing slash is optional, the whole input must be consumed and literals are case-sensitive.
type Options struct {
	// Strict disables the automatic optional trailing slash.
	Strict bool
	// CaseInsensitive compares every literal of the pattern case-insensitively.
	CaseInsensitive bool
	// Incomplete allows input to remain once the whole pattern has matched.
	// A pattern ending with '!' still requires the exact end of input.
	Incomplete bool
}
