package routematch

// Param is a single captured substring.
type Param struct {
	// Index is the position of the capture among all captures of the pattern, in declaration order.
	// It does not depend on which optional groups matched.
	Index int
	// Name is empty for unnamed captures.
	Name  string
	Value string
}

// Captures holds the substrings captured by a match, in match order.
// It is the positional form of a match result, Map returns the named form.
type Captures []Param

// Get returns the value of the named capture.
func (c Captures) Get(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	for _, p := range c {
		if p.Name == name {
			return p.Value, true
		}
	}

	return "", false
}

// At returns the value of the capture declared at position index, named or not.
func (c Captures) At(index int) (string, bool) {
	for _, p := range c {
		if p.Index == index {
			return p.Value, true
		}
	}

	return "", false
}

// Map returns the named captures. Text matched by unnamed captures is discarded.
func (c Captures) Map() map[string]string {
	m := make(map[string]string, len(c))
	for _, p := range c {
		if p.Name != "" {
			m[p.Name] = p.Value
		}
	}

	return m
}
