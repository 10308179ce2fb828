package routematch

// Table is an ordered list of named matchers. Lookup tries them in the order they were added.
// A Table must not be modified once it is shared between goroutines.
type Table struct {
	routes []TableRoute
}

// TableRoute is an entry of a Table.
type TableRoute struct {
	Name    string
	Matcher *Matcher
}

// TableMatch is the result of a successful Lookup.
type TableMatch struct {
	TableRoute
	Captures Captures
}

// Add appends a route to the table.
func (t *Table) Add(name string, m *Matcher) {
	t.routes = append(t.routes, TableRoute{Name: name, Matcher: m})
}

// Routes returns the routes of the table, in declaration order.
func (t *Table) Routes() []TableRoute {
	return append([]TableRoute(nil), t.routes...)
}

// Lookup returns the first route matching input.
func (t *Table) Lookup(input string) (TableMatch, bool) {
	for _, r := range t.routes {
		if c, ok := r.Matcher.Match(input); ok {
			return TableMatch{TableRoute: r, Captures: c}, true
		}
	}

	return TableMatch{}, false
}

// LookupURL is like Lookup for the path, query and fragment of rawURL, as Matcher.MatchURL extracts them.
func (t *Table) LookupURL(rawURL string) (TableMatch, bool, error) {
	input, err := urlInput(rawURL)
	if err != nil {
		return TableMatch{}, false, err
	}

	m, ok := t.Lookup(input)

	return m, ok, nil
}
