package domain

// Closed visiting sequence over all cities of a request.
// A valid Tour over N cities has N+1 elements: the first N are a permutation
// of the input and the last repeats the first.
type Tour []City

// Names returns the city names in visiting order, closing element included.
func (t Tour) Names() []string {
	out := make([]string, 0, len(t))
	for _, c := range t {
		out = append(out, c.Name)
	}
	return out
}

// IsClosed reports whether the tour returns to its starting city.
func (t Tour) IsClosed() bool {
	return len(t) >= 2 && t[0].Name == t[len(t)-1].Name
}
