package session

// Lookup is the outcome of a navigation query.
type Lookup int

const (
	LookupNotImplemented Lookup = iota
	LookupNotFound
	LookupFound
)

func (l Lookup) String() string {
	switch l {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not found"
	default:
		return "not implemented"
	}
}

// Location is a 1-based position in a file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// LocationSink receives navigation results.
type LocationSink func(Location)

// FindDefinition is not implemented and never calls sink.
func (s *Store) FindDefinition(path string, line, column int, sink LocationSink) Lookup {
	return LookupNotImplemented
}

// FindDeclaration is not implemented and never calls sink.
func (s *Store) FindDeclaration(path string, line, column int, sink LocationSink) Lookup {
	return LookupNotImplemented
}

// FindAssignments is not implemented and never calls sink.
func (s *Store) FindAssignments(path string, line, column int, sink LocationSink) Lookup {
	return LookupNotImplemented
}

// FindReferences is not implemented and never calls sink.
func (s *Store) FindReferences(path string, line, column int, sink LocationSink) Lookup {
	return LookupNotImplemented
}
