package generic

// Sort identifies the shape of a Node.
type Sort uint8

const (
	NonGeneric Sort = iota
	Parameterized
	GenericArray
	Wildcard
	Variable
	VariableSymbolic
)

var sortNames = [...]string{
	NonGeneric:       "NON_GENERIC",
	Parameterized:    "PARAMETERIZED",
	GenericArray:     "GENERIC_ARRAY",
	Wildcard:         "WILDCARD",
	Variable:         "VARIABLE",
	VariableSymbolic: "VARIABLE_SYMBOLIC",
}

func (s Sort) String() string {
	if int(s) < len(sortNames) {
		return sortNames[s]
	}
	return "UNKNOWN"
}

func (s Sort) IsNonGeneric() bool    { return s == NonGeneric }
func (s Sort) IsParameterized() bool { return s == Parameterized }
func (s Sort) IsGenericArray() bool  { return s == GenericArray }
func (s Sort) IsWildcard() bool      { return s == Wildcard }

// IsTypeVariable reports whether s is either a live or a detached type
// variable.
func (s Sort) IsTypeVariable() bool {
	return s == Variable || s == VariableSymbolic
}
