package enums

// FieldScope tells the mutation gateway which persistence endpoint an edit targets.
type FieldScope string

const (
	FieldScopeOrder FieldScope = "order"
	FieldScopeLine  FieldScope = "line"
)

// String implements fmt.Stringer.
func (f FieldScope) String() string {
	return string(f)
}
