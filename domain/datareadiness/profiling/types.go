package profiling

// ColumnType is the semantic type assigned to a column.
type ColumnType string

const (
	TypeContinuous  ColumnType = "continuous"
	TypeDiscrete    ColumnType = "discrete"
	TypeCategorical ColumnType = "categorical"
	TypeDatetime    ColumnType = "datetime"
	TypeUnknown     ColumnType = "unknown"
)

// IsNumeric reports continuous or discrete.
func (t ColumnType) IsNumeric() bool {
	return t == TypeContinuous || t == TypeDiscrete
}

// ColumnProfile is the classifier verdict for one column.
type ColumnProfile struct {
	Column       string     `json:"column" yaml:"column"`
	DetectedType ColumnType `json:"detected_type" yaml:"detected_type"`
	Reasoning    string     `json:"reasoning" yaml:"reasoning"`
	UniqueValues int        `json:"unique_values" yaml:"unique_values"`
	MissingPct   float64    `json:"missing_pct" yaml:"missing_pct"`
}

// Profiles is the ordered set of profiles for one dataset.
type Profiles []ColumnProfile

// Lookup finds the profile for a column.
func (p Profiles) Lookup(column string) (ColumnProfile, bool) {
	for _, cp := range p {
		if cp.Column == column {
			return cp, true
		}
	}
	return ColumnProfile{}, false
}

// TypeOf returns the detected type, or unknown for unprofiled columns.
func (p Profiles) TypeOf(column string) ColumnType {
	if cp, ok := p.Lookup(column); ok {
		return cp.DetectedType
	}
	return TypeUnknown
}

// Columns returns, in profile order, the columns whose type is one of types.
func (p Profiles) Columns(types ...ColumnType) []string {
	var out []string
	for _, cp := range p {
		for _, t := range types {
			if cp.DetectedType == t {
				out = append(out, cp.Column)
				break
			}
		}
	}
	return out
}

// NumericColumns returns continuous and discrete columns.
func (p Profiles) NumericColumns() []string {
	return p.Columns(TypeContinuous, TypeDiscrete)
}

// CountByType tallies profiles per type.
func (p Profiles) CountByType() map[ColumnType]int {
	out := make(map[ColumnType]int)
	for _, cp := range p {
		out[cp.DetectedType]++
	}
	return out
}
