package groupstatus

// TagMatchPolicy selects how facility-tag readings are matched to facility
// columns. Values outside the known set normalize to the standard policy.
type TagMatchPolicy int

const (
	// MatchStandardMeasurement matches on standard-measurement-type ids only.
	MatchStandardMeasurement TagMatchPolicy = 0
	// MatchDescription matches the column heading against the reading
	// description.
	MatchDescription TagMatchPolicy = 1
	// MatchHybrid tries the standard-measurement match first, then falls
	// back to the description match.
	MatchHybrid TagMatchPolicy = 2
)

// NormalizeTagMatchPolicy clamps an external integer setting into the
// supported policy set.
func NormalizeTagMatchPolicy(raw int) TagMatchPolicy {
	switch TagMatchPolicy(raw) {
	case MatchStandardMeasurement, MatchDescription, MatchHybrid:
		return TagMatchPolicy(raw)
	default:
		return MatchStandardMeasurement
	}
}

// FacilityTagReading is one current facility-tag sample for a node.
type FacilityTagReading struct {
	NodeID             string
	Description        string
	StdMeasurementType int
	DataTypeID         int
	UnitType           int
	StateID            *int
	AlarmState         int
	AlarmDescription   string
	CurrentValue       string
	Text               string
	BackColor          string
	ForeColor          string
	Decimals           int
}

// FacilityTagMatcher resolves which readings belong to which facility
// columns under the configured policy.
type FacilityTagMatcher struct {
	policy TagMatchPolicy
}

// NewFacilityTagMatcher builds a matcher, normalizing the raw policy.
func NewFacilityTagMatcher(rawPolicy int) FacilityTagMatcher {
	return FacilityTagMatcher{policy: NormalizeTagMatchPolicy(rawPolicy)}
}

// Policy returns the effective policy.
func (m FacilityTagMatcher) Policy() TagMatchPolicy { return m.policy }

// Matches reports whether the reading feeds the column.
func (m FacilityTagMatcher) Matches(reading FacilityTagReading, column ColumnDescriptor) bool {
	switch m.policy {
	case MatchDescription:
		return matchByDescription(reading, column)
	case MatchHybrid:
		if matchByStandardMeasurement(reading, column) {
			return true
		}
		return matchByDescription(reading, column)
	default:
		return matchByStandardMeasurement(reading, column)
	}
}

func matchByStandardMeasurement(reading FacilityTagReading, column ColumnDescriptor) bool {
	if reading.StdMeasurementType == 0 || column.StdMeasurementType == 0 {
		return false
	}
	return reading.StdMeasurementType == column.StdMeasurementType
}

func matchByDescription(reading FacilityTagReading, column ColumnDescriptor) bool {
	if reading.Description == "" {
		return false
	}
	return column.FieldHeading == "tblFacilityTags."+reading.Description
}
