package groupstatus

// SourceType identifies which backing source feeds a view column.
type SourceType int

const (
	SourceCommon        SourceType = 0
	SourceParameter     SourceType = 1
	SourceParamStandard SourceType = 2
	SourceFacility      SourceType = 3
	SourceFormula       SourceType = 4
)

// Valid returns true when the source type is supported.
func (s SourceType) Valid() bool {
	switch s {
	case SourceCommon, SourceParameter, SourceParamStandard, SourceFacility, SourceFormula:
		return true
	default:
		return false
	}
}

func (s SourceType) String() string {
	switch s {
	case SourceCommon:
		return "common"
	case SourceParameter:
		return "parameter"
	case SourceParamStandard:
		return "paramstandard"
	case SourceFacility:
		return "facility"
	case SourceFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// DataType determines how a merged value is coerced for display.
type DataType int

const (
	DataTypeNumeric DataType = iota
	DataTypeAlpha
	DataTypeHoursMinutesSeconds
	DataTypeMinutesHoursDays
)

// Unit categories declared by parameter and facility-tag metadata.
const (
	UnitTypeNone     = 0
	UnitTypeTimeEnron = 5
	UnitTypeDiscrete  = 7
)

// Cell alignment codes carried through to the UI.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)
