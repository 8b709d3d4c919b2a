package groupstatus

import (
	"strconv"
	"strings"
)

// ColumnDescriptor is the fully resolved definition of one view column.
type ColumnDescriptor struct {
	ColumnID           int
	Name               string
	Alias              string
	SourceType         SourceType
	DataType           DataType
	Position           int
	Formula            string
	ParamStandardType  *int
	StdMeasurementType int
	FieldHeading       string
	ConditionalFormats []ConditionalFormat
	UnitMeasure        string
	Width              int
	Align              string
	Visible            bool
	Orientation        int
	FormatMask         string
	Measure            string
	Decimals           int
}

// DisplayName returns the alias when present, otherwise the name.
func (c ColumnDescriptor) DisplayName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// HasConditionalFormats reports whether any rule is attached.
func (c ColumnDescriptor) HasConditionalFormats() bool {
	return len(c.ConditionalFormats) > 0
}

// RequiresCalculation reports whether the formatter must derive a value.
func (c ColumnDescriptor) RequiresCalculation() bool {
	return c.SourceType == SourceFormula || c.Measure != ""
}

// FormatOperator is a conditional-format comparison kind.
type FormatOperator int

const (
	OpEqual FormatOperator = iota
	OpNotEqual
	OpGreater
	OpGreaterOrEqual
	OpLess
	OpLessOrEqual
	OpBetween
	OpContains
)

// ConditionalFormat maps a value comparison to a color pair. Rules are
// evaluated in list order; the first match wins.
type ConditionalFormat struct {
	ColumnID    int
	Operator    FormatOperator
	Value       float64
	MinValue    float64
	MaxValue    float64
	StringValue string
	BackColor   string
	ForeColor   string
}

// Matches evaluates the rule against a merged cell value. Numeric operators
// never match non-numeric values.
func (f ConditionalFormat) Matches(value string) bool {
	switch f.Operator {
	case OpContains:
		return f.StringValue != "" && strings.Contains(strings.ToLower(value), strings.ToLower(f.StringValue))
	case OpEqual:
		if f.StringValue != "" {
			return strings.EqualFold(value, f.StringValue)
		}
	case OpNotEqual:
		if f.StringValue != "" {
			return !strings.EqualFold(value, f.StringValue)
		}
	}

	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}
	switch f.Operator {
	case OpEqual:
		return parsed == f.Value
	case OpNotEqual:
		return parsed != f.Value
	case OpGreater:
		return parsed > f.Value
	case OpGreaterOrEqual:
		return parsed >= f.Value
	case OpLess:
		return parsed < f.Value
	case OpLessOrEqual:
		return parsed <= f.Value
	case OpBetween:
		return parsed >= f.MinValue && parsed <= f.MaxValue
	default:
		return false
	}
}

// FirstMatch returns the first rule matching the value, or nil.
func FirstMatch(rules []ConditionalFormat, value string) *ConditionalFormat {
	for i := range rules {
		if rules[i].Matches(value) {
			return &rules[i]
		}
	}
	return nil
}
