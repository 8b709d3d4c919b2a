package application

import (
	"log"
	"strconv"
	"strings"

	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

const (
	alarmBackColor = "#ff0000"
	alarmForeColor = "#ffffff"
	defaultFore    = "#000000"

	facilityDateDataType = 9
)

// MergeSettings carries the externally configured merge behavior.
type MergeSettings struct {
	TagMatchPolicy    int
	ShowValueWithText bool
	HighAlarmPhrase   string
	LowAlarmPhrase    string
}

// Merger builds one row per asset and merges each source's values into the
// matching columns.
type Merger struct {
	matcher  groupstatus.FacilityTagMatcher
	settings MergeSettings
	logger   *log.Logger
}

// NewMerger constructs a merger.
func NewMerger(settings MergeSettings, logger *log.Logger) *Merger {
	if settings.HighAlarmPhrase == "" {
		settings.HighAlarmPhrase = "High"
	}
	if settings.LowAlarmPhrase == "" {
		settings.LowAlarmPhrase = "Low"
	}
	return &Merger{
		matcher:  groupstatus.NewFacilityTagMatcher(settings.TagMatchPolicy),
		settings: settings,
		logger:   logger,
	}
}

// Assemble builds the row set for the view. One row is created per common
// record; assets absent from the common output produce no row. Merge order
// is parameter, facility, param-standard sums, then param-standard maxima,
// so max results take final precedence.
func (m *Merger) Assemble(columns []groupstatus.ColumnDescriptor, data *SourceData) []*groupstatus.Row {
	if data == nil {
		return nil
	}

	cellIndex := make(map[int]int, len(columns))
	for i, col := range columns {
		cellIndex[col.ColumnID] = i
	}

	rows := make([]*groupstatus.Row, 0, len(data.Common))
	rowByNode := make(map[string]*groupstatus.Row, len(data.Common))
	for _, record := range data.Common {
		row := m.assembleCommon(columns, record)
		rows = append(rows, row)
		if node := row.NodeID(); node != "" {
			rowByNode[node] = row
		}
	}

	m.mergeParameters(columns, cellIndex, rowByNode, data)
	m.mergeFacilityTags(columns, cellIndex, rowByNode, data.FacilityTags)
	m.mergeParamStandards(columns, cellIndex, rowByNode, data)
	return rows
}

func (m *Merger) assembleCommon(columns []groupstatus.ColumnDescriptor, record CommonRecord) *groupstatus.Row {
	lowered := make(map[string]string, len(record))
	for key, value := range record {
		lowered[strings.ToLower(key)] = value
	}

	row := groupstatus.NewRow(columns, record)
	for i, col := range columns {
		value, ok := lowered[strings.ToLower(col.Name)]
		if !ok {
			continue
		}
		if col.DataType == groupstatus.DataTypeMinutesHoursDays {
			if minutes, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				value = groupstatus.FormatMinutesHoursDays(minutes)
			}
		}
		row.Columns[i].Value = value
	}
	return row
}

func (m *Merger) mergeParameters(columns []groupstatus.ColumnDescriptor, cellIndex map[int]int, rowByNode map[string]*groupstatus.Row, data *SourceData) {
	if len(data.Parameters) == 0 {
		return
	}

	readings := make(map[string]ParameterReading, len(data.Parameters))
	for _, reading := range data.Parameters {
		readings[nodeDescKey(reading.NodeID, reading.Description)] = reading
	}
	scans := make(map[string]string, len(data.RawScans))
	for _, scan := range data.RawScans {
		scans[nodeDescKey(scan.NodeID, scan.Description)] = scan.Value
	}

	for node, row := range rowByNode {
		for _, col := range columns {
			if col.SourceType != groupstatus.SourceParameter {
				continue
			}
			reading, ok := readings[nodeDescKey(node, col.Name)]
			if !ok {
				continue
			}
			cell := &row.Columns[cellIndex[col.ColumnID]]
			cell.Decimals = reading.Decimals

			if reading.Text != "" {
				cell.Value = reading.Text
				if reading.BackColor != "" {
					cell.BackColor = reading.BackColor
				}
				if reading.ForeColor != "" {
					cell.ForeColor = reading.ForeColor
				}
				continue
			}

			switch col.DataType {
			case groupstatus.DataTypeAlpha:
				if scan, ok := scans[nodeDescKey(node, col.Name)]; ok {
					cell.Value = scan
				}
			case groupstatus.DataTypeHoursMinutesSeconds:
				cell.Value = groupstatus.FormatSeconds(reading.Value)
			default:
				cell.Value = strconv.FormatFloat(reading.Value, 'f', -1, 64)
			}
		}
	}
}

func (m *Merger) mergeFacilityTags(columns []groupstatus.ColumnDescriptor, cellIndex map[int]int, rowByNode map[string]*groupstatus.Row, readings []groupstatus.FacilityTagReading) {
	if len(readings) == 0 {
		return
	}

	trended := make(map[string][]int)
	var facilityColumns []int
	alarmColumn := -1
	for i, col := range columns {
		if strings.EqualFold(col.Name, FacilityTagAlarmsColumn) {
			alarmColumn = i
		}
		if col.SourceType != groupstatus.SourceFacility {
			continue
		}
		facilityColumns = append(facilityColumns, i)
		if strings.HasPrefix(col.FieldHeading, "tblParameters.") {
			desc := strings.TrimPrefix(col.FieldHeading, "tblParameters.")
			trended[strings.ToLower(desc)] = append(trended[strings.ToLower(desc)], i)
		}
	}

	// merges apply in the readings' natural result order; for the synthetic
	// alarm cell the last matching reading wins
	for _, reading := range readings {
		row, ok := rowByNode[reading.NodeID]
		if !ok {
			continue
		}

		if targets, ok := trended[strings.ToLower(reading.Description)]; ok {
			if reading.CurrentValue != "" {
				for _, i := range targets {
					row.Columns[cellIndex[columns[i].ColumnID]].Value = reading.CurrentValue
				}
			}
		} else {
			for _, i := range facilityColumns {
				col := columns[i]
				if strings.HasPrefix(col.FieldHeading, "tblParameters.") {
					continue
				}
				if !m.matcher.Matches(reading, col) {
					continue
				}
				m.applyFacilityReading(reading, &row.Columns[cellIndex[col.ColumnID]])
			}
		}

		if alarmColumn >= 0 && reading.AlarmState > 0 && reading.AlarmDescription == reading.Description {
			phrase := m.settings.HighAlarmPhrase
			if reading.AlarmState == 2 {
				phrase = m.settings.LowAlarmPhrase
			}
			cell := &row.Columns[cellIndex[columns[alarmColumn].ColumnID]]
			cell.Value = reading.AlarmDescription + " " + phrase
		}
	}
}

// applyFacilityReading fills one cell from a matched facility reading.
// Readings without a discrete state id color by alarm state; status-style
// readings carry their own colors and always align left. The raw-value
// paths re-coerce to the narrowest numeric form, falling back to "0".
func (m *Merger) applyFacilityReading(reading groupstatus.FacilityTagReading, cell *groupstatus.Cell) {
	cell.Decimals = reading.Decimals

	if reading.StateID == nil {
		if reading.AlarmState == 1 || reading.AlarmState == 2 {
			cell.BackColor = alarmBackColor
			cell.ForeColor = alarmForeColor
		} else {
			cell.ForeColor = defaultFore
		}

		if reading.DataTypeID == facilityDateDataType && groupstatus.IsAllDigits(reading.CurrentValue) {
			serial, err := strconv.ParseFloat(reading.CurrentValue, 64)
			if err != nil {
				m.logf("group status: bad date value %q: %v", reading.CurrentValue, err)
				cell.Value = "0"
				return
			}
			cell.Value = groupstatus.SpreadsheetDate(serial)
			return
		}

		if groupstatus.LooksNumeric(reading.CurrentValue) {
			cell.Align = groupstatus.AlignRight
			if reading.AlarmState != 1 && reading.AlarmState != 2 {
				cell.ForeColor = defaultFore
			}
		}
		cell.Value, cell.ValueType = groupstatus.ReCoerce(reading.CurrentValue)
		return
	}

	cell.BackColor = reading.BackColor
	cell.ForeColor = reading.ForeColor
	cell.Align = groupstatus.AlignLeft
	cell.Value = reading.Text
	if m.settings.ShowValueWithText && reading.CurrentValue != "" {
		cell.Value += " (" + reading.CurrentValue + ")"
	}
}

func (m *Merger) mergeParamStandards(columns []groupstatus.ColumnDescriptor, cellIndex map[int]int, rowByNode map[string]*groupstatus.Row, data *SourceData) {
	if len(data.StandardSums) == 0 && len(data.StandardMax) == 0 {
		return
	}

	var standardColumns []int
	for i, col := range columns {
		if col.SourceType == groupstatus.SourceParamStandard && col.ParamStandardType != nil {
			standardColumns = append(standardColumns, i)
		}
	}
	if len(standardColumns) == 0 {
		return
	}

	apply := func(values []ParamStandardValue) {
		byKey := make(map[string]float64, len(values))
		for _, value := range values {
			byKey[nodeTypeKey(value.NodeID, value.ParamStandardType)] = value.Value
		}
		for node, row := range rowByNode {
			for _, i := range standardColumns {
				col := columns[i]
				value, ok := byKey[nodeTypeKey(node, *col.ParamStandardType)]
				if !ok {
					continue
				}
				cell := &row.Columns[cellIndex[col.ColumnID]]
				cell.Value = strconv.FormatFloat(value, 'f', -1, 64)
				cell.ValueType = groupstatus.CellValueFloat
			}
		}
	}

	// max results apply strictly after all sums so a state maximum always
	// takes final precedence for the same node and type
	apply(data.StandardSums)
	apply(data.StandardMax)
}

func (m *Merger) logf(format string, args ...any) {
	if m == nil || m.logger == nil {
		return
	}
	m.logger.Printf(format, args...)
}

func nodeDescKey(node, description string) string {
	return node + "|" + strings.ToLower(description)
}

func nodeTypeKey(node string, standardType int) string {
	return node + "|" + strconv.Itoa(standardType)
}
