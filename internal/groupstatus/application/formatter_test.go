package application

import (
	"testing"

	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

func formatterColumns() []groupstatus.ColumnDescriptor {
	return []groupstatus.ColumnDescriptor{
		{ColumnID: 1, Name: "Rate", SourceType: groupstatus.SourceParameter, DataType: groupstatus.DataTypeNumeric, Position: 0,
			ConditionalFormats: []groupstatus.ConditionalFormat{
				{ColumnID: 1, Operator: groupstatus.OpGreater, Value: 100, BackColor: "#ff0000", ForeColor: "#ffffff"},
				{ColumnID: 1, Operator: groupstatus.OpGreater, Value: 50, BackColor: "#ffcc00"},
			}},
		{ColumnID: 2, Name: "Target", SourceType: groupstatus.SourceParameter, DataType: groupstatus.DataTypeNumeric, Position: 1},
		{ColumnID: 3, Name: "Delta", SourceType: groupstatus.SourceFormula, DataType: groupstatus.DataTypeNumeric, Position: 2,
			Formula: "[Rate] - [Target]",
			ConditionalFormats: []groupstatus.ConditionalFormat{
				{ColumnID: 3, Operator: groupstatus.OpLess, Value: 0, BackColor: "#0000ff"},
			}},
	}
}

func formatterRow(columns []groupstatus.ColumnDescriptor, rate, target string) *groupstatus.Row {
	row := groupstatus.NewRow(columns, map[string]string{"Well": "WELL-01"})
	row.Columns[0].Value = rate
	row.Columns[1].Value = target
	return row
}

func TestApplyFormattingFirstRuleWins(t *testing.T) {
	registry := NewFormatterRegistry(nil)
	columns := formatterColumns()
	row := formatterRow(columns, "150", "100")

	registry.ApplyFormatting(columns, []*groupstatus.Row{row})
	if row.Columns[0].BackColor != "#ff0000" || row.Columns[0].ForeColor != "#ffffff" {
		t.Fatalf("expected first rule colors, got %q on %q", row.Columns[0].ForeColor, row.Columns[0].BackColor)
	}
}

func TestApplyFormattingCalculatesBeforeFormatting(t *testing.T) {
	registry := NewFormatterRegistry(nil)
	columns := formatterColumns()
	row := formatterRow(columns, "40", "100")

	registry.ApplyFormatting(columns, []*groupstatus.Row{row})
	if row.Columns[2].Value != "-60" {
		t.Fatalf("expected formula value -60, got %q", row.Columns[2].Value)
	}
	// the formula result itself drives the conditional rule
	if row.Columns[2].BackColor != "#0000ff" {
		t.Fatalf("expected negative-delta color, got %q", row.Columns[2].BackColor)
	}
}

func TestApplyFormattingFormulaFailureLeavesCellEmpty(t *testing.T) {
	registry := NewFormatterRegistry(nil)
	columns := formatterColumns()
	row := formatterRow(columns, "not numeric", "100")

	registry.ApplyFormatting(columns, []*groupstatus.Row{row})
	if row.Columns[2].Value != "" {
		t.Fatalf("expected empty cell on formula failure, got %q", row.Columns[2].Value)
	}
}

type stubFormatter struct {
	calculated int
	formatted  int
}

func (s *stubFormatter) Calculate(col groupstatus.ColumnDescriptor, row *groupstatus.Row, ctx *FormatContext) {
	s.calculated++
}

func (s *stubFormatter) Format(col groupstatus.ColumnDescriptor, cell *groupstatus.Cell) {
	s.formatted++
}

func TestRegistrySelectsBySourceAndName(t *testing.T) {
	registry := NewFormatterRegistry(nil)
	stub := &stubFormatter{}
	registry.Register(groupstatus.SourceFormula, "delta", stub)

	columns := formatterColumns()
	row := formatterRow(columns, "150", "100")
	registry.ApplyFormatting(columns, []*groupstatus.Row{row})

	if stub.calculated != 1 || stub.formatted != 1 {
		t.Fatalf("expected stub to run once per phase, got calc=%d fmt=%d", stub.calculated, stub.formatted)
	}
	// the rate column still uses the default formatter
	if row.Columns[0].BackColor != "#ff0000" {
		t.Fatal("default fallback must format unregistered columns")
	}
}
