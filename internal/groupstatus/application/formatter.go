package application

import (
	"log"
	"strconv"
	"strings"

	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

// FormatContext gives formatters access to sibling columns in a row.
type FormatContext struct {
	columns   []groupstatus.ColumnDescriptor
	cellIndex map[int]int
	byName    map[string]int
}

// NewFormatContext indexes the column set for formatter lookups.
func NewFormatContext(columns []groupstatus.ColumnDescriptor) *FormatContext {
	ctx := &FormatContext{
		columns:   columns,
		cellIndex: make(map[int]int, len(columns)),
		byName:    make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		ctx.cellIndex[col.ColumnID] = i
		ctx.byName[NormalizeColumnName(col.Name)] = i
	}
	return ctx
}

// NumericValue resolves a sibling column's merged value as a float.
func (c *FormatContext) NumericValue(row *groupstatus.Row, name string) (float64, bool) {
	i, ok := c.byName[NormalizeColumnName(name)]
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(row.Columns[i].Value), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// CellFormatter computes derived values and applies conditional formats for
// one column. Calculate always runs before Format for a given row so
// formulas see fully merged raw values.
type CellFormatter interface {
	Calculate(col groupstatus.ColumnDescriptor, row *groupstatus.Row, ctx *FormatContext)
	Format(col groupstatus.ColumnDescriptor, cell *groupstatus.Cell)
}

// FormatterKey selects a formatter by source and normalized column name.
type FormatterKey struct {
	Source groupstatus.SourceType
	Name   string
}

// FormatterRegistry maps columns to formatters with a default fallback.
type FormatterRegistry struct {
	formatters map[FormatterKey]CellFormatter
	fallback   CellFormatter
}

// NewFormatterRegistry builds a registry with the default formatter as
// fallback.
func NewFormatterRegistry(logger *log.Logger) *FormatterRegistry {
	return &FormatterRegistry{
		formatters: make(map[FormatterKey]CellFormatter),
		fallback:   &defaultFormatter{logger: logger},
	}
}

// Register binds a formatter to a source and column name.
func (r *FormatterRegistry) Register(source groupstatus.SourceType, name string, formatter CellFormatter) {
	if formatter == nil {
		return
	}
	r.formatters[FormatterKey{Source: source, Name: NormalizeColumnName(name)}] = formatter
}

// For resolves the formatter for a column, falling back to the default.
func (r *FormatterRegistry) For(source groupstatus.SourceType, name string) CellFormatter {
	if formatter, ok := r.formatters[FormatterKey{Source: source, Name: NormalizeColumnName(name)}]; ok {
		return formatter
	}
	return r.fallback
}

// ApplyFormatting runs the calculate/format phases over merged rows. Per
// column, per row: calculate first, then the first matching conditional
// rule's colors.
func (r *FormatterRegistry) ApplyFormatting(columns []groupstatus.ColumnDescriptor, rows []*groupstatus.Row) {
	ctx := NewFormatContext(columns)
	for _, col := range columns {
		if !col.RequiresCalculation() && !col.HasConditionalFormats() {
			continue
		}
		formatter := r.For(col.SourceType, col.Name)
		for _, row := range rows {
			cell := &row.Columns[ctx.cellIndex[col.ColumnID]]
			if col.RequiresCalculation() {
				formatter.Calculate(col, row, ctx)
			}
			if col.HasConditionalFormats() {
				formatter.Format(col, cell)
			}
		}
	}
}

// defaultFormatter evaluates formula columns and applies first-match
// conditional coloring. Calculation failures log and leave the cell empty.
type defaultFormatter struct {
	logger *log.Logger
}

func (f *defaultFormatter) Calculate(col groupstatus.ColumnDescriptor, row *groupstatus.Row, ctx *FormatContext) {
	if col.SourceType != groupstatus.SourceFormula || col.Formula == "" {
		return
	}
	cell := &row.Columns[ctx.cellIndex[col.ColumnID]]
	value, err := groupstatus.EvaluateFormula(col.Formula, func(name string) (float64, bool) {
		return ctx.NumericValue(row, name)
	})
	if err != nil {
		if f.logger != nil {
			f.logger.Printf("group status: formula %q for node %s: %v", col.Name, row.NodeID(), err)
		}
		cell.Value = ""
		return
	}
	if col.Decimals > 0 {
		cell.Value = strconv.FormatFloat(value, 'f', col.Decimals, 64)
	} else {
		cell.Value = strconv.FormatFloat(value, 'f', -1, 64)
	}
	cell.ValueType = groupstatus.CellValueFloat
}

func (f *defaultFormatter) Format(col groupstatus.ColumnDescriptor, cell *groupstatus.Cell) {
	match := groupstatus.FirstMatch(col.ConditionalFormats, cell.Value)
	if match == nil {
		return
	}
	if match.BackColor != "" {
		cell.BackColor = match.BackColor
	}
	if match.ForeColor != "" {
		cell.ForeColor = match.ForeColor
	}
}
