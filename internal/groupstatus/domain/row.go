package groupstatus

import "strings"

// CellValueType tags the logical type of a merged cell value.
type CellValueType int

const (
	CellValueString CellValueType = iota
	CellValueInt
	CellValueFloat
)

// Cell is one value slot in a row, bound to a view column.
type Cell struct {
	ColumnID  int
	Value     string
	BackColor string
	ForeColor string
	Align     string
	Decimals  int
	ValueType CellValueType
}

// Row is the per-asset output of the merge phase. Columns always carries
// exactly one cell per view column, in position order, whether or not any
// source produced data for the asset.
type Row struct {
	CommonFields map[string]string
	Columns      []Cell
}

// NewRow builds an empty row for the descriptor set. Cell order follows
// descriptor positions; values start empty.
func NewRow(columns []ColumnDescriptor, common map[string]string) *Row {
	row := &Row{
		CommonFields: common,
		Columns:      make([]Cell, 0, len(columns)),
	}
	for _, col := range columns {
		row.Columns = append(row.Columns, Cell{
			ColumnID: col.ColumnID,
			Value:    "",
			Align:    col.Align,
			Decimals: col.Decimals,
		})
	}
	return row
}

// NodeID returns the node identifier backing the row, taken from the
// authoritative "Well" common field.
func (r *Row) NodeID() string {
	if r == nil {
		return ""
	}
	return r.CommonFields["Well"]
}

// Cell returns the cell bound to the column id, or nil when absent.
func (r *Row) Cell(columnID int) *Cell {
	if r == nil {
		return nil
	}
	for i := range r.Columns {
		if r.Columns[i].ColumnID == columnID {
			return &r.Columns[i]
		}
	}
	return nil
}

// CommonField performs a case-insensitive lookup in the common record.
func (r *Row) CommonField(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	if value, ok := r.CommonFields[name]; ok {
		return value, true
	}
	for key, value := range r.CommonFields {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}
