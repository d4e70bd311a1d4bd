package types

// RawTable is an uploaded table before any interpretation of its values.
type RawTable struct {
	// Columns are the header names in file order. Names may repeat before normalization.
	Columns []string
	// Records hold one string cell per column. Every record has len(Columns) cells.
	Records [][]string
}

// Len returns the number of records.
func (t RawTable) Len() int {
	return len(t.Records)
}

// ColumnIndex returns the position of the first column with the given name, or -1.
func (t RawTable) ColumnIndex(name string) int {
	for i, column := range t.Columns {
		if column == name {
			return i
		}
	}

	return -1
}

// WithColumns returns a copy of the table with its header replaced.
// The records are shared; callers must not mutate them.
func (t RawTable) WithColumns(columns []string) RawTable {
	header := make([]string, len(columns))
	copy(header, columns)

	return RawTable{
		Columns: header,
		Records: t.Records,
	}
}
