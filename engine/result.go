package engine

// RowSet holds all rows of a read, already rendered to strings.
type RowSet struct {
	Columns []string
	Rows    [][]string
}

// ExecResult holds the affected-row outcome of a write.
type ExecResult struct {
	Affected int64
}
