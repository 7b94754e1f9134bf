package knowledge

// Well-known column names of a knowledge table.
const (
	ColumnName        = "Name"
	ColumnWebsite     = "Website"
	ColumnSocialMedia = "Social_Media"
)

// Header is the ordered column list of a table, shared by all its rows.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader builds a header. For duplicate names the first column wins lookups.
func NewHeader(names []string) *Header {
	h := &Header{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, name := range h.names {
		if _, exists := h.index[name]; !exists {
			h.index[name] = i
		}
	}
	return h
}

// Names returns a copy of the column names in file order.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.names...)
}

// Has reports whether the header contains column.
func (h *Header) Has(column string) bool {
	if h == nil {
		return false
	}
	_, ok := h.index[column]
	return ok
}

// Row is one record of a knowledge table. A row may hold fewer values than
// the header has columns; the trailing columns are then absent.
type Row struct {
	header *Header
	values []string
}

// NewRow creates a row. Values beyond the header's width are dropped.
func NewRow(header *Header, values []string) Row {
	width := min(len(values), len(header.names))
	return Row{
		header: header,
		values: append([]string(nil), values[:width]...),
	}
}

// Get returns the value of column and whether it is present.
func (r Row) Get(column string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i, ok := r.header.index[column]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Value returns the value of column, or "" when absent.
func (r Row) Value(column string) string {
	v, _ := r.Get(column)
	return v
}

// Set stores value in column. Unknown columns are ignored.
func (r *Row) Set(column, value string) {
	if r.header == nil {
		return
	}
	i, ok := r.header.index[column]
	if !ok {
		return
	}
	for len(r.values) <= i {
		r.values = append(r.values, "")
	}
	r.values[i] = value
}

// Fields calls fn for every present column in column order.
func (r Row) Fields(fn func(column, value string)) {
	for i, value := range r.values {
		fn(r.header.names[i], value)
	}
}

func (r Row) Name() string        { return r.Value(ColumnName) }
func (r Row) Website() string     { return r.Value(ColumnWebsite) }
func (r Row) SocialMedia() string { return r.Value(ColumnSocialMedia) }

// Table is a parsed knowledge table. Rows keep file order.
type Table struct {
	Header *Header
	Rows   []Row
}

// NewTable builds a table from a header and raw records.
func NewTable(columns []string, records [][]string) Table {
	header := NewHeader(columns)
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, NewRow(header, record))
	}
	return Table{Header: header, Rows: rows}
}
