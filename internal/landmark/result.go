package landmark

// TableColumns names the columns of an ordinal table, in order.
var TableColumns = []string{"ordinal", "origin_x", "origin_y"}

// Row is one numbered landmark.
type Row struct {
	Ordinal int     `json:"ordinal"`
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
}

// Table lists numbered landmarks in ordinal order. An unusable image has an
// empty table with the same columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Result is everything handed to rendering and export for one image.
//
// Usable is the final answer: true only when the image was sequenced. Verdict
// is the cardinality gate alone (center and landmark counts), so an image can
// pass the gate and still end unusable, e.g. with fewer than MinAnchorBoxes
// anchors or bad geometry. Reason then carries the later failure.
type Result struct {
	Image      string         `json:"image,omitempty"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Usable     bool           `json:"usable"`
	Reason     string         `json:"reason,omitempty"`
	Verdict    Verdict        `json:"verdict"` // cardinality gate only
	Line       *ReferenceLine `json:"line,omitempty"`
	Sequencing *Sequencing    `json:"sequencing,omitempty"`
	Table      Table          `json:"table"`
	Detections DetectionSet   `json:"detections"`
	Err        error          `json:"-"`
}

// EmptyTable returns a table with the ordinal columns and no rows.
func EmptyTable() Table {
	cols := make([]string, len(TableColumns))
	copy(cols, TableColumns)
	return Table{Columns: cols, Rows: []Row{}}
}

// Assemble packages a sequenced image. It expects a usable verdict together
// with the line and sequencing built from the same set; anything less yields
// the unusable form with an empty table and no line.
func Assemble(verdict Verdict, line *ReferenceLine, seq *Sequencing, set DetectionSet) Result {
	res := Result{
		Verdict:    verdict,
		Reason:     verdict.Reason,
		Table:      EmptyTable(),
		Detections: set,
	}
	if !verdict.Usable || line == nil || seq == nil {
		return res
	}

	byID := make(map[int]OrientedBox, len(set.Landmarks))
	for _, b := range set.Landmarks {
		byID[b.ID] = b
	}

	rows := make([]Row, 0, len(seq.Order))
	for n, id := range seq.Order {
		b, ok := byID[id]
		if !ok {
			res.Reason = "sequencing references an unknown landmark"
			return res
		}
		rows = append(rows, Row{Ordinal: n + 1, OriginX: b.X, OriginY: b.Y})
	}

	res.Usable = true
	res.Line = line
	res.Sequencing = seq
	res.Table.Rows = rows
	return res
}

// Unusable builds the result for an image that could not be sequenced.
func Unusable(verdict Verdict, set DetectionSet, err error) Result {
	res := Assemble(verdict, nil, nil, set)
	res.Err = err
	if err != nil {
		res.Reason = err.Error()
	}
	return res
}
