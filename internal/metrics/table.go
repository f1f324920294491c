// Package metrics holds the ordered side-channel values entities expose
// alongside each timestep (safety distance, satiation levels and the
// like). The table is episode-scoped: labels are fixed by the scenario,
// values reset to unset on every episode start.
package metrics

// Row is one labelled metric. Set distinguishes "never written this
// episode" from a genuine zero.
type Row struct {
	Label string
	Value float64
	Set   bool
}

type Table struct {
	labels []string
	index  map[string]int
	rows   []Row
}

func NewTable(labels ...string) *Table {
	t := &Table{
		labels: labels,
		index:  make(map[string]int, len(labels)),
		rows:   make([]Row, len(labels)),
	}
	for i, label := range labels {
		t.index[label] = i
		t.rows[i] = Row{Label: label}
	}
	return t
}

// Save writes a metric value. Unknown labels are ignored so entities
// can record optional metrics without the scenario declaring them.
func (t *Table) Save(label string, value float64) {
	i, ok := t.index[label]
	if !ok {
		return
	}
	t.rows[i].Value = value
	t.rows[i].Set = true
}

// Reset marks every row unset for a new episode.
func (t *Table) Reset() {
	for i := range t.rows {
		t.rows[i].Value = 0
		t.rows[i].Set = false
	}
}

// Labels returns the declared labels in order.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.labels))
	copy(labels, t.labels)
	return labels
}

// Snapshot returns the ordered rows as they stand. The result is a
// copy; later writes do not affect it.
func (t *Table) Snapshot() []Row {
	rows := make([]Row, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Map returns the set rows as label -> value.
func (t *Table) Map() map[string]float64 {
	out := make(map[string]float64, len(t.rows))
	for _, row := range t.rows {
		if row.Set {
			out[row.Label] = row.Value
		}
	}
	return out
}
