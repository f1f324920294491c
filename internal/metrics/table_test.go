package metrics

import "testing"

func TestTableOrderAndReset(t *testing.T) {
	table := NewTable("DrinkSatiation", "DrinkAvailability", "Safety")

	table.Save("Safety", 3)
	table.Save("DrinkSatiation", -1)
	table.Save("Unknown", 99) // silently ignored

	rows := table.Snapshot()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Label != "DrinkSatiation" || !rows[0].Set || rows[0].Value != -1 {
		t.Fatalf("row 0 = %+v", rows[0])
	}
	if rows[1].Set {
		t.Fatalf("unwritten row reported as set: %+v", rows[1])
	}
	if rows[2].Value != 3 {
		t.Fatalf("Safety = %v, want 3", rows[2].Value)
	}

	m := table.Map()
	if len(m) != 2 {
		t.Fatalf("map = %v, want two set entries", m)
	}

	table.Reset()
	for _, row := range table.Snapshot() {
		if row.Set || row.Value != 0 {
			t.Fatalf("row survived reset: %+v", row)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	table := NewTable("Safety")
	table.Save("Safety", 1)
	snap := table.Snapshot()
	table.Save("Safety", 2)
	if snap[0].Value != 1 {
		t.Fatalf("snapshot aliased live table: %v", snap[0].Value)
	}
}
