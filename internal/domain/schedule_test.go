package domain

import (
	"testing"
	"time"
)

func TestDayPairs_CanonicalOrder(t *testing.T) {
	t.Parallel()

	want := []DayPairKey{
		DayPairMonWed, DayPairTueThu, DayPairWedFri,
		DayPairMonThu, DayPairTueFri, DayPairMonFri,
	}

	pairs := DayPairs()
	if len(pairs) != len(want) {
		t.Fatalf("expected %d day pairs, got %d", len(want), len(pairs))
	}
	for i, p := range pairs {
		if p.Key != want[i] {
			t.Errorf("pair %d: got %s, want %s", i, p.Key, want[i])
		}
	}
}

func TestDayPairByKey(t *testing.T) {
	t.Parallel()

	p, ok := DayPairByKey(DayPairMonWed)
	if !ok {
		t.Fatal("MON_WED not found")
	}
	if p.Days[0] != time.Monday || p.Days[1] != time.Wednesday {
		t.Errorf("MON_WED days: got %v", p.Days)
	}
	if p.Label != "Monday & Wednesday" {
		t.Errorf("MON_WED label: got %q", p.Label)
	}

	if _, ok := DayPairByKey("SAT_SUN"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestDayPair_Contains(t *testing.T) {
	t.Parallel()

	p, _ := DayPairByKey(DayPairTueFri)
	if !p.Contains(time.Tuesday) || !p.Contains(time.Friday) {
		t.Error("TUE_FRI should contain Tuesday and Friday")
	}
	if p.Contains(time.Wednesday) {
		t.Error("TUE_FRI should not contain Wednesday")
	}
}

func TestTimeSlots_Table(t *testing.T) {
	t.Parallel()

	if len(timeSlots) != TimeSlotCount {
		t.Fatalf("TimeSlotCount is %d but the slot table has %d entries", TimeSlotCount, len(timeSlots))
	}
	if TimeSlotCount != 10 {
		t.Fatalf("expected 10 time slots, got %d", TimeSlotCount)
	}
	if GridCellCount != len(dayPairs)*len(timeSlots) {
		t.Fatalf("GridCellCount is %d but the grid has %d cells", GridCellCount, len(dayPairs)*len(timeSlots))
	}
	if GridCellCount != 60 {
		t.Fatalf("expected 60 grid cells, got %d", GridCellCount)
	}

	// Index 2 must be 09:00 — manual triggers and docs rely on it.
	hour, ok := TimeSlotHour(2)
	if !ok || hour != "09:00" {
		t.Errorf("slot 2: got %q, ok=%v", hour, ok)
	}

	if _, ok := TimeSlotHour(10); ok {
		t.Error("slot 10 should be out of range")
	}
	if _, ok := TimeSlotHour(-1); ok {
		t.Error("slot -1 should be out of range")
	}
}

func TestTimeSlotByHour(t *testing.T) {
	t.Parallel()

	inSlots := map[int]int{7: 0, 8: 1, 9: 2, 10: 3, 11: 4, 13: 5, 14: 6, 15: 7, 16: 8, 17: 9}

	for hour := 0; hour < 24; hour++ {
		idx, ok := TimeSlotByHour(hour)
		wantIdx, wantOK := inSlots[hour]
		if ok != wantOK {
			t.Errorf("hour %d: ok=%v, want %v", hour, ok, wantOK)
			continue
		}
		if ok && idx != wantIdx {
			t.Errorf("hour %d: idx=%d, want %d", hour, idx, wantIdx)
		}
	}
}

func TestClient_DueOn(t *testing.T) {
	t.Parallel()

	pair := DayPairMonWed

	tests := []struct {
		name      string
		frequency int
		weekday   time.Weekday
		want      bool
	}{
		{"twice weekly, first day", 2, time.Monday, true},
		{"twice weekly, second day", 2, time.Wednesday, true},
		{"twice weekly, off day", 2, time.Friday, false},
		{"once weekly, first day", 1, time.Monday, true},
		{"once weekly, second day", 1, time.Wednesday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &Client{AutoScheduleFrequency: tt.frequency, ScheduleDayPair: &pair}
			if got := c.DueOn(tt.weekday); got != tt.want {
				t.Errorf("DueOn(%v) = %v, want %v", tt.weekday, got, tt.want)
			}
		})
	}

	unassigned := &Client{AutoScheduleFrequency: 2}
	if unassigned.DueOn(time.Monday) {
		t.Error("client without a day pair is never due")
	}
}

func TestLocation_DisplayName(t *testing.T) {
	t.Parallel()

	hood := "Capitol Hill"
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{"city and state", Location{City: "Denver", State: "CO"}, "Denver, CO"},
		{"with neighborhood", Location{City: "Denver", State: "CO", Neighborhood: &hood}, "Capitol Hill, Denver, CO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.loc.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
