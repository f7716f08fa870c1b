package domain

import "time"

// DayPairKey identifies one of the six fixed weekday pairs a client can
// publish on. The set is closed; new pairs require a code change.
type DayPairKey string

const (
	DayPairMonWed DayPairKey = "MON_WED"
	DayPairTueThu DayPairKey = "TUE_THU"
	DayPairWedFri DayPairKey = "WED_FRI"
	DayPairMonThu DayPairKey = "MON_THU"
	DayPairTueFri DayPairKey = "TUE_FRI"
	DayPairMonFri DayPairKey = "MON_FRI"
)

func (k DayPairKey) String() string { return string(k) }

func (k DayPairKey) IsValid() bool {
	_, ok := dayPairsByKey[k]
	return ok
}

// DayPair is a fixed pair of publication weekdays with a display label.
type DayPair struct {
	Key   DayPairKey
	Days  [2]time.Weekday
	Label string
}

// Contains reports whether d is one of the pair's two weekdays.
func (p DayPair) Contains(d time.Weekday) bool {
	return p.Days[0] == d || p.Days[1] == d
}

// FirstDay returns the pair's first weekday. Clients publishing once per
// week fire on this day only.
func (p DayPair) FirstDay() time.Weekday { return p.Days[0] }

// dayPairs is the canonical iteration order. Slot assignment tie-breaking
// depends on this order being stable.
var dayPairs = []DayPair{
	{Key: DayPairMonWed, Days: [2]time.Weekday{time.Monday, time.Wednesday}, Label: "Monday & Wednesday"},
	{Key: DayPairTueThu, Days: [2]time.Weekday{time.Tuesday, time.Thursday}, Label: "Tuesday & Thursday"},
	{Key: DayPairWedFri, Days: [2]time.Weekday{time.Wednesday, time.Friday}, Label: "Wednesday & Friday"},
	{Key: DayPairMonThu, Days: [2]time.Weekday{time.Monday, time.Thursday}, Label: "Monday & Thursday"},
	{Key: DayPairTueFri, Days: [2]time.Weekday{time.Tuesday, time.Friday}, Label: "Tuesday & Friday"},
	{Key: DayPairMonFri, Days: [2]time.Weekday{time.Monday, time.Friday}, Label: "Monday & Friday"},
}

var dayPairsByKey = func() map[DayPairKey]DayPair {
	m := make(map[DayPairKey]DayPair, len(dayPairs))
	for _, p := range dayPairs {
		m[p.Key] = p
	}
	return m
}()

// DayPairs returns all day pairs in canonical iteration order.
// The returned slice must not be mutated.
func DayPairs() []DayPair { return dayPairs }

// DayPairByKey returns the day pair for the given key.
func DayPairByKey(key DayPairKey) (DayPair, bool) {
	p, ok := dayPairsByKey[key]
	return p, ok
}

// timeSlots is the fixed ordered list of publication hours (UTC).
// Ten of twenty-four hours; noon is deliberately skipped.
var timeSlots = []string{
	"07:00", "08:00", "09:00", "10:00", "11:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

var slotIndexByHour = func() map[int]int {
	m := make(map[int]int, len(timeSlots))
	for i, s := range timeSlots {
		h := int(s[0]-'0')*10 + int(s[1]-'0')
		m[h] = i
	}
	return m
}()

// TimeSlotCount is the number of slots per day pair. Must match the
// timeSlots table above.
const TimeSlotCount = 10

// GridCellCount is the total number of (day pair, time slot) cells.
const GridCellCount = 6 * TimeSlotCount

// TimeSlots returns all slot hour strings in index order.
// The returned slice must not be mutated.
func TimeSlots() []string { return timeSlots }

// TimeSlotHour returns the "HH:00" string for a slot index.
func TimeSlotHour(idx int) (string, bool) {
	if idx < 0 || idx >= len(timeSlots) {
		return "", false
	}
	return timeSlots[idx], true
}

// TimeSlotByHour returns the slot index for a UTC hour (0..23).
// ok is false for hours outside the slot table — the expected case for
// most hourly ticks.
func TimeSlotByHour(hour int) (int, bool) {
	idx, ok := slotIndexByHour[hour]
	return idx, ok
}
