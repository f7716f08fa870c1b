package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a tenant business whose content is generated and published on a
// recurring schedule.
//
// ScheduleDayPair and ScheduleTimeSlot are nil until auto-scheduling is
// enabled for the first time; once set they are sticky and never silently
// reassigned. RotationCycle counts completed full rotation cycles of the
// client's (question × location) cross product.
type Client struct {
	ID                    uuid.UUID
	Name                  string
	Status                ClientStatus
	SubscriptionStatus    SubscriptionStatus
	AutoScheduleEnabled   bool
	AutoScheduleFrequency int // posts per week: 1 or 2
	ScheduleDayPair       *DayPairKey
	ScheduleTimeSlot      *int
	RotationCycle         int
	LastAutoScheduledAt   *time.Time
	Timezone              string
	PreferredPublishTime  string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// HasSlot reports whether the client has a grid cell assignment.
func (c *Client) HasSlot() bool {
	return c.ScheduleDayPair != nil && c.ScheduleTimeSlot != nil
}

// DueOn reports whether the client's schedule fires on the given UTC weekday.
// Frequency-1 clients publish only on the first day of their pair.
func (c *Client) DueOn(weekday time.Weekday) bool {
	if c.ScheduleDayPair == nil {
		return false
	}
	pair, ok := DayPairByKey(*c.ScheduleDayPair)
	if !ok {
		return false
	}
	if c.AutoScheduleFrequency == 1 {
		return pair.FirstDay() == weekday
	}
	return pair.Contains(weekday)
}

// GridCellOccupancy is one row of the occupancy aggregate used by slot
// assignment: how many enabled clients share a (day pair, time slot) cell.
type GridCellOccupancy struct {
	DayPair  DayPairKey
	TimeSlot int
	Count    int
}

// CapacityReport summarizes grid utilization.
// Total = cells × per-cell capacity; Used = enabled clients holding a slot.
type CapacityReport struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Available int `json:"available"`
}
