package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Availability is a doctor's bookable window on a single date. Dates travel
// as "YYYY-MM-DD" and times as "HH:MM", the wire format the clients use.
type Availability struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// SlotDuration is the fixed appointment slot length.
const SlotDuration = 30 * time.Minute

// Slots is the answer to a slot query. Available is false when the doctor
// has no window on the date.
type Slots struct {
	Available bool     `json:"available"`
	TimeSlots []string `json:"timeSlots"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// expandSlots returns the 30-minute slot starts inside [start, end). A slot
// is emitted only when it begins strictly before the window's end.
func expandSlots(startTime, endTime string) ([]string, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return nil, err
	}

	step := int(SlotDuration.Minutes())
	var slots []string
	for m := start; m < end; m += step {
		slots = append(slots, formatClock(m))
	}
	return slots, nil
}

// overlaps reports whether two windows on the same date intersect. Touching
// endpoints do not count as overlap.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
