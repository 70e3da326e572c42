package domain

import "time"

const (
	AdvanceBookingWindow = 24 * time.Hour
	MaxStayNights        = 30
	CancellationCutoff   = 48 * time.Hour
)

const DateLayout = "2006-01-02"

// DateRange is a half-open interval of nights [CheckIn, CheckOut).
// Both bounds are civil dates held as UTC midnight.
type DateRange struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewDateRange validates a range requested at now: check-in must be at least
// 24 hours away and the stay must not exceed 30 nights.
func NewDateRange(checkIn, checkOut, now time.Time) (DateRange, error) {
	dr, err := RestoreDateRange(checkIn, checkOut)
	if err != nil {
		return DateRange{}, err
	}
	if dr.checkIn.Before(now.Add(AdvanceBookingWindow)) {
		return DateRange{}, Validationf("bookings must be made at least 24 hours in advance")
	}
	if dr.Nights() > MaxStayNights {
		return DateRange{}, Validationf("maximum stay is %d nights", MaxStayNights)
	}
	return dr, nil
}

// RestoreDateRange rebuilds a stored range. Only ordering is checked.
func RestoreDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	in, out := civilDate(checkIn), civilDate(checkOut)
	if !in.Before(out) {
		return DateRange{}, Validationf("check-in date must be before check-out date")
	}
	return DateRange{checkIn: in, checkOut: out}, nil
}

// ParseDateRange reads YYYY-MM-DD bounds and validates them like NewDateRange.
func ParseDateRange(checkIn, checkOut string, now time.Time) (DateRange, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return DateRange{}, Validationf("invalid check-in date %q", checkIn)
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return DateRange{}, Validationf("invalid check-out date %q", checkOut)
	}
	return NewDateRange(in, out, now)
}

func (r DateRange) CheckIn() time.Time  { return r.checkIn }
func (r DateRange) CheckOut() time.Time { return r.checkOut }

func (r DateRange) Nights() int {
	return int(r.checkOut.Sub(r.checkIn).Hours() / 24)
}

// Overlaps reports whether the two ranges share a night. A check-out on the
// same day as the other's check-in is not an overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.checkIn.Before(other.checkOut) && other.checkIn.Before(r.checkOut)
}

// Contains reports whether the calendar day of t is one of the booked nights.
func (r DateRange) Contains(t time.Time) bool {
	day := civilDate(t)
	return !day.Before(r.checkIn) && day.Before(r.checkOut)
}

func (r DateRange) IsZero() bool {
	return r.checkIn.IsZero() && r.checkOut.IsZero()
}

func (r DateRange) String() string {
	return r.checkIn.Format(DateLayout) + "/" + r.checkOut.Format(DateLayout)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
