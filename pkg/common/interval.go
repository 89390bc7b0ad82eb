package common

// Interval is a calendar interval (months/days/micros, Arrow's
// MonthDayNano layout collapsed to micros since this module never needs
// nanosecond calendar precision), carried over from the teacher's
// common.Interval with the SQL-literal Unit/Year fields dropped — nothing
// here parses interval literals, only groups and hashes them.
type Interval struct {
	Months int32
	Days   int32
	Micros int64
}

func (i Interval) Equal(o Interval) bool {
	return i.Months == o.Months && i.Days == o.Days && i.Micros == o.Micros
}
