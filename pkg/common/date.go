package common

import "time"

// Date32 is days since the Unix epoch, the fixed-width integer
// representation the Key Encoder and the min/max kernel compare directly.
// The teacher's calendar Date{Year,Month,Day} struct isn't needed here:
// the grouper and kernels only ever compare and hash dates, never do
// calendar arithmetic on them.
type Date32 int32

func Date32FromTime(t time.Time) Date32 {
	days := t.UTC().Truncate(24 * time.Hour).Unix() / 86400
	return Date32(days)
}

func (d Date32) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// Timestamp is ticks since the Unix epoch at the unit recorded on the
// column's LType.Scale (nanoseconds per tick).
type Timestamp int64

// Duration is an elapsed span in ticks at the column's LType.Scale.
type Duration int64
