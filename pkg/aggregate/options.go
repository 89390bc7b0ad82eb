package aggregate

// CountMode selects what the count kernel tallies.
type CountMode int

const (
	CountAll CountMode = iota
	CountOnlyValid
	CountOnlyNull
)

// Options is the shared options record every numeric kernel reads, plus
// the fields specific to count and t-digest. One Options value is bound
// per aggregate spec at construction time.
type Options struct {
	SkipNulls bool
	MinCount  int
	Ddof      int

	Mode CountMode

	Quantiles  []float64
	Delta      int
	BufferSize int
}

func DefaultOptions() Options {
	return Options{
		SkipNulls: true,
		MinCount:  1,
		Mode:      CountAll,
		Delta:     100,
		BufferSize: 500,
	}
}

// numericPolicy folds the skip_nulls/min_count rule shared by sum, product,
// mean, min_max, any, and all into one place instead of repeating the
// branch per kernel.
func numericPolicy(validCount, nullCount int, opts Options) (isNull bool) {
	if nullCount > 0 && !opts.SkipNulls {
		return true
	}
	if validCount < opts.MinCount {
		return true
	}
	return false
}
