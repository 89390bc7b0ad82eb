package aggregate

// KernelFactory builds a fresh Kernel for one aggregate spec. Most kernels
// are stateless and return a shared value; min_max/any_all/variance carry
// the projection they were registered under.
type KernelFactory func() Kernel

var kernelRegistry = map[string]KernelFactory{
	"hash_count":               func() Kernel { return CountKernel{} },
	"hash_sum":                 func() Kernel { return SumKernel{} },
	"hash_product":             func() Kernel { return ProductKernel{} },
	"hash_mean":                func() Kernel { return MeanKernel{} },
	"hash_min_max":             func() Kernel { return MinMaxKernel{Project: projectBoth} },
	"hash_min":                 func() Kernel { return MinMaxKernel{Project: projectMin} },
	"hash_max":                 func() Kernel { return MinMaxKernel{Project: projectMax} },
	"hash_any":                 func() Kernel { return AnyAllKernel{Project: projectAny} },
	"hash_all":                 func() Kernel { return AnyAllKernel{Project: projectAll} },
	"hash_variance":            func() Kernel { return VarianceKernel{Project: projectVariance} },
	"hash_stddev":              func() Kernel { return VarianceKernel{Project: projectStddev} },
	"hash_tdigest":             func() Kernel { return TDigestKernel{} },
	"hash_approximate_median":  func() Kernel { return ApproxMedianKernel{} },
	"hash_count_distinct":      func() Kernel { return CountDistinctKernel{} },
	"hash_distinct":            func() Kernel { return DistinctKernel{} },
	"hash_list":                func() Kernel { return ListKernel{} },
	"hash_one":                 func() Kernel { return OneKernel{} },
}

// LookupKernel resolves a hash_* function name to its Kernel
// implementation. Names without the hash_ prefix are rejected:
// aggregate functions in this family are only ever meant to run inside
// the grouped or scalar aggregate node, never invoked directly.
func LookupKernel(name string) (Kernel, error) {
	factory, ok := kernelRegistry[name]
	if !ok {
		if len(name) < 5 || name[:5] != "hash_" {
			return nil, NotImplemented("Direct execution of HASH_AGGREGATE functions outside an aggregate node: %q", name)
		}
		return nil, NotImplemented("unknown hash aggregate function %q", name)
	}
	return factory(), nil
}

