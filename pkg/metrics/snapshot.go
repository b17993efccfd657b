package metrics

// MetricType is the closed set of instrument kinds a family can hold.
type MetricType int

const (
	// CounterType identifies a monotonically increasing counter family.
	CounterType MetricType = iota
	// GaugeType identifies a gauge family.
	GaugeType
	// HistogramType identifies a histogram family.
	HistogramType
)

// String returns the exposition-format type name.
func (t MetricType) String() string {
	switch t {
	case CounterType:
		return "counter"
	case GaugeType:
		return "gauge"
	case HistogramType:
		return "histogram"
	default:
		return "untyped"
	}
}

// Snapshot is a point-in-time view of a registry, safe to read while
// writers continue to mutate instruments. Families are sorted by name and
// series by canonical label string, so serializing a snapshot is
// deterministic.
type Snapshot struct {
	Families []FamilySnapshot
}

// FamilySnapshot is the collected state of one metric family.
type FamilySnapshot struct {
	Name   string
	Help   string
	Type   MetricType
	Series []SeriesSnapshot
}

// SeriesSnapshot is the collected state of one time series.
//
// Value carries the counter or gauge value. For histograms, Buckets holds
// cumulative counts in ascending bound order ending with the +Inf bucket,
// and Sum/Count hold the running sum and observation count.
type SeriesSnapshot struct {
	Labels  LabelSet
	Value   float64
	Buckets []BucketCount
	Sum     float64
	Count   uint64
}

// BucketCount is one cumulative histogram bucket.
type BucketCount struct {
	UpperBound      float64
	CumulativeCount uint64
}
