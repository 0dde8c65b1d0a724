package metrics

// Shared histogram bucket sets so dashboards line up across components.
var (
	// DurationBuckets covers decode and paint latencies (seconds).
	DurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

	// SizeBuckets covers packet payload sizes (bytes).
	SizeBuckets = []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}

	// CountBuckets covers small count distributions such as queue depths.
	CountBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250}
)
