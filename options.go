package gpucmd

// FlushMode selects the traversal order used by Flush.
type FlushMode int

const (
	// FlushPrecompute generates the geometry of every batch in a first pass
	// that makes no backend calls, then replays all records in a second
	// pass. Batch draw counts are known before any draw is issued.
	FlushPrecompute FlushMode = iota

	// FlushInterleaved generates each batch's geometry when the main pass
	// reaches it. It is not guaranteed to be equivalent to FlushPrecompute:
	// geometry is written after the pools have been unmapped.
	FlushInterleaved
)

// String returns the flush mode name.
func (m FlushMode) String() string {
	switch m {
	case FlushPrecompute:
		return "Precompute"
	case FlushInterleaved:
		return "Interleaved"
	default:
		return "Unknown"
	}
}

// TraceMarkerSource supplies debug trace markers. The recorder stamps each
// new record with the marker current at record time; the flush resolves it
// to a string and brackets the record's execution with it.
type TraceMarkerSource interface {
	CurrentMarker() (id int, ok bool)
	MarkerString(id int) string
}

// Option configures Commands during creation.
//
// Example:
//
//	cmds := gpucmd.New(pipelines, pool, target,
//	    gpucmd.WithFlushMode(gpucmd.FlushInterleaved),
//	    gpucmd.WithGeometryPools(vertexPool, indexPool))
type Option func(*options)

// options holds optional configuration for Commands.
type options struct {
	mode    FlushMode
	markers TraceMarkerSource
	pools   []GeometryPool
	metrics *Metrics
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{
		mode: FlushPrecompute,
	}
}

// WithFlushMode selects the flush traversal order.
func WithFlushMode(m FlushMode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithTraceMarkers enables trace marker bookkeeping.
func WithTraceMarkers(src TraceMarkerSource) Option {
	return func(o *options) {
		o.markers = src
	}
}

// WithGeometryPools registers vertex and index pools that are unmapped
// before every flush traversal. The PathDataPool is unmapped as well when
// it implements GeometryPool.
func WithGeometryPools(pools ...GeometryPool) Option {
	return func(o *options) {
		o.pools = append(o.pools, pools...)
	}
}

// WithMetrics reports recording and flush counters to m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
