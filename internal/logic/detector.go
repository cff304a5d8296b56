package logic

// EdgeDetector turns polled samples of a single line into rising-edge events.
//
// Any change in the sampled value is recorded; only a change to 1 is
// reported. There is no minimum stable duration, so contact bounce on a
// mechanical button can produce more than one rising edge per press.
type EdgeDetector struct {
	previous int
}

// NewEdgeDetector creates a detector baselined on the line's initial value.
func NewEdgeDetector(initial int) *EdgeDetector {
	return &EdgeDetector{previous: initial}
}

// Process takes the next sample and reports whether it is a rising edge.
func (d *EdgeDetector) Process(v int) bool {
	if v == d.previous {
		return false
	}
	d.previous = v
	return v == 1
}

// Previous returns the last sampled value.
func (d *EdgeDetector) Previous() int {
	return d.previous
}
