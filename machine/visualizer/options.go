package visualizer

// Options configures the visualization output.
type Options struct {
	// ShowPolicy annotates state nodes with retry and timeout policy
	ShowPolicy bool

	// ShowFailovers renders failover jumps as labeled edges
	ShowFailovers bool

	// Direction controls diagram flow: "TD" (top-down) or "LR" (left-right)
	Direction string

	// HighlightPath highlights a specific state path through the diagram
	HighlightPath []string
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		ShowPolicy:    true,
		ShowFailovers: true,
		Direction:     "TD",
	}
}

// WithShowPolicy enables/disables policy annotations.
func (o Options) WithShowPolicy(show bool) Options {
	o.ShowPolicy = show

	return o
}

// WithShowFailovers enables/disables failover edges.
func (o Options) WithShowFailovers(show bool) Options {
	o.ShowFailovers = show

	return o
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithHighlightPath sets states to highlight.
func (o Options) WithHighlightPath(path []string) Options {
	o.HighlightPath = path

	return o
}
