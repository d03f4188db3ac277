package station

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sidedock/pkg/bounds"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// DefaultGap is the gap between adjacent regions when none is configured.
const DefaultGap = 4

// Options configures a Station.
type Options struct {
	// ID names the station in logs, hooks and layout stores.
	ID string
	// Side is the window edge the station is docked to.
	Side tree.Side
	// Gap is the divider width in pixels.
	Gap int
	// KeepSizes selects the size-driven layout backed by persistent
	// records. Without it every divider is a plain ratio.
	KeepSizes bool
	// Policy bounds trailing cell dividers. Nil means bounds.Unconstrained.
	Policy bounds.Policy
	// SpanDuration is the length of the drag-preview opening animation.
	SpanDuration time.Duration
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// DefaultOptions returns options for a left-docked station that keeps
// sizes, with the default gap.
func DefaultOptions() Options {
	o := Options{Side: tree.Left, Gap: DefaultGap, KeepSizes: true}
	o.SetDefaults()
	return o
}

// SetDefaults fills the unset optional fields.
func (o *Options) SetDefaults() {
	if o.ID == "" {
		o.ID = "station"
	}
	if o.Gap < 0 {
		o.Gap = 0
	}
	if o.Policy == nil {
		o.Policy = bounds.Unconstrained
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}
