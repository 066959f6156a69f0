package snap

// Default thresholds, in canvas pixels.
const (
	DefaultSnapThreshold       = 8
	DefaultCanvasEdgeThreshold = 15
	DefaultGridSize            = 20
	DefaultMarginSize          = 20
)

// Options selects which guide families are active. The zero value disables
// every family, which makes [Compute] the identity; use [DefaultOptions] for
// the editor's behavior.
type Options struct {
	SnapThreshold       float64 `json:"snapThreshold" toml:"threshold"`
	CanvasEdgeThreshold float64 `json:"canvasEdgeThreshold" toml:"canvas_edge_threshold"`

	ShowCenterGuides       bool `json:"showCenterGuides" toml:"center"`
	ShowEdgeGuides         bool `json:"showEdgeGuides" toml:"edge"`
	ShowDistributionGuides bool `json:"showDistributionGuides" toml:"distribution"`
	ShowSpacingGuides      bool `json:"showSpacingGuides" toml:"spacing"`
	ShowGridGuides         bool `json:"showGridGuides" toml:"grid"`
	MarginGuides           bool `json:"marginGuides" toml:"margins"`
	CanvasEdgeSnap         bool `json:"canvasEdgeSnap" toml:"canvas_edge"`

	GridSize   float64 `json:"gridSize" toml:"grid_size"`
	MarginSize float64 `json:"marginSize" toml:"margin_size"`
}

// DefaultOptions returns the editor defaults: every family enabled, an 8px
// snap threshold, a 15px canvas-edge threshold and 20px grid and margins.
func DefaultOptions() Options {
	return Options{
		SnapThreshold:          DefaultSnapThreshold,
		CanvasEdgeThreshold:    DefaultCanvasEdgeThreshold,
		ShowCenterGuides:       true,
		ShowEdgeGuides:         true,
		ShowDistributionGuides: true,
		ShowSpacingGuides:      true,
		ShowGridGuides:         true,
		MarginGuides:           true,
		CanvasEdgeSnap:         true,
		GridSize:               DefaultGridSize,
		MarginSize:             DefaultMarginSize,
	}
}
