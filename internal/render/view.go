package render

import (
	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/chart"
)

// DefaultFrameHeight is the height of embedded HTML frames.
const DefaultFrameHeight = 600

// View is everything a surface needs to present one module.
type View struct {
	Module      ModuleInfo `json:"module"`
	Menu        []MenuItem `json:"menu,omitempty"`
	Sections    []Section  `json:"sections"`
	FrameHeight int        `json:"frame_height"`
}

// ModuleInfo identifies the rendered module.
type ModuleInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// MenuItem is one entry of the navigation menu.
type MenuItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active,omitempty"`
}

// Notice levels.
const (
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a non-blocking message scoped to one artifact.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Section is the rendering of one declared artifact.
type Section struct {
	Artifact string          `json:"artifact"`
	Kind     artifact.Kind   `json:"kind"`
	Path     string          `json:"path"`
	Status   artifact.Status `json:"status"`
	Notice   *Notice         `json:"notice,omitempty"`

	Table    *artifact.Table `json:"table,omitempty"`
	Filter   *Filter         `json:"filter,omitempty"`
	Bindings *Bindings       `json:"bindings,omitempty"`
	Charts   []*chart.Chart  `json:"charts,omitempty"`

	HTML string `json:"html,omitempty"`
	Text string `json:"text,omitempty"`
}

// Filter is a single-select category filter over a table column. An empty
// Selected means all rows are shown.
type Filter struct {
	Column   string   `json:"column"`
	Param    string   `json:"param"`
	Options  []string `json:"options"`
	Selected string   `json:"selected,omitempty"`
}

// Bindings holds the column pickers of an interactive map.
type Bindings struct {
	Lat   Picker `json:"lat"`
	Lon   Picker `json:"lon"`
	Color Picker `json:"color"`
}

// Picker chooses one column of a table. Optional pickers accept "".
type Picker struct {
	Param    string   `json:"param"`
	Options  []string `json:"options"`
	Selected string   `json:"selected,omitempty"`
	Optional bool     `json:"optional,omitempty"`
}
