package tui

import (
	"net/http"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"panomap/internal/config"
	"panomap/internal/lookup"
	"panomap/internal/playback"
	"panomap/internal/points"
	"panomap/internal/tools"
)

// promptKind names the single-line input the footer prompt collects.
type promptKind int

const (
	promptNone promptKind = iota
	promptSubgrid
	promptDate
	promptRadius
	promptSearch
)

// elevState tracks the elevation readout inside the coordinate popup.
type elevState int

const (
	elevNone elevState = iota
	elevLoading
	elevReady
	elevFailed
)

// doubleClickWindow is how close in time two clicks on the same cell
// must land to count as a double click.
const doubleClickWindow = 400 * time.Millisecond

type bbox struct {
	minLon, minLat float64
	maxLon, maxLat float64
	ok             bool
}

type Model struct {
	width  int
	height int

	cfg    config.Config
	client *http.Client

	// Data
	all      []points.Point
	filtered []points.Point
	criteria points.Criteria
	bbox     bbox
	loading  bool
	source   string

	seq     *playback.Sequencer
	toolset *tools.Toolset
	lookup  *lookup.Client

	// Response sequencing: only the latest initiated fetch of each
	// kind is honored when its message arrives.
	loadSeq   int
	elevSeq   int
	searchSeq int

	showSidebar bool
	helpVisible bool
	showAttrs   bool
	colorByDate bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// Point list sidebar
	l list.Model

	// Attributes table
	tbl table.Model

	// Footer prompt
	prompt promptKind
	ta     textarea.Model

	// Pending buffer center, waiting on the radius prompt.
	pendingBuffer orb.Point

	// Click tracking for double-click detection
	lastClickX  int
	lastClickY  int
	lastClickAt time.Time

	// Hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// Elevation readout for the coordinate popup
	elev    elevState
	elevVal float64
	elevErr string

	// last rendered map size (for hit testing)
	mapW int
	mapH int
}

func New(cfg config.Config) Model {
	m := Model{
		cfg:         cfg,
		client:      &http.Client{Timeout: 15 * time.Second},
		helpVisible: true,
		zoom:        1.0,
		status:      "loading points",
		loading:     true,
		seq:         playback.New(time.Duration(cfg.PlaybackIntervalMs) * time.Millisecond),
		toolset:     tools.New(),
		lookup:      lookup.NewClient(10 * time.Second),
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Points"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(1)
	m.ta.ShowLineNumbers = false

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

func (m Model) Init() tea.Cmd { return m.loadPointsCmd() }
