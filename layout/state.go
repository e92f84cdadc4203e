package layout

import "fmt"

// Phase is the position of the engine in its article cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFilling
	PhaseColumnFull
	PhasePageFull
	PhaseDone
)

var phaseNames = [...]string{
	PhaseIdle:       "idle",
	PhaseFilling:    "filling",
	PhaseColumnFull: "column-full",
	PhasePageFull:   "page-full",
	PhaseDone:       "done",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// State is everything the engine carries between words, columns and articles.
type State struct {
	Phase   Phase  `json:"phase"`
	Article string `json:"article"`
	Last    bool   `json:"last"`
	// Page counts pages of the current article from 1.
	Page      int  `json:"page"`
	Column    int  `json:"column"`
	FirstPage bool `json:"firstPage"`
	Reused    bool `json:"reused"`
	PageOpen  bool `json:"pageOpen"`
	Slot      Slot `json:"slot"`

	// Text is the column buffer, Line its in-progress last line.
	Text      string  `json:"text"`
	Line      string  `json:"line"`
	LineWidth float64 `json:"lineWidth"`
	// Widest is the width of the widest completed line in Text.
	Widest float64 `json:"widest"`

	ProbeHeight    float64 `json:"probeHeight"`
	ProbeValid     bool    `json:"probeValid"`
	ParagraphStart bool    `json:"paragraphStart"`
}

// NewState returns the state before the first article: column 1, no page open.
func NewState() State {
	return State{Phase: PhaseIdle, Column: 1}
}

func (s *State) resetBuffer() {
	s.Text = ""
	s.Line = ""
	s.LineWidth = 0
	s.Widest = 0
}

// breakLine closes the in-progress line.
func (s *State) breakLine() {
	s.Text += "\n"
	s.Widest = max(s.Widest, s.LineWidth)
	s.Line = ""
	s.LineWidth = 0
}
