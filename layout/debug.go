package layout

import (
	"encoding/json"
	"os"
)

// Trace is the debug dump of one run.
type Trace struct {
	Run      string   `json:"run"`
	Geometry Geometry `json:"geometry"`
	Fonts    FontSet  `json:"fonts"`
	Events   []Event  `json:"events"`
}

// WriteDebugJSON 将排版事件输出为 JSON，便于调试或可视化。
func WriteDebugJSON(tr *Trace, path string) error {
	if tr == nil {
		return nil
	}
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
