package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将合成计划输出为 JSON，便于调试或可视化。
func WriteDebugJSON(plans []*Plan, path string) error {
	if len(plans) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(plans, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
