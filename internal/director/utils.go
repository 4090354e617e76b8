package director

import (
	"fmt"
	"path/filepath"
	"time"
)

// GenerateTimelinePath creates a timestamped schedule filename in dir
func GenerateTimelinePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("schedule_%s.yaml", timestamp))
}
