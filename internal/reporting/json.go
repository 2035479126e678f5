package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/caselens/rfescope/internal/casefile"
)

func WriteJSON(outDir string, a *casefile.AssessmentResult) (string, error) {
	path := filepath.Join(outDir, a.ID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return "", err
	}
	return path, nil
}
