package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/influencer-cli/internal/model"
)

// exportColumns defines the CSV output column order. Every exported
// profile shares this field set, which the normalizer guarantees.
var exportColumns = []string{
	"topic",
	"username",
	"profile_url",
	"followers",
	"likes",
	"following",
	"friends",
	"video_count",
	"bio",
	"email",
	"has_email",
}

// Exporter serializes profiles to disk as CSV or JSON.
type Exporter struct {
	outputDir string
}

// NewExporter creates an Exporter writing under outputDir.
func NewExporter(outputDir string) *Exporter {
	return &Exporter{outputDir: outputDir}
}

// Export writes profiles to "<baseName>.<format>" under the output
// directory and returns the written path. An empty profile list writes
// nothing and is a warning, not an error. Unsupported formats are an
// error and nothing is written.
func (e *Exporter) Export(profiles []model.Profile, baseName, format string) (string, error) {
	format = strings.ToLower(format)

	if len(profiles) == 0 {
		zap.L().Warn("export: no profiles to write", zap.String("base", baseName))
		return "", nil
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create output dir %s", e.outputDir)
	}

	path := filepath.Join(e.outputDir, baseName+"."+format)
	switch format {
	case "csv":
		if err := writeCSV(profiles, path); err != nil {
			return "", err
		}
	case "json":
		if err := writeJSON(profiles, path); err != nil {
			return "", err
		}
	default:
		return "", eris.Errorf("export: unsupported format %q (want csv or json)", format)
	}

	zap.L().Info("export: wrote file",
		zap.String("path", path),
		zap.Int("profiles", len(profiles)),
	)
	return path, nil
}

func writeCSV(profiles []model.Profile, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(exportColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, p := range profiles {
		row := []string{
			p.Topic,
			p.Username,
			p.ProfileURL,
			strconv.Itoa(p.Followers),
			strconv.Itoa(p.Likes),
			strconv.Itoa(p.Following),
			strconv.Itoa(p.Friends),
			strconv.Itoa(p.VideoCount),
			p.Bio,
			p.Email,
			strconv.FormatBool(p.HasEmail),
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write row for %s", p.Username)
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "export: flush csv")
}

func writeJSON(profiles []model.Profile, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	// Keep non-ASCII and &/<, > literal in bios.
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(profiles), "export: encode json")
}
