package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/influencer-cli/internal/model"
)

func sampleProfiles() []model.Profile {
	return []model.Profile{
		{
			Topic:      "art",
			Username:   "artmaster123",
			ProfileURL: "https://www.tiktok.com/@artmaster123",
			Followers:  250000,
			Likes:      3500000,
			Following:  120,
			Friends:    45,
			VideoCount: 87,
			Bio:        "Contact me at artmaster@example.com",
			Email:      "artmaster@example.com",
			HasEmail:   true,
		},
		{
			Topic:      "art",
			Username:   "sketchy",
			ProfileURL: "https://www.tiktok.com/@sketchy",
			Bio:        "commissions open, \"DM me\"",
		},
	}
}

func TestExport_CSV(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	path, err := e.Export(sampleProfiles(), "topic_art", "csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "topic_art.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportColumns, rows[0])
	assert.Equal(t, []string{
		"art", "artmaster123", "https://www.tiktok.com/@artmaster123",
		"250000", "3500000", "120", "45", "87",
		"Contact me at artmaster@example.com", "artmaster@example.com", "true",
	}, rows[1])
	assert.Equal(t, "commissions open, \"DM me\"", rows[2][8])
	assert.Equal(t, "false", rows[2][10])
}

func TestExport_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	want := sampleProfiles()
	path, err := e.Export(want, "topic_art", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []model.Profile
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want, got)
}

func TestExport_EmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	path, err := e.Export(nil, "topic_art", "csv")
	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	_, err := e.Export(sampleProfiles(), "topic_art", "xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	e := NewExporter(dir)

	path, err := e.Export(sampleProfiles(), "all_topics", "json")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"art", "art"},
		{"Oil Painting", "oil_painting"},
		{"café culture", "cafe_culture"},
		{"  spaced  out  ", "spaced_out"},
		{"C++ & Go!", "c_go"},
		{"数字", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}
