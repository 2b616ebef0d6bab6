package catalog

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files [][2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func feedArchive(t *testing.T) []byte {
	return buildZip(t, [][2]string{
		{"vendor-a.csv", "vendor_name,name,price\nVendor A,Rice,1.20\n"},
		{"__MACOSX/._vendor-a.csv", "junk"},
		{"nested/vendor-b.json", `[{"vendorName":"Vendor B","productName":"Rice","price":"0,99"}]`},
		{"README.md", "not a catalog"},
		{"old.zip", "PK"},
	})
}

func TestExpandArchive(t *testing.T) {
	entries, err := ExpandArchive(feedArchive(t), DefaultArchiveOptions())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "vendor-a.csv", entries[0].Name)
	assert.Equal(t, FormatCSV, entries[0].Format)
	assert.Equal(t, "vendor-b.json", entries[1].Name)
	assert.Equal(t, FormatJSON, entries[1].Format)
}

func TestExpandArchive_Limits(t *testing.T) {
	_, err := ExpandArchive(feedArchive(t), ArchiveOptions{MaxFiles: 1})
	assert.ErrorContains(t, err, "too many files")

	_, err = ExpandArchive(feedArchive(t), ArchiveOptions{MaxFileSize: 8})
	assert.ErrorContains(t, err, "exceeds maximum size")

	_, err = ExpandArchive([]byte("not a zip"), DefaultArchiveOptions())
	assert.Error(t, err)
}

func TestSanitizeEntryName(t *testing.T) {
	valid := map[string]string{
		"feed.csv":          "feed.csv",
		"exports/feed.csv":  "feed.csv",
		`exports\feed.xlsx`: "feed.xlsx",
		"a/./b/../feed.csv": "feed.csv",
	}
	for in, want := range valid {
		got, err := sanitizeEntryName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"../evil.csv", "/etc/feed.csv", `C:\feed.csv`, ".hidden.csv", "a/../../x.csv"} {
		_, err := sanitizeEntryName(in)
		assert.Error(t, err, in)
	}
}

func TestLoadListings_ZIP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.zip")
	require.NoError(t, os.WriteFile(path, feedArchive(t), 0o600))

	listings, err := LoadListings(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "Vendor A", listings[0].VendorName)
	require.NotNil(t, listings[0].Price)
	assert.InDelta(t, 1.2, *listings[0].Price, 1e-9)

	assert.Equal(t, "Vendor B", listings[1].VendorName)
	require.NotNil(t, listings[1].Price)
	assert.InDelta(t, 0.99, *listings[1].Price, 1e-9)
}
