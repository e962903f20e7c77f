package importer_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cadence/internal/config"
	"github.com/tartampluch/go-cadence/internal/engine"
	"github.com/tartampluch/go-cadence/internal/importer"
)

const sampleVCards = `BEGIN:VCARD
VERSION:3.0
FN:Ada Lovelace
BDAY:1990-10-25
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:Blaise Pascal
BDAY:--06-19
END:VCARD
BEGIN:VCARD
VERSION:3.0
N:Carroll;Lewis;;;
END:VCARD
`

func writeVCF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts"+config.ExtVCF)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRead_LocalFile(t *testing.T) {
	im := &importer.Importer{}

	batch, err := im.Read(context.Background(), importer.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: writeVCF(t, sampleVCards),
		Cadence:   engine.CadenceMonthly,
	})
	require.NoError(t, err)
	require.Len(t, batch, 3)

	assert.Equal(t, "Ada Lovelace", batch[0].Name)
	assert.Equal(t, engine.CadenceMonthly, batch[0].Cadence)
	require.NotNil(t, batch[0].Birthday)
	assert.Equal(t, "1990-10-25", batch[0].Birthday.String())
	assert.True(t, batch[0].Birthday.YearKnown)

	require.NotNil(t, batch[1].Birthday)
	assert.False(t, batch[1].Birthday.YearKnown, "truncated BDAY has no year")
	assert.Equal(t, "06-19", batch[1].Birthday.String())

	// N fallback when FN is absent; no BDAY is fine.
	assert.Equal(t, "Carroll;Lewis;;;", batch[2].Name)
	assert.Nil(t, batch[2].Birthday)
}

func TestRead_StableIDs(t *testing.T) {
	im := &importer.Importer{}
	cfg := importer.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: writeVCF(t, sampleVCards),
		Cadence:   engine.CadenceWeekly,
	}

	first, err := im.Read(context.Background(), cfg)
	require.NoError(t, err)
	second, err := im.Read(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "re-import must not change ids")
	}
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestRead_InvalidBirthdaySkipsDateOnly(t *testing.T) {
	cards := `BEGIN:VCARD
VERSION:3.0
FN:Glitch
BDAY:not-a-date
END:VCARD
`
	im := &importer.Importer{}
	batch, err := im.Read(context.Background(), importer.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: writeVCF(t, cards),
		Cadence:   engine.CadenceWeekly,
	})
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Nil(t, batch[0].Birthday, "bad date drops the birthday, keeps the contact")
}

func TestRead_MissingLocalPath(t *testing.T) {
	im := &importer.Importer{}

	_, err := im.Read(context.Background(), importer.SourceConfig{Mode: config.SourceModeLocal})
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrLocalPathEmpty)
}

func TestRead_UnsupportedMode(t *testing.T) {
	im := &importer.Importer{}

	_, err := im.Read(context.Background(), importer.SourceConfig{Mode: "ldap"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrModeUnsupport)
}

func TestRead_WebRequiresFetcher(t *testing.T) {
	im := &importer.Importer{}

	_, err := im.Read(context.Background(), importer.SourceConfig{
		Mode:   config.SourceModeWeb,
		WebURL: "https://dav.example.com/contacts",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrFetcherMissing)
}

type stubFetcher struct{ payload string }

func (s stubFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.payload)), nil
}

func TestRead_WebSource(t *testing.T) {
	im := &importer.Importer{Fetcher: stubFetcher{payload: sampleVCards}}

	batch, err := im.Read(context.Background(), importer.SourceConfig{
		Mode:    config.SourceModeWeb,
		WebURL:  "https://dav.example.com/contacts",
		Cadence: engine.CadenceWeekly,
	})
	require.NoError(t, err)
	assert.Len(t, batch, 3)
}

func TestRead_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := &importer.Importer{}
	_, err := im.Read(ctx, importer.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: writeVCF(t, sampleVCards),
	})
	assert.ErrorIs(t, err, context.Canceled)
}
