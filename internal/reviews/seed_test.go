package reviews_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DeafMist/review-radar/backend/internal/reviews"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	data := "Location,ReviewBody,ReviewId,Timestamp,Extra\n" +
		"\"Denver, Colorado\",\"Great stay, would return\",id-1,2021-03-01 10:00:00,x\n" +
		"\"Phoenix, Arizona\",Too hot,id-2,2021-04-01 11:00:00,y\n"

	got, err := reviews.LoadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "id-1", got[0].ReviewId)
	require.Equal(t, "Great stay, would return", got[0].ReviewBody)
	require.Equal(t, "Denver, Colorado", got[0].Location)
	require.Equal(t, "2021-03-01 10:00:00", got[0].Timestamp)
	require.Equal(t, "Phoenix, Arizona", got[1].Location)
}

func TestLoadCSVMissingColumn(t *testing.T) {
	_, err := reviews.LoadCSV(strings.NewReader("Location,ReviewBody,Timestamp\n"))
	require.ErrorContains(t, err, "ReviewId")
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := reviews.LoadCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	got, err := reviews.LoadCSV(strings.NewReader("ReviewId,ReviewBody,Location,Timestamp\n"))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffReviewId,ReviewBody,Location,Timestamp\nx,Nice,\"Tucson, Arizona\",2020-01-01 00:00:00\n"), 0o600))

	got, err := reviews.LoadCSVFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "x", got[0].ReviewId)

	_, err = reviews.LoadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
