package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/cardrank/internal/importer"
	"github.com/vytor/cardrank/internal/logger"
)

func quietLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.WithOutput(buf), logger.WithLevel(logger.DEBUG), logger.WithColors(false))
}

func TestParseCSV_ValidRows(t *testing.T) {
	input := `name,image_url,description
Joker,https://cards.example/joker.png,The classic
 Mime ,https://cards.example/mime.png,
`
	var buf bytes.Buffer
	res, err := importer.ParseCSV(strings.NewReader(input), quietLogger(&buf))
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, importer.Row{Line: 2, Name: "Joker", ImageURL: "https://cards.example/joker.png", Description: "The classic"}, res.Rows[0])
	assert.Equal(t, "Mime", res.Rows[1].Name)
	assert.Equal(t, 3, res.Rows[1].Line)
	assert.Empty(t, res.Rows[1].Description)
}

func TestParseCSV_ColumnOrderAndCaseIgnored(t *testing.T) {
	input := "\ufeffImage_URL,Name\nhttps://cards.example/a.png,Acrobat\n"
	res, err := importer.ParseCSV(strings.NewReader(input), quietLogger(&bytes.Buffer{}))
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Acrobat", res.Rows[0].Name)
	assert.Equal(t, "https://cards.example/a.png", res.Rows[0].ImageURL)
}

func TestParseCSV_SkipsIncompleteRows(t *testing.T) {
	input := `name,image_url
Joker,https://cards.example/joker.png
,https://cards.example/blank.png
Baron,
Blueprint
Mime,https://cards.example/mime.png
`
	var buf bytes.Buffer
	res, err := importer.ParseCSV(strings.NewReader(input), quietLogger(&buf))
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Joker", res.Rows[0].Name)
	assert.Equal(t, "Mime", res.Rows[1].Name)
	assert.Equal(t, 6, res.Rows[1].Line)

	require.Len(t, res.Skipped, 3)
	assert.Equal(t, []int{3, 4, 5}, []int{res.Skipped[0].Line, res.Skipped[1].Line, res.Skipped[2].Line})
	assert.Contains(t, buf.String(), "skipping row 3")
	assert.Contains(t, buf.String(), "skipping row 5")
}

func TestParseCSV_MissingRequiredColumn(t *testing.T) {
	_, err := importer.ParseCSV(strings.NewReader("name,description\nJoker,x\n"), quietLogger(&bytes.Buffer{}))
	assert.ErrorIs(t, err, importer.ErrMissingColumns)
	assert.Contains(t, err.Error(), "name, description")
}

func TestParseCSV_EmptyFile(t *testing.T) {
	_, err := importer.ParseCSV(strings.NewReader(""), nil)
	assert.ErrorIs(t, err, importer.ErrMissingColumns)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	res, err := importer.ParseCSV(strings.NewReader("name,image_url\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Empty(t, res.Skipped)
}

func TestParseCSV_LineNumbersFollowMultilineFields(t *testing.T) {
	input := "name,image_url,description\n" +
		"Joker,https://cards.example/joker.png,\"first line\nsecond line\nthird line\"\n" +
		"Baron,\n" +
		"Mime,https://cards.example/mime.png,\n"
	var buf bytes.Buffer
	res, err := importer.ParseCSV(strings.NewReader(input), quietLogger(&buf))
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, 2, res.Rows[0].Line)
	assert.Equal(t, "first line\nsecond line\nthird line", res.Rows[0].Description)
	assert.Equal(t, 6, res.Rows[1].Line)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 5, res.Skipped[0].Line)
	assert.Contains(t, buf.String(), "skipping row 5")
}

func TestParseCSV_MalformedRowSkipped(t *testing.T) {
	input := "name,image_url\n" +
		"Jo\"ker,https://cards.example/joker.png\n" +
		"Mime,https://cards.example/mime.png\n"
	res, err := importer.ParseCSV(strings.NewReader(input), quietLogger(&bytes.Buffer{}))
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Line)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Mime", res.Rows[0].Name)
	assert.Equal(t, 3, res.Rows[0].Line)
}
