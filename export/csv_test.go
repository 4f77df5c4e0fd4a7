package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeField(t *testing.T) {
	assert.Equal(t, "plain", escapeField("plain"))
	assert.Equal(t, "", escapeField(""))
	assert.Equal(t, `"a,b"`, escapeField("a,b"))
	assert.Equal(t, `"line1`+"\n"+`line2"`, escapeField("line1\nline2"))
	assert.Equal(t, `"Note, with ""quotes"""`, escapeField(`Note, with "quotes"`))
}

func TestRenderLayout(t *testing.T) {
	doc := Render([]string{"code", "note"}, [][]string{{"P1", ""}})

	require.True(t, bytes.HasPrefix(doc, []byte{0xEF, 0xBB, 0xBF}))
	body := string(bytes.TrimPrefix(doc, []byte{0xEF, 0xBB, 0xBF}))
	assert.Equal(t, "code,note\r\nP1,\r\n", body)
}

func TestRenderRoundTrip(t *testing.T) {
	original := `Note, with "quotes"`
	doc := Render([]string{"code", "note"}, [][]string{{"P1", original}})

	body := bytes.TrimPrefix(doc, []byte{0xEF, 0xBB, 0xBF})
	reader := csv.NewReader(strings.NewReader(string(body)))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, original, records[1][1])
}

func TestTranscodeLatin1(t *testing.T) {
	doc := Render([]string{"label"}, [][]string{{"Negozio Città"}})

	out, err := Transcode(doc, "latin1")
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))
	// "à" is a single 0xE0 byte in Windows-1252.
	assert.True(t, bytes.Contains(out, []byte{0xE0}))

	same, err := Transcode(doc, "")
	require.NoError(t, err)
	assert.Equal(t, doc, same)

	_, err = Transcode(doc, "shift-jis")
	require.Error(t, err)
}
