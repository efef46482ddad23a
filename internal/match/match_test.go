package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raws(cs []Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Raw)
	}
	return out
}

func TestScan_Bare(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "isbn13 in prose",
			text: "ISBN 9780134190440 printed in Finland",
			want: []string{"9780134190440"},
		},
		{
			name: "hyphenated and en-dash",
			text: "978-0-306-40615-7 and 978–1–4028–9462–6",
			want: []string{"978-0-306-40615-7", "978–1–4028–9462–6"},
		},
		{
			name: "isbn10 with X",
			text: "ISBN 0-8044-2957-X.",
			want: []string{"0-8044-2957-X"},
		},
		{
			name: "spaces between groups",
			text: "ISBN 978 0 306 40615 7",
			want: []string{"978 0 306 40615 7"},
		},
		{
			name: "too short",
			text: "call 12345678 or 1234-5678",
			want: nil,
		},
		{
			name: "order of appearance",
			text: "a 0306406152 b 9780134190440 c 0306406152",
			want: []string{"0306406152", "9780134190440", "0306406152"},
		},
	}

	m := New(MarkerNone)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Find(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, raws(got))
		})
	}
}

func TestScan_NoOverlap(t *testing.T) {
	// 20 digits: the first 13 are consumed, the remaining 7 are too short.
	got := New(MarkerNone).Find("97801341904401234567")
	require.Len(t, got, 1)
	assert.Equal(t, "9780134190440", got[0].Raw)
	assert.Equal(t, 0, got[0].Offset)
}

func TestScan_Offsets(t *testing.T) {
	text := "xx 0306406152 yy 9780134190440"
	got := New(MarkerNone).Find(text)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, c.Raw, text[c.Offset:c.Offset+len(c.Raw)])
	}
}

func TestScan_CaseOfCheckCharacter(t *testing.T) {
	text := "0-8044-2957-x"
	// Without folding the lowercase x is not a check character and the
	// nine remaining digits are not enough on their own.
	assert.Empty(t, New(MarkerNone).Find(text))

	got := New(MarkerNone, WithFoldCase()).Find(text)
	require.Len(t, got, 1)
	assert.Equal(t, "0-8044-2957-x", got[0].Raw)
}

func TestScan_PDFMarker(t *testing.T) {
	text := "ISBN 9780306406157 (nid.)\nISBN 9780134190440 (PDF)\nISBN 978-1-4028-9462-6 ( pdf )"
	got := New(MarkerPDF, WithFoldCase()).Find(text)
	assert.Equal(t, []string{"9780134190440", "978-1-4028-9462-6"}, raws(got))
	for _, c := range got {
		assert.Equal(t, "PDF", c.Marker)
	}

	assert.Len(t, New(MarkerPDF).Find(text), 1, "only the lowercase marker matches without folding")
}

func TestScan_AnyWordMarker(t *testing.T) {
	text := "9780134190440 (PDF) 9780306406157 (ebook) 9781402894626 (e.pub) 0306406152"
	got := New(MarkerAnyWord, WithFoldCase()).Find(text)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"PDF", "ebook", "e.pub"}, []string{got[0].Marker, got[1].Marker, got[2].Marker})
}

func TestScan_StopsEarly(t *testing.T) {
	calls := 0
	for range New(MarkerNone).Scan("0306406152 0306406152 0306406152") {
		calls++
		break
	}
	assert.Equal(t, 1, calls)
}

func TestNew_UnknownMarkerPanics(t *testing.T) {
	assert.Panics(t, func() { New(Marker(42)) })
}
