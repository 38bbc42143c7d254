// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-writer/pkg/types"
)

// stubPaginator records calls and returns queued errors in order.
type stubPaginator struct {
	errs     []error
	contents []string
}

func (p *stubPaginator) Paginate(_ string, content string) error {
	p.contents = append(p.contents, content)
	if len(p.errs) == 0 {
		return nil
	}
	err := p.errs[0]
	p.errs = p.errs[1:]
	return err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSave_WritesPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.pdf")
	s := New(types.DefaultConfig().Output, nil)

	content := "QUANTUM COMPUTING\n\nABSTRACT\n\n" + strings.Repeat("A long sentence about qubits. ", 400) +
		"\n\nREFERENCES\n\n[1] Source A\n[2] Source B\n\nRESEARCH METHODOLOGY & TOOLS\n\n• web_search"
	res := s.Save(content, path)

	assert.Equal(t, "Saved to "+path, res.Message)
	assert.Equal(t, path, res.Path)
	assert.False(t, res.Fallback)
	assert.False(t, res.Normalized)
	assert.True(t, strings.HasPrefix(readFile(t, path), "%PDF"))
	assert.NoFileExists(t, FallbackPath(path))
}

func TestSave_NormalizesAndRetries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.pdf")
	s := New(types.DefaultConfig().Output, nil)

	res := s.Save("Quantum ≈ classical? 量子 “quoted”", path)

	assert.Equal(t, "Saved to "+path+" (normalized unicode characters)", res.Message)
	assert.True(t, res.Normalized)
	assert.False(t, res.Fallback)
	assert.True(t, strings.HasPrefix(readFile(t, path), "%PDF"))
}

func TestSave_FallbackWhenRetryFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.pdf")
	p := &stubPaginator{errs: []error{
		&EncodingError{Rune: '量', Offset: 0},
		&EncodingError{Rune: '量', Offset: 0},
	}}
	s := &Sink{Paginator: p}

	content := "量子 computing"
	res := s.Save(content, path)

	fallback := filepath.Join(dir, "paper.txt")
	assert.True(t, res.Fallback)
	assert.Equal(t, fallback, res.Path)
	assert.Contains(t, res.Message, path)
	assert.Contains(t, res.Message, fallback)
	assert.Contains(t, res.Message, "Normalization retry failed")

	require.Len(t, p.contents, 2)
	assert.Equal(t, content, p.contents[0])
	assert.Equal(t, NormalizeText(content), p.contents[1])

	got := readFile(t, fallback)
	assert.True(t, strings.HasPrefix(got, "PDF save failed: "))
	assert.Contains(t, got, "Retry with normalization failed: ")
	assert.True(t, strings.HasSuffix(got, "Original content below:\n\n"+content))
}

func TestSave_NonEncodingErrorSkipsRetry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.pdf")
	out := types.DefaultConfig().Output
	out.FontFamily = "NoSuchFont"
	s := New(out, nil)

	res := s.Save("plain text", path)

	assert.True(t, res.Fallback)
	assert.Equal(t, filepath.Join(dir, "paper.txt"), res.Path)
	assert.Contains(t, res.Message, path)
	assert.NotContains(t, res.Message, "Normalization retry")
	assert.NoFileExists(t, path)

	got := readFile(t, res.Path)
	assert.True(t, strings.HasSuffix(got, "Original content below:\n\nplain text"))
}

func TestSave_StubNonEncodingErrorCallsOnce(t *testing.T) {
	p := &stubPaginator{errs: []error{errors.New("disk full")}}
	s := &Sink{Paginator: p}

	path := filepath.Join(t.TempDir(), "x.pdf")
	res := s.Save("content", path)

	assert.Len(t, p.contents, 1)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Message, "disk full")
}

func TestSave_FallbackWriteFails(t *testing.T) {
	p := &stubPaginator{errs: []error{errors.New("boom")}}
	s := &Sink{Paginator: p}

	path := filepath.Join(t.TempDir(), "missing-dir", "x.pdf")
	res := s.Save("content", path)

	assert.False(t, res.Fallback)
	assert.Empty(t, res.Path)
	assert.True(t, strings.HasPrefix(res.Message, "Save error: "))
	assert.Equal(t, res.Message, res.String())
}

func TestCheckEncodable(t *testing.T) {
	assert.NoError(t, checkEncodable("Plain ASCII, café, “smart” quotes – dashes… • bullets €"))

	err := checkEncodable("ok 量")
	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, '量', encErr.Rune)
	assert.Equal(t, 3, encErr.Offset)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"“Hello” – ‘world’…", `"Hello" - 'world'...`},
		{"a—b", "a - b"},
		{"ﬁne", "fine"},
		{"café", "cafe"},
		{"量子 bits", " bits"},
		{"x²", "x2"},
	}
	for _, tt := range tests {
		got := NormalizeText(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.NoError(t, checkEncodable(got))
	}
}

func TestWrapLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"wraps at space", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"collapses whitespace", "  a   b  ", 10, []string{"a b"}},
		{"long word split", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"long word after text", "xy abcdefgh", 4, []string{"xy", "abcd", "efgh"}},
		{"blank", "   ", 10, nil},
		{"multibyte counts runes", "ééé ééé", 3, []string{"ééé", "ééé"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapLine(tt.line, tt.width))
		})
	}
}

func TestFallbackPath(t *testing.T) {
	assert.Equal(t, "out/report.txt", FallbackPath("out/report.pdf"))
	assert.Equal(t, "report.txt", FallbackPath("report"))
	assert.Equal(t, "notes.txt.txt", FallbackPath("notes.txt"))
}

func TestOutputName(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	assert.Equal(t, "research_output_20260304_050607.pdf", OutputName("", "", now))
	assert.Equal(t, filepath.Join("out", "research_output_20260304_050607.pdf"), OutputName("out", "", now))
	assert.Equal(t, "paper.pdf", OutputName(".", "paper", now))
	assert.Equal(t, "paper.txt", OutputName("", "paper.txt", now))
	assert.Equal(t, "/abs/paper.pdf", OutputName("out", "/abs/paper.pdf", now))
	assert.Equal(t, filepath.Join("out", "research_snapshot_20260304_050607.pdf"), SnapshotName("out", now))
}
