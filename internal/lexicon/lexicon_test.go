package lexicon

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manjussha/zhseg/internal/score"
)

const sampleDict = `# sample dictionary
犹豫 200 v
毫不犹豫 80 i

回答 300 v
问题 500 n
短行 10
坏频率 abc n
负数 -5 a
名字 90 nr extra tag
  # not a comment because of the leading space 5 n
问题 7 n
`

func TestParse(t *testing.T) {
	lex, err := Parse(strings.NewReader(sampleDict))
	require.NoError(t, err)

	// "短行" has only two fields and is skipped.
	assert.False(t, lex.Contains("短行"))
	assert.Equal(t, 8, lex.Size())

	e, ok := lex.Lookup("犹豫")
	require.True(t, ok)
	assert.Equal(t, 200, e.Frequency)
	assert.Equal(t, "v", e.POS)
	assert.InDelta(t, score.WordScore(200, 2, "v"), e.Score, 1e-12)

	e, ok = lex.Lookup("坏频率")
	require.True(t, ok)
	assert.Equal(t, DefaultFrequency, e.Frequency)

	e, ok = lex.Lookup("负数")
	require.True(t, ok)
	assert.Equal(t, DefaultFrequency, e.Frequency)

	e, ok = lex.Lookup("名字")
	require.True(t, ok)
	assert.Equal(t, "nr extra tag", e.POS)
	assert.InDelta(t, score.WordScore(90, 2, "nr extra tag"), e.Score, 1e-12)

	// Later duplicates overwrite earlier ones.
	e, ok = lex.Lookup("问题")
	require.True(t, ok)
	assert.Equal(t, 7, e.Frequency)

	assert.True(t, lex.Contains("#"))
	assert.Equal(t, 4, lex.MaxWordLen())
}

func TestParse_WhitespaceSeparators(t *testing.T) {
	lex, err := Parse(strings.NewReader("词语\t12\t  n\r\n"))
	require.NoError(t, err)
	e, ok := lex.Lookup("词语")
	require.True(t, ok)
	assert.Equal(t, 12, e.Frequency)
	assert.Equal(t, "n", e.POS)
}

func TestParse_FrequencyOverflowSaturates(t *testing.T) {
	lex, err := Parse(strings.NewReader("大数 99999999999999999999999 n\n"))
	require.NoError(t, err)
	e, ok := lex.Lookup("大数")
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, e.Frequency)
	assert.InDelta(t, 2.5*1.4*1.3, e.Score, 1e-12)
}

func TestParse_EmptySource(t *testing.T) {
	for _, src := range []string{"", "   \n\n\t\n", "# only comments\n"} {
		lex, err := Parse(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, 0, lex.Size())
	}
}

func TestParse_ReadErrorKeepsParsedEntries(t *testing.T) {
	r := iotest.TimeoutReader(strings.NewReader("犹豫 200 v\n"))
	lex, err := Parse(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	require.NotNil(t, lex)
	assert.True(t, lex.Contains("犹豫"))
}

func TestLoad_MissingFileIsSoft(t *testing.T) {
	lex, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	require.NotNil(t, lex)
	assert.Equal(t, 0, lex.Size())
	_, ok := lex.Lookup("犹豫")
	assert.False(t, ok)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleDict), 0o644))

	lex, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, lex.Size())
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.Add("", 10, "n")
	b.Add("你好", 10, "n")
	b.Add("你好", 20, "v")
	lex := b.Build()

	assert.Equal(t, 1, lex.Size())
	e, _ := lex.Lookup("你好")
	assert.Equal(t, 20, e.Frequency)
	assert.Equal(t, "v", e.POS)
	assert.Equal(t, 0, Empty().Size())
}
