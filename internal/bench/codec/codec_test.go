package codec

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatten drops item order so sets compare by content.
func flatten(s rating.Set) map[int]map[int]float64 {
	out := make(map[int]map[int]float64, len(s))
	for uid, r := range s {
		m := make(map[int]float64, r.Len())
		for _, item := range r.Items() {
			m[item], _ = r.Get(item)
		}
		out[uid] = m
	}
	return out
}

func exampleSet() rating.Set {
	s := make(rating.Set)
	s.Add(2, 10, 5.0)
	s.Add(1, 10, 4.0)
	s.Add(1, 20, 3.5)
	return s
}

func TestEncode(t *testing.T) {
	lines := Encode(exampleSet())
	assert.Equal(t, []string{"1 10:4.0 20:3.5", "2 10:5.0"}, lines)
}

func TestEncode_ItemsInInsertionOrder(t *testing.T) {
	s := make(rating.Set)
	s.Add(3, 50, 1.0)
	s.Add(3, 7, 2.5)
	s.Add(3, 19, 4.0)

	assert.Equal(t, []string{"3 50:1.0 7:2.5 19:4.0"}, Encode(s))
}

func TestDecode_Example(t *testing.T) {
	set, stats := Decode([]string{"1 10:4.0 20:3.5", "2 10:5.0"})

	assert.Equal(t, flatten(exampleSet()), flatten(set))
	assert.Equal(t, 2, stats.Lines)
	assert.Zero(t, stats.Skipped)
}

func TestDecode_SkipsBadLinesAndContinues(t *testing.T) {
	lines := []string{
		"",
		"1 10:4.0 noise 20:3.5",
		"x 10:4.0",
		"2 10:abc",
		"3 10:1.0:2",
		"   ",
		"4 11:2.0",
	}

	set, stats := Decode(lines)

	assert.Equal(t, map[int]map[int]float64{
		1: {10: 4.0, 20: 3.5},
		4: {11: 2.0},
	}, flatten(set))
	assert.Equal(t, 5, stats.Lines)
	assert.Equal(t, 3, stats.Skipped)
}

func TestDecode_LaterDuplicateUserWins(t *testing.T) {
	set, stats := Decode([]string{"1 10:4.0", "1 30:2.0"})

	assert.Equal(t, map[int]map[int]float64{1: {30: 2.0}}, flatten(set))
	assert.Equal(t, 1, stats.Duplicate)
}

func TestDecodeLine_UserWithoutRatings(t *testing.T) {
	uid, r, err := DecodeLine("42")
	require.NoError(t, err)
	assert.Equal(t, 42, uid)
	assert.Zero(t, r.Len())
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	values := []float64{0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0, 4.5, 5.0}

	for trial := 0; trial < 20; trial++ {
		in := make(rating.Set)
		for u := 0; u < 1+rng.IntN(30); u++ {
			for i := 0; i < 1+rng.IntN(40); i++ {
				in.Add(rng.IntN(1000), rng.IntN(100000), values[rng.IntN(len(values))])
			}
		}

		out, stats := Decode(Encode(in))
		require.Zero(t, stats.Skipped)
		require.Equal(t, flatten(in), flatten(out))
		for uid, r := range in {
			assert.Equal(t, r.Items(), out[uid].Items())
		}
	}
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "4.0", FormatRating(4))
	assert.Equal(t, "3.5", FormatRating(3.5))
	assert.Equal(t, "0.25", FormatRating(0.25))
}

func TestParseToken(t *testing.T) {
	item, v, ok, err := ParseToken("31:2.5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 31, item)
	assert.Equal(t, 2.5, v)

	_, _, ok, err = ParseToken("31")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, ok, err = ParseToken("a:1")
	assert.True(t, ok)
	assert.ErrorIs(t, err, apperr.ErrMalformedRecord)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets", "input.dat")

	require.NoError(t, WriteFile(path, exampleSet()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 10:4.0 20:3.5\n2 10:5.0\n", string(data))

	set, _, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, flatten(exampleSet()), flatten(set))
}

func TestReadFile_Missing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.dat"))
	assert.ErrorIs(t, err, apperr.ErrMissingFile)
}

func TestDecodeReader_LongLine(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("9")
	for i := 0; i < 20000; i++ {
		sb.WriteString(" ")
		sb.WriteString(FormatToken(i, 3.0))
	}

	set, _, err := DecodeReader(strings.NewReader(sb.String() + "\n"))
	require.NoError(t, err)
	assert.Equal(t, 20000, set[9].Len())
}

func TestUsersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explore.dat")

	require.NoError(t, WriteUsers(path, []int{5, 1, 9}))
	users, err := ReadUsers(path)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 1, 9}, users)

	assert.Equal(t, []int{3, 4}, ParseUsers([]string{"3", "", "abc", " 4 "}))

	_, err = ReadUsers(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, apperr.ErrMissingFile)
}

func TestWriteLines_FileMode(t *testing.T) {
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.dat")
	require.NoError(t, WriteLines(fresh, []string{"1"}))
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	existing := filepath.Join(dir, "input.dat")
	require.NoError(t, os.WriteFile(existing, []byte("1 2:3.0\n"), 0o600))
	require.NoError(t, os.Chmod(existing, 0o640))
	require.NoError(t, WriteLines(existing, []string{"2"}))
	info, err = os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
