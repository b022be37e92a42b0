package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeColumn(t *testing.T) {
	target := &Table{
		Header: []string{"filename", "title"},
		Rows: [][]string{
			{"a.txt", "first"},
			{"b.txt", "second"},
			{"c.txt", "third"},
		},
	}
	source := &Table{
		Header: []string{"filename", "gender"},
		Rows: [][]string{
			{"a.txt", "Female"},
			{"c.txt", "Male"},
			{"d.txt", "Female"}, // not in target, ignored
		},
	}

	res, err := MergeColumn(target, source, "gender")
	require.NoError(t, err)

	assert.Equal(t, "filename", res.Key)
	assert.Equal(t, 2, res.Merged)
	assert.Equal(t, 1, res.Missing)
	assert.Empty(t, res.Renamed)

	assert.Equal(t, []string{"filename", "title", "gender"}, res.Table.Header)
	assert.Equal(t, "Female", res.Table.Get(0, "gender"))
	assert.Equal(t, "NULL", res.Table.Get(1, "gender"))
	assert.Equal(t, "Male", res.Table.Get(2, "gender"))
}

func TestMergeColumnRenamesConflict(t *testing.T) {
	target := &Table{
		Header: []string{"filename", "gender"},
		Rows:   [][]string{{"a.txt", "stale"}},
	}
	source := &Table{
		Header: []string{"filename", "gender"},
		Rows:   [][]string{{"a.txt", "Female"}},
	}

	res, err := MergeColumn(target, source, "gender")
	require.NoError(t, err)

	assert.Equal(t, "gender_orig", res.Renamed)
	assert.Equal(t, []string{"filename", "gender_orig", "gender"}, res.Table.Header)
	assert.Equal(t, "stale", res.Table.Get(0, "gender_orig"))
	assert.Equal(t, "Female", res.Table.Get(0, "gender"))
}

func TestMergeColumnFallsBackToRGNumber(t *testing.T) {
	target := &Table{
		Header: []string{"rg_number", "title"},
		Rows:   [][]string{{"RG-50.030.0001", "first"}},
	}
	source := &Table{
		Header: []string{"rg_number", "irn"},
		Rows:   [][]string{{"RG-50.030.0001", "507634"}},
	}

	res, err := MergeColumn(target, source, "irn")
	require.NoError(t, err)
	assert.Equal(t, "rg_number", res.Key)
	assert.Equal(t, "507634", res.Table.Get(0, "irn"))
}

func TestMergeColumnEmptySourceValueFilledNULL(t *testing.T) {
	target := &Table{
		Header: []string{"filename"},
		Rows:   [][]string{{"a.txt"}},
	}
	source := &Table{
		Header: []string{"filename", "gender"},
		Rows:   [][]string{{"a.txt", ""}},
	}

	res, err := MergeColumn(target, source, "gender")
	require.NoError(t, err)
	assert.Equal(t, "NULL", res.Table.Get(0, "gender"))
	assert.Equal(t, 1, res.Missing)
}

func TestMergeColumnErrors(t *testing.T) {
	t.Run("missing source column", func(t *testing.T) {
		target := &Table{Header: []string{"filename"}}
		source := &Table{Header: []string{"filename"}}
		_, err := MergeColumn(target, source, "gender")
		assert.Error(t, err)
	})

	t.Run("no common key", func(t *testing.T) {
		target := &Table{Header: []string{"filename"}}
		source := &Table{Header: []string{"rg_number", "gender"}}
		_, err := MergeColumn(target, source, "gender")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no common join key")
	})
}
