// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package pagination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaDar/querybuilder/errors"
)

func TestCalculateMiddlePage(t *testing.T) {
	info, err := Calculate(45, 10, 2)
	require.NoError(t, err)

	assert.Equal(t, 45, info.Total)
	assert.Equal(t, 5, info.Pages)
	assert.Equal(t, 10, info.Offset)
	assert.Equal(t, 11, info.From)
	assert.Equal(t, 20, info.To)
	require.NotNil(t, info.PreviousPage)
	require.NotNil(t, info.NextPage)
	assert.Equal(t, 1, *info.PreviousPage)
	assert.Equal(t, 3, *info.NextPage)
	assert.True(t, info.HasMorePages())
}

func TestCalculateLastPage(t *testing.T) {
	info, err := Calculate(45, 10, 5)
	require.NoError(t, err)

	assert.Equal(t, 41, info.From)
	assert.Equal(t, 45, info.To)
	assert.Nil(t, info.NextPage)
	assert.False(t, info.HasMorePages())
}

func TestCalculatePastTheEnd(t *testing.T) {
	info, err := Calculate(5, 10, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, info.Pages)
	assert.Equal(t, 5, info.To)
	assert.Equal(t, info.To, info.From)

	data, err := json.Marshal(info)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.EqualValues(t, 1, got["previousPage"])
	assert.Nil(t, got["nextPage"])
	assert.NotContains(t, got, "Offset")
}

func TestCalculateEmpty(t *testing.T) {
	info, err := Calculate(0, 15, 4)
	require.NoError(t, err)
	assert.Equal(t, Empty(15), info)
	assert.Equal(t, 1, info.Pages)
	assert.Equal(t, 1, info.CurrentPage)
	assert.Nil(t, info.PreviousPage)
}

func TestCalculateRejectsBadArguments(t *testing.T) {
	_, err := Calculate(10, 0, 1)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = Calculate(10, 5, 0)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = Offset(-1, 5)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestMerge(t *testing.T) {
	a, err := Calculate(30, 10, 2)
	require.NoError(t, err)
	b, err := Calculate(12, 5, 3)
	require.NoError(t, err)

	m := a.Merge(b)
	assert.Equal(t, 42, m.Total)
	assert.Equal(t, 15, m.PerPage)
	assert.Equal(t, 3, m.Pages)
	assert.Equal(t, 3, m.CurrentPage)
	assert.Equal(t, 11, m.From)
	assert.Equal(t, 20, m.To)
	require.NotNil(t, m.PreviousPage)
	assert.Equal(t, 1, *m.PreviousPage)
	require.NotNil(t, m.NextPage)
	assert.Equal(t, 3, *m.NextPage)
}

func TestLengthAwareJSON(t *testing.T) {
	p, err := NewLengthAware([]string{"a", "b"}, 4, 2, 1)
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":["a","b"],"pagination":{"total":4,"perPage":2,"from":1,"to":2,`+
		`"pages":2,"currentPage":1,"previousPage":null,"nextPage":2}}`, string(data))
}

func TestSimple(t *testing.T) {
	full, err := NewSimple([]int{1, 2, 3}, 3, 2)
	require.NoError(t, err)
	assert.True(t, full.HasMore)
	require.NotNil(t, full.Info.NextPage)
	assert.Equal(t, 3, *full.Info.NextPage)
	assert.Equal(t, 1, *full.Info.PreviousPage)

	partial, err := NewSimple[int](nil, 3, 1)
	require.NoError(t, err)
	assert.False(t, partial.HasMore)
	assert.Nil(t, partial.Info.NextPage)
	assert.Equal(t, 0, partial.Len())
}
