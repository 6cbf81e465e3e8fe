// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package pagination computes page descriptors and wraps paged results.
package pagination

import (
	"encoding/json"

	"github.com/YahyaDar/querybuilder/errors"
)

// Information describes one page of a result set of known size.
type Information struct {
	Total        int  `json:"total"`
	PerPage      int  `json:"perPage"`
	From         int  `json:"from"`
	To           int  `json:"to"`
	Offset       int  `json:"-"`
	Pages        int  `json:"pages"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
}

// Calculate returns the descriptor of page out of total rows split into
// pages of perPage. A total of zero yields Empty(perPage).
func Calculate(total, perPage, page int) (Information, error) {
	if perPage < 1 {
		return Information{}, errors.InvalidInput("paginate", "per page must be at least 1, got %d", perPage)
	}
	if page < 1 {
		return Information{}, errors.InvalidInput("paginate", "page must be at least 1, got %d", page)
	}
	if total < 0 {
		return Information{}, errors.InvalidInput("paginate", "total cannot be negative, got %d", total)
	}
	if total == 0 {
		return Empty(perPage), nil
	}

	pages := (total + perPage - 1) / perPage
	offset := (page - 1) * perPage

	info := Information{
		Total:       total,
		PerPage:     perPage,
		From:        offset + 1,
		To:          min(offset+perPage, total),
		Offset:      offset,
		Pages:       pages,
		CurrentPage: page,
	}
	if page > 1 {
		info.PreviousPage = intPtr(page - 1)
	}
	if page < pages {
		info.NextPage = intPtr(page + 1)
	}
	// pages past the end start where they finish
	if info.From > info.To {
		info.From = info.To
	}
	return info, nil
}

// Empty is the descriptor of an empty result set: one page, nothing on it.
func Empty(perPage int) Information {
	return Information{PerPage: perPage, Pages: 1, CurrentPage: 1}
}

// Offset returns the number of rows to skip for page.
func Offset(page, perPage int) (int, error) {
	if perPage < 1 {
		return 0, errors.InvalidInput("paginate", "per page must be at least 1, got %d", perPage)
	}
	if page < 1 {
		return 0, errors.InvalidInput("paginate", "page must be at least 1, got %d", page)
	}
	return (page - 1) * perPage, nil
}

// HasMorePages reports whether a page follows the current one.
func (i Information) HasMorePages() bool {
	return i.CurrentPage < i.Pages
}

// Merge combines two descriptors, as when two paged sources are shown
// together. Totals and page sizes add up; bounds widen.
func (i Information) Merge(other Information) Information {
	merged := Information{
		Total:        i.Total + other.Total,
		From:         lower(i.From, other.From),
		To:           max(i.To, other.To),
		PerPage:      i.PerPage + other.PerPage,
		Pages:        max(i.Pages, other.Pages),
		CurrentPage:  max(i.CurrentPage, other.CurrentPage),
		PreviousPage: lowerPtr(i.PreviousPage, other.PreviousPage),
		NextPage:     upperPtr(i.NextPage, other.NextPage),
	}
	if merged.From > merged.To {
		merged.From = merged.To
	}
	return merged
}

// MarshalJSON clamps previousPage to the last page when the current page
// lies beyond it.
func (i Information) MarshalJSON() ([]byte, error) {
	type plain Information
	out := plain(i)
	if i.CurrentPage > i.Pages+1 {
		out.PreviousPage = intPtr(i.Pages)
	}
	return json.Marshal(out)
}

func intPtr(v int) *int { return &v }

// lower is min, except that a zero bound from an empty page is ignored.
func lower(a, b int) int {
	switch {
	case a == 0:
		return b
	case b == 0:
		return a
	}
	return min(a, b)
}

func lowerPtr(a, b *int) *int {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return intPtr(min(*a, *b))
}

func upperPtr(a, b *int) *int {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return intPtr(max(*a, *b))
}
