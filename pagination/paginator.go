// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package pagination

// LengthAware is a page of items together with the size of the whole set.
type LengthAware[T any] struct {
	Items []T         `json:"data"`
	Info  Information `json:"pagination"`
}

// NewLengthAware builds the page of items for page out of total rows.
func NewLengthAware[T any](items []T, total, perPage, page int) (*LengthAware[T], error) {
	info, err := Calculate(total, perPage, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return &LengthAware[T]{Items: items, Info: info}, nil
}

// Len returns the number of items on the page.
func (p *LengthAware[T]) Len() int { return len(p.Items) }

// HasMorePages reports whether a page follows this one.
func (p *LengthAware[T]) HasMorePages() bool { return p.Info.HasMorePages() }

// SimpleInfo describes a page when the total is unknown.
type SimpleInfo struct {
	PerPage      int  `json:"perPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
}

// Simple is a page of items without a total count. A full page is
// assumed to have a successor.
type Simple[T any] struct {
	Items   []T        `json:"data"`
	Info    SimpleInfo `json:"pagination"`
	HasMore bool       `json:"-"`
}

// NewSimple wraps items as page of size perPage.
func NewSimple[T any](items []T, perPage, page int) (*Simple[T], error) {
	if _, err := Offset(page, perPage); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	s := &Simple[T]{
		Items:   items,
		HasMore: len(items) >= perPage,
		Info:    SimpleInfo{PerPage: perPage, CurrentPage: page},
	}
	if page > 1 {
		s.Info.PreviousPage = intPtr(page - 1)
	}
	if s.HasMore {
		s.Info.NextPage = intPtr(page + 1)
	}
	return s, nil
}

// Len returns the number of items on the page.
func (p *Simple[T]) Len() int { return len(p.Items) }
