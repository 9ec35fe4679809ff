package catalog

// ViewState is the catalog page state: one filter value, one sort value and a page.
// Every filter change goes through UpdateFilter, which is the only place the page
// is reset.
type ViewState struct {
	Filter FilterSpec `json:"filter"`
	Sort   SortSpec   `json:"sort"`
	Page   int        `json:"page"`
}

func NewViewState() ViewState {
	return ViewState{
		Sort: SortSpec{Field: SortNone, Direction: Ascending},
		Page: 1,
	}
}

// UpdateFilter commits a filter change and resets the page to 1.
func (v ViewState) UpdateFilter(fn func(*FilterSpec)) ViewState {
	next := v
	next.Filter = cloneFilter(v.Filter)
	if fn != nil {
		fn(&next.Filter)
	}
	next.Page = 1
	return next
}

func (v ViewState) ResetFilters() ViewState {
	return v.UpdateFilter(func(f *FilterSpec) { *f = FilterSpec{} })
}

func (v ViewState) SortBy(field SortField) ViewState {
	next := v
	next.Sort = v.Sort.Toggle(field)
	return next
}

func (v ViewState) GoTo(page int) ViewState {
	next := v
	next.Page = page
	return next
}

func cloneFilter(f FilterSpec) FilterSpec {
	out := f
	out.Length = cloneRange(f.Length)
	out.Width = cloneRange(f.Width)
	out.Height = cloneRange(f.Height)
	out.Price = cloneRange(f.Price)
	out.CardboardTypes = append([]string(nil), f.CardboardTypes...)
	out.Brands = append([]string(nil), f.Brands...)
	out.Categories = append([]string(nil), f.Categories...)
	out.Colors = append([]string(nil), f.Colors...)
	return out
}

func cloneRange(r Range) Range {
	var out Range
	if r.Min != nil {
		v := *r.Min
		out.Min = &v
	}
	if r.Max != nil {
		v := *r.Max
		out.Max = &v
	}
	return out
}

// ToggleValue adds value to set when absent and removes it when present.
func ToggleValue(set []string, value string) []string {
	out := make([]string, 0, len(set)+1)
	removed := false
	for _, s := range set {
		if s == value {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if !removed {
		out = append(out, value)
	}
	return out
}
