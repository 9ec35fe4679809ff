package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gitshopapp/boxshop/internal/catalog"
	"github.com/gitshopapp/boxshop/internal/money"
	"github.com/gitshopapp/boxshop/internal/services"
)

type productView struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Size          string             `json:"size"`
	Dimensions    catalog.Dimensions `json:"dimensions"`
	UnitPrice     string             `json:"unit_price"`
	PriceFrom     string             `json:"price_from"`
	Colors        []string           `json:"colors"`
	CardboardType string             `json:"cardboard_type"`
	Brand         string             `json:"brand"`
	Category      string             `json:"category"`
	Availability  string             `json:"availability"`
	ImageURL      string             `json:"image_url,omitempty"`
	PackageSize   int                `json:"package_size"`
}

type priceBreakView struct {
	MinQuantity int    `json:"min_quantity"`
	UnitPrice   string `json:"unit_price"`
}

type productDetailView struct {
	productView
	PriceBreaks []priceBreakView `json:"price_breaks"`
}

type catalogResponse struct {
	Items        []productView      `json:"items"`
	Page         int                `json:"page"`
	PageSize     int                `json:"page_size"`
	TotalPages   int                `json:"total_pages"`
	TotalMatched int                `json:"total_matched"`
	Facets       catalog.Facets     `json:"facets"`
	Filter       catalog.FilterSpec `json:"filter"`
	Sort         catalog.SortSpec   `json:"sort"`
}

// Catalog serves GET /api/catalog.
func (h *Handlers) Catalog(w http.ResponseWriter, r *http.Request) {
	state, err := parseViewState(r.URL.Query())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	result, err := h.catalog.Query(r.Context(), state)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]productView, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, newProductView(p))
	}

	writeJSON(w, r, http.StatusOK, catalogResponse{
		Items:        items,
		Page:         result.Page,
		PageSize:     h.catalog.PageSize(),
		TotalPages:   result.TotalPages,
		TotalMatched: result.TotalMatched,
		Facets:       result.Facets,
		Filter:       state.Filter,
		Sort:         state.Sort,
	})
}

// Product serves GET /api/products/{id}.
func (h *Handlers) Product(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	breaks := catalog.PriceBreaks()
	view := productDetailView{
		productView: newProductView(p),
		PriceBreaks: make([]priceBreakView, 0, len(breaks)+1),
	}
	view.PriceBreaks = append(view.PriceBreaks, priceBreakView{
		MinQuantity: 1,
		UnitPrice:   money.Format(p.UnitPrice),
	})
	for _, b := range breaks {
		view.PriceBreaks = append(view.PriceBreaks, priceBreakView{
			MinQuantity: b.MinQuantity,
			UnitPrice:   money.Format(catalog.EffectiveUnitPrice(p.UnitPrice, b.MinQuantity)),
		})
	}

	writeJSON(w, r, http.StatusOK, view)
}

func newProductView(p catalog.Product) productView {
	priceFrom := p.UnitPrice
	if breaks := catalog.PriceBreaks(); len(breaks) > 0 {
		priceFrom = catalog.EffectiveUnitPrice(p.UnitPrice, breaks[0].MinQuantity)
	}

	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}

	return productView{
		ID:            p.ID,
		Name:          p.Name,
		Size:          p.Dimensions.String(),
		Dimensions:    p.Dimensions,
		UnitPrice:     money.Format(p.UnitPrice),
		PriceFrom:     money.Format(priceFrom),
		Colors:        colors,
		CardboardType: string(p.CardboardType),
		Brand:         p.Brand,
		Category:      string(p.Category),
		Availability:  string(p.Availability),
		ImageURL:      p.ImageURL,
		PackageSize:   p.EffectivePackageSize(),
	}
}

// parseViewState builds the catalog view state from URL query parameters through
// the ViewState operations, so a filtered request always lands on page 1 unless a
// page is given explicitly.
func parseViewState(values url.Values) (catalog.ViewState, error) {
	state := catalog.NewViewState()

	var parseErr error
	rangeParam := func(name string) catalog.Range {
		rng, err := parseRange(values, name)
		if err != nil && parseErr == nil {
			parseErr = err
		}
		return rng
	}

	state = state.UpdateFilter(func(f *catalog.FilterSpec) {
		f.Query = strings.TrimSpace(values.Get("q"))
		f.Length = rangeParam("length")
		f.Width = rangeParam("width")
		f.Height = rangeParam("height")
		f.Price = rangeParam("price")
		f.CardboardTypes = multiParam(values, "type")
		f.Brands = multiParam(values, "brand")
		f.Categories = multiParam(values, "category")
		f.Colors = multiParam(values, "color")
	})
	if parseErr != nil {
		return state, parseErr
	}

	field, ok := catalog.ParseSortField(values.Get("sort"))
	if !ok || (field != catalog.SortNone && !catalog.ProductSorter.Supports(field)) {
		return state, services.UserError{Message: fmt.Sprintf("Unsupported sort field %q", values.Get("sort"))}
	}
	dir, ok := catalog.ParseDirection(values.Get("dir"))
	if !ok {
		return state, services.UserError{Message: fmt.Sprintf("Unsupported sort direction %q", values.Get("dir"))}
	}
	state = state.SortBy(field)
	if dir == catalog.Descending {
		state = state.SortBy(field)
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return state, services.UserError{Message: "page must be a positive integer"}
		}
		state = state.GoTo(page)
	}

	return state, nil
}

func parseRange(values url.Values, name string) (catalog.Range, error) {
	var rng catalog.Range

	lower, err := parseBound(values, name+"_min")
	if err != nil {
		return rng, err
	}
	upper, err := parseBound(values, name+"_max")
	if err != nil {
		return rng, err
	}
	if lower != nil && upper != nil && *lower > *upper {
		return rng, services.UserError{Message: fmt.Sprintf("%s_min must not exceed %s_max", name, name)}
	}

	rng.Min = lower
	rng.Max = upper
	return rng, nil
}

func parseBound(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, services.UserError{Message: fmt.Sprintf("%s must be a number", key)}
	}
	return &v, nil
}

// multiParam returns the non-blank values of a repeated parameter, in request order.
func multiParam(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
