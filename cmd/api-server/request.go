package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/protomem/medicall/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

func idParam(r *http.Request, key string) (model.ID, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return model.ID(id), nil
}

func defaultIntQueryParams[T constraints.Integer](r *http.Request, key string, def T) T {
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok {
		return def
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return def
	}
	return T(i)
}

func optionalStringQueryParams(r *http.Request, key string) *string {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil
	}
	return &val
}

func optionalIntQueryParams[T constraints.Integer](r *http.Request, key string) (*T, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("query parameter %s must be an integer", key)
	}
	ref := T(i)
	return &ref, nil
}

func optionalBoolQueryParams(r *http.Request, key string) (*bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, fmt.Errorf("query parameter %s must be a boolean", key)
	}
	return &b, nil
}

func optionalDecimalQueryParams(r *http.Request, key string) (*decimal.Decimal, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return nil, fmt.Errorf("query parameter %s must be a number", key)
	}
	return &d, nil
}

func findOptions(r *http.Request) model.FindOptions {
	return model.NewFindOptions(
		defaultIntQueryParams(r, "limit", model.DefaultLimit),
		defaultIntQueryParams(r, "offset", 0),
	)
}

// orderingQueryParams reads ?ordering=field or ?ordering=-field. An empty
// value means the listing's default order.
func orderingQueryParams(r *http.Request, allowed []string) (model.Ordering, error) {
	raw := r.URL.Query().Get("ordering")
	if raw == "" {
		return model.Ordering{}, nil
	}
	o, ok := model.ParseOrdering(raw, allowed...)
	if !ok {
		return model.Ordering{}, fmt.Errorf("ordering must be one of %s", strings.Join(allowed, ", "))
	}
	return o, nil
}
