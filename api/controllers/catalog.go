package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"storefront-backend/api/responses"
	"storefront-backend/api/validators"
	"storefront-backend/internal/banners"
	"storefront-backend/internal/brands"
	"storefront-backend/internal/categories"
	"storefront-backend/internal/home"
	"storefront-backend/internal/products"
	"storefront-backend/internal/ratings"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/pagination"
)

// ProductList serves the filtered catalog search.
func ProductList(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), *filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseListFilter(r *http.Request) (*products.ListFilter, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return nil, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return nil, err
	}

	filter := products.ListFilter{
		Keyword: validators.SanitizeString(r.URL.Query().Get("q"), 255),
		Sort:    r.URL.Query().Get("sort"),
		Limit:   limit,
		Offset:  offset,
	}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category_id")
		}
		filter.CategoryID = &id
	}
	if raw := r.URL.Query().Get("brand_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid brand_id")
		}
		filter.BrandID = &id
	}
	if min, err := validators.ParseQueryDecimal(r, "price_min"); err != nil {
		return nil, err
	} else if min != nil {
		filter.PriceMin = min
	}
	if max, err := validators.ParseQueryDecimal(r, "price_max"); err != nil {
		return nil, err
	} else if max != nil {
		filter.PriceMax = max
	}
	if featured, present, err := validators.ParseQueryBool(r, "featured"); err != nil {
		return nil, err
	} else if present {
		filter.Featured = &featured
	}
	if onSale, present, err := validators.ParseQueryBool(r, "on_sale"); err != nil {
		return nil, err
	} else if present {
		filter.OnSale = &onSale
	}
	return &filter, nil
}

// ProductDetail serves one product page.
func ProductDetail(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// SaleProducts lists currently discounted products.
func SaleProducts(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.SaleProducts(r.Context(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductRatings lists one product's reviews with aggregates.
func ProductRatings(svc *ratings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListForProduct(r.Context(), id, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CategoryList serves the category hierarchy, nested by default. Passing
// tree=false flattens the response.
func CategoryList(svc *categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nested, present, err := validators.ParseQueryBool(r, "tree")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if present && !nested {
			rows, err := svc.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, rows)
			return
		}
		tree, err := svc.Tree(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tree)
	}
}

// CategoryDetail serves one category.
func CategoryDetail(svc *categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// BrandList serves the active brand filter options.
func BrandList(svc *brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// BannerList serves the ordered promotional banners.
func BannerList(svc *banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// HomePage serves the composed landing payload.
func HomePage(svc *home.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.Page(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
