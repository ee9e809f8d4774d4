// Package home composes the storefront landing payload from the catalog and
// banner services in one response.
package home

import (
	"context"
	"fmt"

	"storefront-backend/internal/products"
	"storefront-backend/pkg/db/models"
	pkgerrors "storefront-backend/pkg/errors"
)

const sectionSize = 10

// PageDTO is the aggregated home payload.
type PageDTO struct {
	Banners  []models.Banner       `json:"banners"`
	Featured []products.SummaryDTO `json:"featured"`
	Newest   []products.SummaryDTO `json:"newest"`
	TopRated []products.SummaryDTO `json:"top_rated"`
	OnSale   []products.SummaryDTO `json:"on_sale"`
}

type bannerLister interface {
	ListActive(ctx context.Context) ([]models.Banner, error)
}

type catalog interface {
	Featured(ctx context.Context, limit int) ([]products.SummaryDTO, error)
	Newest(ctx context.Context, limit int) ([]products.SummaryDTO, error)
	TopRated(ctx context.Context, limit int) ([]products.SummaryDTO, error)
	SaleProducts(ctx context.Context, limit, offset int) (*products.ListResult, error)
}

type Service struct {
	banners bannerLister
	catalog catalog
}

type ServiceParams struct {
	Banners bannerLister
	Catalog catalog
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Banners == nil {
		return nil, fmt.Errorf("banner lister is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	return &Service{banners: params.Banners, catalog: params.Catalog}, nil
}

// Page builds the landing payload. Sections fail together; partial home pages
// are worse than an error the client can retry.
func (s *Service) Page(ctx context.Context) (*PageDTO, error) {
	banners, err := s.banners.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load banners")
	}
	featured, err := s.catalog.Featured(ctx, sectionSize)
	if err != nil {
		return nil, err
	}
	newest, err := s.catalog.Newest(ctx, sectionSize)
	if err != nil {
		return nil, err
	}
	topRated, err := s.catalog.TopRated(ctx, sectionSize)
	if err != nil {
		return nil, err
	}
	sale, err := s.catalog.SaleProducts(ctx, sectionSize, 0)
	if err != nil {
		return nil, err
	}

	return &PageDTO{
		Banners:  banners,
		Featured: featured,
		Newest:   newest,
		TopRated: topRated,
		OnSale:   sale.Items,
	}, nil
}
