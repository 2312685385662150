package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/service"
)

// CatalogHandler serves the category and product endpoints.
type CatalogHandler struct {
	Catalog *service.CatalogService
	Log     *zap.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Log: log}
}

// ----- DTOs -----

type categoryResp struct {
	CategoryID uint64 `json:"category_id"`
	Name       string `json:"name"`
}

type createCategoryReq struct {
	Name string `json:"name" validate:"required"`
}

type productResp struct {
	ProductID    uint64  `json:"product_id"`
	Name         string  `json:"name"`
	CategoryID   uint64  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
}

type createProductReq struct {
	Name       string          `json:"name" validate:"required"`
	CategoryID uint64          `json:"category_id" validate:"required"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock" validate:"gte=0"`
}

func toCategoryResp(c model.Category) categoryResp {
	return categoryResp{CategoryID: c.ID, Name: c.Name}
}

func toProductResp(p model.Product) productResp {
	return productResp{
		ProductID:    p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Price:        p.Price.InexactFloat64(),
		Stock:        p.Stock,
	}
}

// ListCategories: GET /categories
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	cats, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	out := make([]categoryResp, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryResp(cat))
	}
	return c.JSON(http.StatusOK, out)
}

// GetCategory: GET /categories/:id
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "category id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	cat, err := h.Catalog.GetCategory(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toCategoryResp(cat))
}

// CreateCategory: POST /categories
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req createCategoryReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	cat, err := h.Catalog.CreateCategory(ctx, req.Name)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, toCategoryResp(cat))
}

// ListProducts: GET /products
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	products, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateProduct: POST /products (admin)
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req createProductReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	p, err := h.Catalog.CreateProduct(ctx, service.NewProduct{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Price:      req.Price,
		Stock:      req.Stock,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, toProductResp(p))
}
