package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/shop-api/internal/core/domain"
	"github.com/storefront/shop-api/internal/core/ports"
)

// ProductHandler serves the read-only catalog.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List returns all products, optionally filtered.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Category (case-insensitive)"
// @Param        search    query     string  false  "Text in title or description"
// @Param        q         query     string  false  "Alias of search"
// @Param        minPrice  query     number  false  "Minimum price (inclusive)"
// @Param        maxPrice  query     number  false  "Maximum price (inclusive)"
// @Success      200       {object}  productListResponse
// @Failure      400       {object}  ErrorResponse
// @Router       /products [get]
// @Router       /products/search [get]
func (h *ProductHandler) List(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	return h.list(c, filter)
}

// ByCategory returns the products of the category named in the path.
//
// @Summary      List products by category
// @Tags         products
// @Produce      json
// @Param        name  path      string  true  "Category"
// @Success      200   {object}  productListResponse
// @Router       /products/category/{name} [get]
func (h *ProductHandler) ByCategory(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	filter.Category = segment(c, 2)
	return h.list(c, filter)
}

// Get returns a single product by numeric id.
//
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(segment(c, 1), 10, 64)
	if err != nil {
		return domain.ErrProductNotFound
	}

	product, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Success: true, Data: product})
}

func (h *ProductHandler) list(c echo.Context, filter ports.ProductFilter) error {
	products, err := h.service.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{
		Success: true,
		Count:   len(products),
		Data:    products,
	})
}

func parseFilter(c echo.Context) (ports.ProductFilter, error) {
	filter := ports.ProductFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	if filter.Search == "" {
		filter.Search = c.QueryParam("q")
	}

	var err error
	if filter.MinPrice, err = priceParam(c, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = priceParam(c, "maxPrice"); err != nil {
		return filter, err
	}
	return filter, nil
}

func priceParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be a number", name))
	}
	return &v, nil
}
