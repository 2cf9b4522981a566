package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/platform/internal/core/ports"
)

type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create adds a product owned by the calling seller.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.products.Create(c.Request().Context(), ports.CreateProductInput{
		Title:         req.Title,
		Description:   req.Description,
		PriceAmount:   req.PriceAmount,
		PriceCurrency: req.PriceCurrency,
		SellerID:      claims.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productResponse{Data: p})
}

// Get returns a single product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Data: p})
}

// List returns one page of products, newest first.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        sellerId  query     string  false  "Only this seller's products"
// @Success      200       {object}  productListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q listProductsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	res, err := h.products.List(c.Request().Context(), ports.ListProductsFilter{
		SellerID: q.SellerID,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{
		Data:       res.Items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Delete removes a product owned by the caller.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.Request().Context(), c.Param("id"), claims.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}
