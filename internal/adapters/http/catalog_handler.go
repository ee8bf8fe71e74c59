package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/ports"
)

// CatalogHandler serves products and used phone listings
type CatalogHandler struct {
	catalogService ports.CatalogService
	logger         *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService ports.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListProducts lists active products
// @Summary List products
// @Description Active products, newest first
// @Tags catalog
// @Produce json
// @Param category query string false "Category" Enums(iphone, ipad, mac, watch, airpods, accessory)
// @Param in_stock query bool false "Only products in stock"
// @Param q query string false "Search in name and description"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} ports.PaginatedResponse[entities.Product]
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	return h.listProducts(c, true)
}

// AdminListProducts lists every product including hidden ones
func (h *CatalogHandler) AdminListProducts(c echo.Context) error {
	return h.listProducts(c, false)
}

func (h *CatalogHandler) listProducts(c echo.Context, activeOnly bool) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}

	filter := ports.ProductFilter{
		ActiveOnly: activeOnly,
		Search:     optionalString(c, "q"),
		Limit:      limit,
		Offset:     offset,
	}
	if cat := c.QueryParam("category"); cat != "" {
		category := entities.ProductCategory(cat)
		if !category.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid category parameter")
		}
		filter.Category = &category
	}
	if filter.InStock, err = parseOptionalBool(c, "in_stock"); err != nil {
		return err
	}

	products, total, err := h.catalogService.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, paginated(products, total, limit, offset))
}

// GetProduct returns an active product
// @Summary Get product
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} entities.Product
// @Failure 404 {object} ports.ErrorResponse
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.catalogService.GetProduct(c.Request().Context(), id, true)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req ports.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return errorStatus(err)
	}

	logAdminAction(h.logger, c, "create_product", product.ID.String())
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return errorStatus(err)
	}

	logAdminAction(h.logger, c, "update_product", id.String())
	return c.JSON(http.StatusOK, product)
}

// UpdatePrice changes a product's price
// @Summary Update product price
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param price body ports.UpdatePriceRequest true "New price in Toman"
// @Success 200 {object} entities.Product
// @Router /admin/products/{id}/price [patch]
func (h *CatalogHandler) UpdatePrice(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdatePriceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.UpdatePrice(c.Request().Context(), id, *req.Price)
	if err != nil {
		return errorStatus(err)
	}

	logAdminAction(h.logger, c, "update_price", id.String())
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteProduct(c.Request().Context(), id); err != nil {
		return errorStatus(err)
	}

	logAdminAction(h.logger, c, "delete_product", id.String())
	return c.NoContent(http.StatusNoContent)
}

// ListUsedPhones lists unsold used phones
// @Summary List used phones
// @Tags catalog
// @Produce json
// @Param model query string false "Model search"
// @Param max_price query int false "Maximum price in Toman"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} ports.PaginatedResponse[entities.UsedPhone]
// @Router /used-phones [get]
func (h *CatalogHandler) ListUsedPhones(c echo.Context) error {
	return h.listUsedPhones(c, false)
}

// AdminListUsedPhones lists used phones including sold ones
func (h *CatalogHandler) AdminListUsedPhones(c echo.Context) error {
	return h.listUsedPhones(c, true)
}

func (h *CatalogHandler) listUsedPhones(c echo.Context, includeSold bool) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}

	filter := ports.UsedPhoneFilter{
		Model:       optionalString(c, "model"),
		IncludeSold: includeSold,
		Limit:       limit,
		Offset:      offset,
	}
	if s := c.QueryParam("max_price"); s != "" {
		maxPrice, err := strconv.ParseInt(s, 10, 64)
		if err != nil || maxPrice < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid max_price parameter")
		}
		filter.MaxPrice = &maxPrice
	}

	phones, total, err := h.catalogService.ListUsedPhones(c.Request().Context(), filter)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, paginated(phones, total, limit, offset))
}

// GetUsedPhone returns a used phone listing
// @Summary Get used phone
// @Tags catalog
// @Produce json
// @Param id path string true "Used phone ID"
// @Success 200 {object} entities.UsedPhone
// @Failure 404 {object} ports.ErrorResponse
// @Router /used-phones/{id} [get]
func (h *CatalogHandler) GetUsedPhone(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	phone, err := h.catalogService.GetUsedPhone(c.Request().Context(), id)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, phone)
}

func (h *CatalogHandler) CreateUsedPhone(c echo.Context) error {
	var req ports.CreateUsedPhoneRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	phone, err := h.catalogService.CreateUsedPhone(c.Request().Context(), req)
	if err != nil {
		return errorStatus(err)
	}

	logAdminAction(h.logger, c, "create_used_phone", phone.ID.String())
	return c.JSON(http.StatusCreated, phone)
}

func (h *CatalogHandler) UpdateUsedPhone(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateUsedPhoneRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	phone, err := h.catalogService.UpdateUsedPhone(c.Request().Context(), id, req)
	if err != nil {
		return errorStatus(err)
	}

	logAdminAction(h.logger, c, "update_used_phone", id.String())
	return c.JSON(http.StatusOK, phone)
}

func (h *CatalogHandler) MarkUsedPhoneSold(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	phone, err := h.catalogService.MarkUsedPhoneSold(c.Request().Context(), id)
	if err != nil {
		return errorStatus(err)
	}

	logAdminAction(h.logger, c, "mark_used_phone_sold", id.String())
	return c.JSON(http.StatusOK, phone)
}

func (h *CatalogHandler) DeleteUsedPhone(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteUsedPhone(c.Request().Context(), id); err != nil {
		return errorStatus(err)
	}

	logAdminAction(h.logger, c, "delete_used_phone", id.String())
	return c.NoContent(http.StatusNoContent)
}
