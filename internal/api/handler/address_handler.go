package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/platform/internal/core/ports"
)

// AddressHandler serves the caller's own address list. The user is always
// taken from the session claims, never from the path.
type AddressHandler struct {
	addresses ports.AddressService
}

func NewAddressHandler(addresses ports.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// List returns the caller's addresses and the default address ID.
//
// @Summary      List my addresses
// @Tags         addresses
// @Produce      json
// @Success      200  {object}  addressListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/auth/users/me/addresses [get]
func (h *AddressHandler) List(c echo.Context) error {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return err
	}

	book, err := h.addresses.List(c.Request().Context(), claims.ID)
	if err != nil {
		return err
	}

	resp := addressListResponse{
		Message:   "User addresses fetched successfully",
		Addresses: book.Addresses,
	}
	if book.DefaultAddressID != "" {
		resp.DefaultAddressID = &book.DefaultAddressID
	}
	return c.JSON(http.StatusOK, resp)
}

// Add appends an address; isDefault=true demotes every other address.
//
// @Summary      Add an address
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        body  body      addressRequest  true  "Address"
// @Success      201   {object}  addressResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/auth/users/me/addresses [post]
func (h *AddressHandler) Add(c echo.Context) error {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	addr, err := h.addresses.Add(c.Request().Context(), claims.ID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, addressResponse{Message: "Address added successfully", Address: addr})
}

// Delete removes one address and returns the remaining list.
//
// @Summary      Delete an address
// @Tags         addresses
// @Produce      json
// @Param        addressId  path      string  true  "Address ID"
// @Success      200        {object}  addressDeleteResponse
// @Failure      401        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /api/auth/users/me/addresses/{addressId} [delete]
func (h *AddressHandler) Delete(c echo.Context) error {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return err
	}

	remaining, err := h.addresses.Delete(c.Request().Context(), claims.ID, c.Param("addressId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, addressDeleteResponse{Message: "Address deleted successfully", Addresses: remaining})
}
