package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/application/registry"
)

// RegistryHandler maneja roles de cuenta y configuración del registro.
type RegistryHandler struct {
	uc *registry.UseCase
}

// NewRegistryHandler construye el handler del registro.
func NewRegistryHandler(uc *registry.UseCase) *RegistryHandler {
	return &RegistryHandler{uc: uc}
}

// RegisterClient godoc
// @Summary      Auto-registro como client (solo desde rol NONE)
// @Tags         registry
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RoleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/registry/client [post]
func (h *RegistryHandler) RegisterClient(c *fiber.Ctx) error {
	caller := GetAddress(c)
	if err := h.uc.RegisterClient(c.Context(), caller); err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.RoleOf(caller)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// GrantAdmin godoc
// @Summary      Otorgar rol admin (admin-only)
// @Tags         registry
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GrantRoleRequest  true  "address destino"
// @Success      200   {object}  dto.RoleResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/registry/admins [post]
func (h *RegistryHandler) GrantAdmin(c *fiber.Ctx) error {
	var in dto.GrantRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "address es requerido"})
	}
	if err := h.uc.GrantAdmin(c.Context(), GetAddress(c), in.Address); err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.RoleOf(in.Address)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// GrantVendor godoc
// @Summary      Otorgar rol vendor directamente (admin-only)
// @Tags         registry
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GrantRoleRequest  true  "address destino"
// @Success      200   {object}  dto.RoleResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/registry/vendors [post]
func (h *RegistryHandler) GrantVendor(c *fiber.Ctx) error {
	var in dto.GrantRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "address es requerido"})
	}
	if err := h.uc.GrantVendor(c.Context(), GetAddress(c), in.Address); err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.RoleOf(in.Address)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// SetVendorActive godoc
// @Summary      Suspender o reactivar a un vendor (admin-only)
// @Tags         registry
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        address  path  string  true  "address del vendor"
// @Param        body     body  dto.SetVendorActiveRequest  true  "active"
// @Success      200      {object}  dto.RoleResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/registry/vendors/{address}/active [put]
func (h *RegistryHandler) SetVendorActive(c *fiber.Ctx) error {
	address := c.Params("address")
	var in dto.SetVendorActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetVendorActive(c.Context(), GetAddress(c), address, in.Active); err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.RoleOf(address)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Revoke godoc
// @Summary      Revocar el rol de una cuenta (admin-only)
// @Tags         registry
// @Security     Bearer
// @Produce      json
// @Param        address  path  string  true  "address destino"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/registry/roles/{address} [delete]
func (h *RegistryHandler) Revoke(c *fiber.Ctx) error {
	caller := GetAddress(c)
	target := c.Params("address")
	var err error
	if target == caller {
		err = h.uc.RenounceRole(c.Context(), caller)
	} else {
		err = h.uc.RevokeRole(c.Context(), caller, target)
	}
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Renounce godoc
// @Summary      Renunciar al propio rol
// @Tags         registry
// @Security     Bearer
// @Produce      json
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/registry/role [delete]
func (h *RegistryHandler) Renounce(c *fiber.Ctx) error {
	if err := h.uc.RenounceRole(c.Context(), GetAddress(c)); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetModule godoc
// @Summary      Configurar la clave del módulo de onboarding (una sola vez)
// @Tags         registry
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetModuleRequest  true  "module"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/registry/module [put]
func (h *RegistryHandler) SetModule(c *fiber.Ctx) error {
	var in dto.SetModuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Module == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "module es requerido"})
	}
	if err := h.uc.SetOnboardingModule(c.Context(), GetAddress(c), in.Module); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RoleOf godoc
// @Summary      Rol actual de una cuenta
// @Tags         registry
// @Produce      json
// @Param        address  path  string  true  "address"
// @Success      200  {object}  dto.RoleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/registry/roles/{address} [get]
func (h *RegistryHandler) RoleOf(c *fiber.Ctx) error {
	out, err := h.uc.RoleOf(c.Params("address"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
