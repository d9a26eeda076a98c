package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/application/onboarding"
)

// OnboardingHandler maneja aplicaciones de vendor, escrow y tesorería.
type OnboardingHandler struct {
	uc *onboarding.UseCase
}

// NewOnboardingHandler construye el handler de onboarding.
func NewOnboardingHandler(uc *onboarding.UseCase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

// RequiredStake godoc
// @Summary      Stake requerido para aplicar
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  dto.StakeResponse
// @Router       /api/onboarding/stake [get]
func (h *OnboardingHandler) RequiredStake(c *fiber.Ctx) error {
	return c.JSON(dto.StakeResponse{RequiredStake: h.uc.RequiredStake()})
}

// Apply godoc
// @Summary      Aplicar como vendor con stake en escrow
// @Tags         onboarding
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyRequest  true  "metadata_uri, payment"
// @Success      201   {object}  dto.ApplicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/onboarding/applications [post]
func (h *OnboardingHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Apply(c.Context(), GetAddress(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetApplication godoc
// @Summary      Aplicación de un solicitante
// @Tags         onboarding
// @Security     Bearer
// @Produce      json
// @Param        applicant  path  string  true  "address del solicitante"
// @Success      200  {object}  dto.ApplicationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/onboarding/applications/{applicant} [get]
func (h *OnboardingHandler) GetApplication(c *fiber.Ctx) error {
	out, err := h.uc.GetApplication(c.Params("applicant"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar aplicación: otorga vendor y retiene el stake (admin-only)
// @Tags         onboarding
// @Security     Bearer
// @Produce      json
// @Param        applicant  path  string  true  "address del solicitante"
// @Success      200  {object}  dto.ApplicationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/onboarding/applications/{applicant}/approve [post]
func (h *OnboardingHandler) Approve(c *fiber.Ctx) error {
	applicant := c.Params("applicant")
	if err := h.uc.Approve(c.Context(), GetAddress(c), applicant); err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.GetApplication(applicant)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar aplicación: devuelve el stake completo (admin-only)
// @Tags         onboarding
// @Security     Bearer
// @Produce      json
// @Param        applicant  path  string  true  "address del solicitante"
// @Success      200  {object}  dto.ApplicationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/onboarding/applications/{applicant}/reject [post]
func (h *OnboardingHandler) Reject(c *fiber.Ctx) error {
	applicant := c.Params("applicant")
	if err := h.uc.Reject(c.Context(), GetAddress(c), applicant); err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.GetApplication(applicant)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Treasury godoc
// @Summary      Saldo de tesorería (admin-only)
// @Tags         onboarding
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TreasuryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/onboarding/treasury [get]
func (h *OnboardingHandler) Treasury(c *fiber.Ctx) error {
	out, err := h.uc.TreasuryBalance(GetAddress(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Withdraw godoc
// @Summary      Retirar fondos de tesorería hacia una cuenta (admin-only)
// @Tags         onboarding
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WithdrawRequest  true  "to, amount"
// @Success      200   {object}  dto.TreasuryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/onboarding/treasury/withdraw [post]
func (h *OnboardingHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.WithdrawRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	caller := GetAddress(c)
	if err := h.uc.WithdrawTreasury(c.Context(), caller, in.To, in.Amount); err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.TreasuryBalance(caller)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
