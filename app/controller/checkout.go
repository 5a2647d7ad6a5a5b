package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/substream-labs/ms-go-recurring-payments/app/entitlement"
	"github.com/substream-labs/ms-go-recurring-payments/app/factory"
	"github.com/substream-labs/ms-go-recurring-payments/app/mapper"
	"github.com/substream-labs/ms-go-recurring-payments/app/service"
	"github.com/substream-labs/ms-go-recurring-payments/app/types"
)

type checkoutService interface {
	Subscribe(ctx context.Context, req *types.CheckoutRequest) (*service.CheckoutResult, error)
}

type entitlementResolver interface {
	Refresh(ctx context.Context, address string) (*entitlement.Snapshot, error)
}

type CheckoutController struct {
	checkoutService checkoutService
	resolver        entitlementResolver
	logger          logrus.FieldLogger
}

func NewCheckoutController(checkoutService checkoutService, resolver entitlementResolver) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		resolver:        resolver,
		logger:          factory.NewModuleLogger("checkout-controller"),
	}
}

func (c *CheckoutController) Checkout(ctx echo.Context) error {
	req, err := types.NewCheckoutRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	result, err := c.checkoutService.Subscribe(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInsufficientFunds):
			return writeError(ctx, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, service.ErrAuthorizationDenied):
			return writeError(ctx, http.StatusBadGateway, err.Error())
		case errors.Is(err, service.ErrNotConfigured):
			return writeError(ctx, http.StatusServiceUnavailable, err.Error())
		default:
			c.logger.WithError(err).Error("Checkout failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.CheckoutResponse{
		TxHash:      result.TxHash,
		TotalCost:   result.TotalCost.String(),
		Entitlement: mapper.SnapshotToResponse(result.Snapshot),
	})
}

func (c *CheckoutController) GetEntitlements(ctx echo.Context) error {
	req, err := types.NewEntitlementRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query params")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	snapshot, err := c.resolver.Refresh(ctx.Request().Context(), req.Address)
	if err != nil {
		c.logger.WithError(err).Error("Entitlement refresh failed")
		return writeError(ctx, http.StatusBadGateway, "entitlement lookup failed")
	}

	return ctx.JSON(http.StatusOK, &types.EntitlementEnvelopeResponse{
		Entitlement: mapper.SnapshotToResponse(snapshot),
	})
}
