package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/substream-labs/ms-go-recurring-payments/app/factory"
	"github.com/substream-labs/ms-go-recurring-payments/app/mapper"
	"github.com/substream-labs/ms-go-recurring-payments/app/service"
	"github.com/substream-labs/ms-go-recurring-payments/app/types"
)

type PlanController struct {
	planService *service.PlanService
	logger      logrus.FieldLogger
}

func NewPlanController(planService *service.PlanService) *PlanController {
	return &PlanController{
		planService: planService,
		logger:      factory.NewModuleLogger("plans-controller"),
	}
}

func (c *PlanController) CreatePlan(ctx echo.Context) error {
	req, err := types.NewCreatePlanRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	item, err := c.planService.CreatePlan(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return writeError(ctx, http.StatusBadRequest, err.Error())
		}
		c.logger.WithError(err).Error("Create plan failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, &types.PlanEnvelopeResponse{
		Plan: mapper.BillingPlanToResponse(item),
	})
}

func (c *PlanController) ListPlans(ctx echo.Context) error {
	req, err := types.NewListPlansRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query params")
	}

	items, err := c.planService.ListPlans(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return writeError(ctx, http.StatusBadRequest, err.Error())
		}
		c.logger.WithError(err).Error("List plans failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListPlansResponse{
		Plans: mapper.BillingPlansToResponse(items),
	})
}

func (c *PlanController) AddSubscriber(ctx echo.Context) error {
	req, err := types.NewAddPlanSubscriberRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	item, err := c.planService.AddSubscriber(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			return writeError(ctx, http.StatusNotFound, "plan not found")
		default:
			c.logger.WithError(err).Error("Add plan subscriber failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &types.PlanSubscriberEnvelopeResponse{
		PlanSubscriber: mapper.PlanSubscriptionToResponse(item),
	})
}

func (c *PlanController) ListActivity(ctx echo.Context) error {
	req, err := types.NewListActivityRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query params")
	}

	items, err := c.planService.ListActivity(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return writeError(ctx, http.StatusBadRequest, err.Error())
		}
		c.logger.WithError(err).Error("List activity failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListActivityResponse{
		Activities: mapper.ActivityEntriesToResponse(items),
	})
}

func (c *PlanController) ListClients(ctx echo.Context) error {
	req, err := types.NewListClientsRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query params")
	}

	items, err := c.planService.ListClients(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return writeError(ctx, http.StatusBadRequest, err.Error())
		}
		c.logger.WithError(err).Error("List clients failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListClientsResponse{
		Clients: mapper.ClientSummariesToResponse(items),
	})
}
