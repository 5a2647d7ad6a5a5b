package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/substream-labs/ms-go-recurring-payments/app/schedule"
)

type CreateSubscriptionRequest struct {
	UserAddress      string `json:"user_address"`
	RecipientAddress string `json:"recipient_address"`
	TokenAmount      int64  `json:"token_amount"`
	TokenSymbol      string `json:"token_symbol"`
	Frequency        string `json:"frequency"`
}

func NewCreateSubscriptionRequestFromContext(ctx echo.Context) (*CreateSubscriptionRequest, error) {
	var body CreateSubscriptionRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.UserAddress = strings.ToLower(strings.TrimSpace(body.UserAddress))
	body.RecipientAddress = strings.ToLower(strings.TrimSpace(body.RecipientAddress))
	body.TokenSymbol = strings.TrimSpace(body.TokenSymbol)
	body.Frequency = strings.ToLower(strings.TrimSpace(body.Frequency))
	return &body, nil
}

func (r *CreateSubscriptionRequest) Validate() error {
	if r.UserAddress == "" {
		return errors.New("user_address is required")
	}
	if r.RecipientAddress == "" {
		return errors.New("recipient_address is required")
	}
	if r.TokenAmount <= 0 {
		return errors.New("token_amount must be a positive integer in minor units")
	}
	if r.TokenSymbol == "" {
		return errors.New("token_symbol is required")
	}
	if _, err := schedule.ParseFrequency(r.Frequency); err != nil {
		return errors.New("frequency must be daily, weekly or monthly")
	}
	return nil
}

type UpdateSubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id"`
	UserAddress    string `json:"user_address"`
	Status         string `json:"status"`
}

func NewUpdateSubscriptionRequestFromContext(ctx echo.Context) (*UpdateSubscriptionRequest, error) {
	var body UpdateSubscriptionRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.SubscriptionID = strings.TrimSpace(body.SubscriptionID)
	body.UserAddress = strings.ToLower(strings.TrimSpace(body.UserAddress))
	body.Status = strings.ToLower(strings.TrimSpace(body.Status))
	return &body, nil
}

func (r *UpdateSubscriptionRequest) Validate() error {
	if r.SubscriptionID == "" {
		return errors.New("subscription_id is required")
	}
	if r.UserAddress == "" {
		return errors.New("user_address is required")
	}
	switch r.Status {
	case "active", "paused", "cancelled":
		return nil
	default:
		return errors.New("status must be active, paused or cancelled")
	}
}

type ListSubscriptionsRequest struct {
	UserAddress string
}

func NewListSubscriptionsRequestFromContext(ctx echo.Context) (*ListSubscriptionsRequest, error) {
	return &ListSubscriptionsRequest{
		UserAddress: strings.ToLower(strings.TrimSpace(ctx.QueryParam("user_address"))),
	}, nil
}

func (r *ListSubscriptionsRequest) Validate() error {
	if r.UserAddress == "" {
		return errors.New("user_address is required")
	}
	return nil
}

type ListActivityRequest struct {
	CreatorAddress string
}

func NewListActivityRequestFromContext(ctx echo.Context) (*ListActivityRequest, error) {
	return &ListActivityRequest{
		CreatorAddress: strings.ToLower(strings.TrimSpace(ctx.QueryParam("creator_address"))),
	}, nil
}

func (r *ListActivityRequest) Validate() error {
	return nil
}

type ListClientsRequest struct {
	CreatorAddress string
}

func NewListClientsRequestFromContext(ctx echo.Context) (*ListClientsRequest, error) {
	return &ListClientsRequest{
		CreatorAddress: strings.ToLower(strings.TrimSpace(ctx.QueryParam("creator_address"))),
	}, nil
}

func (r *ListClientsRequest) Validate() error {
	if r.CreatorAddress == "" {
		return errors.New("creator_address is required")
	}
	return nil
}

type CreatePlanRequest struct {
	CreatorAddress string `json:"creator_address"`
	Name           string `json:"name"`
	Metadata       string `json:"metadata"`
}

func NewCreatePlanRequestFromContext(ctx echo.Context) (*CreatePlanRequest, error) {
	var body CreatePlanRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.CreatorAddress = strings.ToLower(strings.TrimSpace(body.CreatorAddress))
	body.Name = strings.TrimSpace(body.Name)
	return &body, nil
}

func (r *CreatePlanRequest) Validate() error {
	if r.CreatorAddress == "" {
		return errors.New("creator_address is required")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type ListPlansRequest struct {
	CreatorAddress string
}

func NewListPlansRequestFromContext(ctx echo.Context) (*ListPlansRequest, error) {
	return &ListPlansRequest{
		CreatorAddress: strings.ToLower(strings.TrimSpace(ctx.QueryParam("creator_address"))),
	}, nil
}

func (r *ListPlansRequest) Validate() error {
	if r.CreatorAddress == "" {
		return errors.New("creator_address is required")
	}
	return nil
}

type AddPlanSubscriberRequest struct {
	PlanID            string `param:"id"`
	SubscriberAddress string `json:"subscriber_address"`
}

func NewAddPlanSubscriberRequestFromContext(ctx echo.Context) (*AddPlanSubscriberRequest, error) {
	var body AddPlanSubscriberRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.PlanID = strings.TrimSpace(ctx.Param("id"))
	body.SubscriberAddress = strings.ToLower(strings.TrimSpace(body.SubscriberAddress))
	return &body, nil
}

func (r *AddPlanSubscriberRequest) Validate() error {
	if r.PlanID == "" {
		return errors.New("plan id is required")
	}
	if r.SubscriberAddress == "" {
		return errors.New("subscriber_address is required")
	}
	return nil
}

type CheckoutRequest struct {
	Months uint64 `json:"months"`
}

func NewCheckoutRequestFromContext(ctx echo.Context) (*CheckoutRequest, error) {
	var body CheckoutRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *CheckoutRequest) Validate() error {
	if r.Months == 0 {
		return errors.New("months must be at least 1")
	}
	return nil
}

type EntitlementRequest struct {
	Address string
}

func NewEntitlementRequestFromContext(ctx echo.Context) (*EntitlementRequest, error) {
	return &EntitlementRequest{
		Address: strings.ToLower(strings.TrimSpace(ctx.QueryParam("address"))),
	}, nil
}

func (r *EntitlementRequest) Validate() error {
	if r.Address == "" {
		return errors.New("address is required")
	}
	return nil
}
