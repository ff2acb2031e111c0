// Package mercadopago implements the domain.MercadoPagoGateway interface
// using the Mercado Pago SDK.
package mercadopago

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/merchantorder"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// Adapter wraps the SDK clients behind the domain gateway interface.
type Adapter struct {
	preferenceClient    preference.Client
	paymentClient       payment.Client
	merchantOrderClient merchantorder.Client
	notificationURL     string
}

// NewAdapter creates a Mercado Pago adapter with the platform access token.
func NewAdapter(accessToken, notificationURL string) (*Adapter, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create MP config: %w", err)
	}
	return &Adapter{
		preferenceClient:    preference.NewClient(cfg),
		paymentClient:       payment.NewClient(cfg),
		merchantOrderClient: merchantorder.NewClient(cfg),
		notificationURL:     notificationURL,
	}, nil
}

// CreatePreference creates a Checkout Pro preference. The external
// reference carries our payment id so the webhook can find it again.
func (a *Adapter) CreatePreference(ctx context.Context, req domain.OrderRequest) (*domain.Preference, error) {
	request := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:      req.Description,
				Quantity:   1,
				UnitPrice:  req.Amount,
				CurrencyID: req.Currency,
			},
		},
		ExternalReference: req.ExternalReference,
		AutoReturn:        "approved",
		BackURLs: &preference.BackURLsRequest{
			Success: req.ReturnURLs.Success,
			Pending: req.ReturnURLs.Pending,
			Failure: req.ReturnURLs.Failure,
		},
		NotificationURL: a.notificationURL,
	}

	result, err := a.preferenceClient.Create(ctx, request)
	if err != nil {
		return nil, domain.NewError(domain.ErrProvider, fmt.Sprintf("failed to create preference: %v", err), "MP_ERROR")
	}

	return &domain.Preference{
		ID:        result.ID,
		InitPoint: result.InitPoint,
	}, nil
}

// GetPayment retrieves a payment resource. The SDK uses int payment ids.
func (a *Adapter) GetPayment(ctx context.Context, paymentID string) (*domain.ProviderPayment, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, domain.NewError(domain.ErrProvider, fmt.Sprintf("invalid payment id %q", paymentID), "MP_BAD_ID")
	}

	result, err := a.paymentClient.Get(ctx, id)
	if err != nil {
		return nil, domain.NewError(domain.ErrProvider, fmt.Sprintf("failed to get payment %s: %v", paymentID, err), "MP_ERROR")
	}

	var receiptURL *string
	if url := result.TransactionDetails.ExternalResourceURL; url != "" {
		receiptURL = &url
	}

	return &domain.ProviderPayment{
		ID:                strconv.Itoa(result.ID),
		Status:            result.Status,
		ExternalReference: result.ExternalReference,
		ReceiptURL:        receiptURL,
	}, nil
}

// GetMerchantOrder retrieves a merchant order with its payments.
func (a *Adapter) GetMerchantOrder(ctx context.Context, orderID string) (*domain.MerchantOrder, error) {
	id, err := strconv.Atoi(orderID)
	if err != nil {
		return nil, domain.NewError(domain.ErrProvider, fmt.Sprintf("invalid merchant order id %q", orderID), "MP_BAD_ID")
	}

	result, err := a.merchantOrderClient.Get(ctx, id)
	if err != nil {
		return nil, domain.NewError(domain.ErrProvider, fmt.Sprintf("failed to get merchant order %s: %v", orderID, err), "MP_ERROR")
	}

	payments := make([]domain.ProviderPayment, 0, len(result.Payments))
	for _, p := range result.Payments {
		payments = append(payments, domain.ProviderPayment{
			ID:     strconv.Itoa(p.ID),
			Status: p.Status,
		})
	}

	return &domain.MerchantOrder{
		ExternalReference: result.ExternalReference,
		Payments:          payments,
	}, nil
}
