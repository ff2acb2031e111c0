package supabase

import (
	"context"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// PaymentStore implements domain.PaymentStore over the pagos table.
type PaymentStore struct {
	client *Client
}

// NewPaymentStore creates a payment store.
func NewPaymentStore(client *Client) *PaymentStore {
	return &PaymentStore{client: client}
}

func (s *PaymentStore) Create(ctx context.Context, p domain.Payment) (*domain.Payment, error) {
	var out domain.Payment
	if err := s.client.Insert(ctx, "pagos", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentStore) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	var out domain.Payment
	if err := s.client.SelectOne(ctx, "pagos", map[string]string{"id": "eq." + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentStore) ListByReservation(ctx context.Context, reservationID string) ([]domain.Payment, error) {
	filters := map[string]string{"reserva_id": "eq." + reservationID}
	var out []domain.Payment
	if err := s.client.Select(ctx, "pagos", filters, "created_at.desc", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PaymentStore) FindByProviderTxID(ctx context.Context, txID string) (*domain.Payment, error) {
	var out domain.Payment
	if err := s.client.SelectOne(ctx, "pagos", map[string]string{"proveedor_tx_id": "eq." + txID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentStore) Update(ctx context.Context, id string, patch domain.PaymentPatch) (*domain.Payment, error) {
	fields := map[string]any{}
	if patch.Estado != nil {
		fields["estado"] = *patch.Estado
	}
	if patch.ProviderTxID != nil {
		fields["proveedor_tx_id"] = *patch.ProviderTxID
	}
	if patch.ReceiptURL != nil {
		fields["recibo_url"] = *patch.ReceiptURL
	}

	var out domain.Payment
	if err := s.client.UpdateByID(ctx, "pagos", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
