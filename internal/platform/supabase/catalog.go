package supabase

import (
	"context"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// EstablishmentStore implements domain.EstablishmentStore over the
// establecimientos table.
type EstablishmentStore struct {
	client *Client
}

func NewEstablishmentStore(client *Client) *EstablishmentStore {
	return &EstablishmentStore{client: client}
}

func (s *EstablishmentStore) Create(ctx context.Context, e domain.Establishment) (*domain.Establishment, error) {
	var out domain.Establishment
	if err := s.client.Insert(ctx, "establecimientos", e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *EstablishmentStore) FindByID(ctx context.Context, id string) (*domain.Establishment, error) {
	var out domain.Establishment
	if err := s.client.SelectOne(ctx, "establecimientos", map[string]string{"id": "eq." + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *EstablishmentStore) List(ctx context.Context) ([]domain.Establishment, error) {
	var out []domain.Establishment
	if err := s.client.Select(ctx, "establecimientos", nil, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *EstablishmentStore) Update(ctx context.Context, id string, fields map[string]any) (*domain.Establishment, error) {
	var out domain.Establishment
	if err := s.client.UpdateByID(ctx, "establecimientos", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *EstablishmentStore) Delete(ctx context.Context, id string) error {
	return s.client.DeleteByID(ctx, "establecimientos", id)
}

// ParkingLotStore implements domain.ParkingLotStore over the
// estacionamientos table.
type ParkingLotStore struct {
	client *Client
}

func NewParkingLotStore(client *Client) *ParkingLotStore {
	return &ParkingLotStore{client: client}
}

func (s *ParkingLotStore) Create(ctx context.Context, p domain.ParkingLot) (*domain.ParkingLot, error) {
	var out domain.ParkingLot
	if err := s.client.Insert(ctx, "estacionamientos", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ParkingLotStore) FindByID(ctx context.Context, id string) (*domain.ParkingLot, error) {
	var out domain.ParkingLot
	if err := s.client.SelectOne(ctx, "estacionamientos", map[string]string{"id": "eq." + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ParkingLotStore) List(ctx context.Context) ([]domain.ParkingLot, error) {
	var out []domain.ParkingLot
	if err := s.client.Select(ctx, "estacionamientos", nil, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ParkingLotStore) ListByEstablishment(ctx context.Context, establishmentID string) ([]domain.ParkingLot, error) {
	filters := map[string]string{"establecimiento_id": "eq." + establishmentID}
	var out []domain.ParkingLot
	if err := s.client.Select(ctx, "estacionamientos", filters, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ParkingLotStore) Update(ctx context.Context, id string, fields map[string]any) (*domain.ParkingLot, error) {
	var out domain.ParkingLot
	if err := s.client.UpdateByID(ctx, "estacionamientos", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ParkingLotStore) Delete(ctx context.Context, id string) error {
	return s.client.DeleteByID(ctx, "estacionamientos", id)
}

// TariffStore implements domain.TariffStore over the tarifas table.
type TariffStore struct {
	client *Client
}

func NewTariffStore(client *Client) *TariffStore {
	return &TariffStore{client: client}
}

func (s *TariffStore) Create(ctx context.Context, t domain.Tariff) (*domain.Tariff, error) {
	var out domain.Tariff
	if err := s.client.Insert(ctx, "tarifas", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TariffStore) FindByID(ctx context.Context, id string) (*domain.Tariff, error) {
	var out domain.Tariff
	if err := s.client.SelectOne(ctx, "tarifas", map[string]string{"id": "eq." + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TariffStore) List(ctx context.Context) ([]domain.Tariff, error) {
	var out []domain.Tariff
	if err := s.client.Select(ctx, "tarifas", nil, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TariffStore) Update(ctx context.Context, id string, fields map[string]any) (*domain.Tariff, error) {
	var out domain.Tariff
	if err := s.client.UpdateByID(ctx, "tarifas", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TariffStore) Delete(ctx context.Context, id string) error {
	return s.client.DeleteByID(ctx, "tarifas", id)
}

// CancellationPolicyStore implements domain.CancellationPolicyStore over the
// politicas_cancelacion table.
type CancellationPolicyStore struct {
	client *Client
}

func NewCancellationPolicyStore(client *Client) *CancellationPolicyStore {
	return &CancellationPolicyStore{client: client}
}

func (s *CancellationPolicyStore) Create(ctx context.Context, p domain.CancellationPolicy) (*domain.CancellationPolicy, error) {
	var out domain.CancellationPolicy
	if err := s.client.Insert(ctx, "politicas_cancelacion", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CancellationPolicyStore) FindByID(ctx context.Context, id string) (*domain.CancellationPolicy, error) {
	var out domain.CancellationPolicy
	if err := s.client.SelectOne(ctx, "politicas_cancelacion", map[string]string{"id": "eq." + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CancellationPolicyStore) List(ctx context.Context) ([]domain.CancellationPolicy, error) {
	var out []domain.CancellationPolicy
	if err := s.client.Select(ctx, "politicas_cancelacion", nil, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CancellationPolicyStore) Update(ctx context.Context, id string, fields map[string]any) (*domain.CancellationPolicy, error) {
	var out domain.CancellationPolicy
	if err := s.client.UpdateByID(ctx, "politicas_cancelacion", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CancellationPolicyStore) Delete(ctx context.Context, id string) error {
	return s.client.DeleteByID(ctx, "politicas_cancelacion", id)
}
