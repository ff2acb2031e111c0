package supabase

import (
	"context"
	"time"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// SlotStore implements domain.SlotStore over the slots table.
type SlotStore struct {
	client *Client
}

// NewSlotStore creates a slot store.
func NewSlotStore(client *Client) *SlotStore {
	return &SlotStore{client: client}
}

func (s *SlotStore) Create(ctx context.Context, slot domain.Slot) (*domain.Slot, error) {
	var out domain.Slot
	if err := s.client.Insert(ctx, "slots", slot, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SlotStore) FindByID(ctx context.Context, id string) (*domain.Slot, error) {
	var out domain.Slot
	if err := s.client.SelectOne(ctx, "slots", map[string]string{"id": "eq." + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SlotStore) List(ctx context.Context) ([]domain.Slot, error) {
	var out []domain.Slot
	if err := s.client.Select(ctx, "slots", nil, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SlotStore) ListByParkingLot(ctx context.Context, parkingLotID string) ([]domain.Slot, error) {
	filters := map[string]string{"estacionamiento_id": "eq." + parkingLotID}
	var out []domain.Slot
	if err := s.client.Select(ctx, "slots", filters, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByEstablishment resolves the establishment's parking lots first, then
// fetches the slots whose estacionamiento_id is among them.
func (s *SlotStore) ListByEstablishment(ctx context.Context, establishmentID string) ([]domain.Slot, error) {
	var lots []struct {
		ID string `json:"id"`
	}
	filters := map[string]string{"establecimiento_id": "eq." + establishmentID}
	if err := s.client.Select(ctx, "estacionamientos", filters, "", 0, &lots); err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(lots))
	for _, lot := range lots {
		ids = append(ids, lot.ID)
	}

	var out []domain.Slot
	if err := s.client.Select(ctx, "slots", map[string]string{"estacionamiento_id": inList(ids)}, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SlotStore) Update(ctx context.Context, id string, patch domain.SlotPatch) (*domain.Slot, error) {
	fields := map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if patch.Codigo != nil {
		fields["codigo"] = *patch.Codigo
	}
	if patch.Tipo != nil {
		fields["tipo"] = *patch.Tipo
	}
	if patch.AnchoCM != nil {
		fields["ancho_cm"] = *patch.AnchoCM
	}
	if patch.LargoCM != nil {
		fields["largo_cm"] = *patch.LargoCM
	}
	if patch.UbicacionLocal != nil {
		fields["ubicacion_local"] = patch.UbicacionLocal
	}
	if patch.EstadoOperativo != nil {
		fields["estado_operativo"] = *patch.EstadoOperativo
	}
	if patch.TarifaID != nil {
		fields["tarifa_id"] = *patch.TarifaID
	}
	if patch.EsReservable != nil {
		fields["es_reservable"] = *patch.EsReservable
	}

	var out domain.Slot
	if err := s.client.UpdateByID(ctx, "slots", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SlotStore) Delete(ctx context.Context, id string) error {
	return s.client.DeleteByID(ctx, "slots", id)
}
