package registry

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bancali/model"
	"bancali/store"
)

// Registry manages the three location collections. Each kind is kept
// non-empty: deleting the last entry is refused and default resolution
// synthesizes an entry when a collection starts out empty.
type Registry struct {
	st *store.Store
}

func New(st *store.Store) *Registry {
	return &Registry{st: st}
}

func collectionKey(kind model.LocationKind) (string, error) {
	switch kind {
	case model.KindShop:
		return store.KeyShops, nil
	case model.KindDepot:
		return store.KeyDepots, nil
	case model.KindDriver:
		return store.KeyDrivers, nil
	}
	return "", &model.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown location kind %q", kind)}
}

func defaultLocation(kind model.LocationKind) model.Location {
	switch kind {
	case model.KindShop:
		return model.Location{ID: "shop_main", Name: "Negozio Principale", Active: true}
	case model.KindDriver:
		return model.Location{ID: "drv_main", Name: "Autista", Active: true}
	default:
		return model.Location{ID: "depot_main", Name: "Deposito Centrale", Active: true}
	}
}

func idPrefix(kind model.LocationKind) string {
	switch kind {
	case model.KindShop:
		return "shop_"
	case model.KindDriver:
		return "drv_"
	default:
		return "depot_"
	}
}

// List returns the collection in persisted order, most recent first.
func (r *Registry) List(kind model.LocationKind) ([]model.Location, error) {
	key, err := collectionKey(kind)
	if err != nil {
		return nil, err
	}
	var locations []model.Location
	if err := r.st.ReadJSON(key, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// Add creates a location and prepends it to its collection.
func (r *Registry) Add(kind model.LocationKind, name, address string) (model.Location, error) {
	key, err := collectionKey(kind)
	if err != nil {
		return model.Location{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Location{}, &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	loc := model.Location{
		ID:      idPrefix(kind) + uuid.NewString()[:8],
		Name:    name,
		Address: strings.TrimSpace(address),
		Active:  true,
	}

	var locations []model.Location
	if err := r.st.ReadJSON(key, &locations); err != nil {
		return model.Location{}, err
	}
	locations = append([]model.Location{loc}, locations...)
	if err := r.st.WriteJSON(key, locations); err != nil {
		return model.Location{}, err
	}
	log.Info().Str("kind", string(kind)).Str("id", loc.ID).Str("name", loc.Name).Msg("location added")
	return loc, nil
}

// Update patches a location in place. The id never changes.
func (r *Registry) Update(kind model.LocationKind, id string, patch model.LocationPatch) (model.Location, error) {
	key, err := collectionKey(kind)
	if err != nil {
		return model.Location{}, err
	}
	var locations []model.Location
	if err := r.st.ReadJSON(key, &locations); err != nil {
		return model.Location{}, err
	}

	for i := range locations {
		if locations[i].ID != id {
			continue
		}
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return model.Location{}, &model.ValidationError{Field: "name", Reason: "must not be empty"}
			}
			locations[i].Name = name
		}
		if patch.Address != nil {
			locations[i].Address = strings.TrimSpace(*patch.Address)
		}
		if patch.Active != nil {
			locations[i].Active = *patch.Active
		}
		if err := r.st.WriteJSON(key, locations); err != nil {
			return model.Location{}, err
		}
		return locations[i], nil
	}
	return model.Location{}, &model.NotFoundError{Kind: string(kind), ID: id}
}

// Remove deletes a location. The sole remaining entry of a kind cannot
// be removed; default-location resolution depends on non-emptiness.
func (r *Registry) Remove(kind model.LocationKind, id string) error {
	key, err := collectionKey(kind)
	if err != nil {
		return err
	}
	var locations []model.Location
	if err := r.st.ReadJSON(key, &locations); err != nil {
		return err
	}

	idx := -1
	for i := range locations {
		if locations[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &model.NotFoundError{Kind: string(kind), ID: id}
	}
	if len(locations) == 1 {
		return &model.LastItemError{Kind: kind}
	}

	locations = append(locations[:idx], locations[idx+1:]...)
	return r.st.WriteJSON(key, locations)
}

// GetOrCreateDefault returns the first entry of the collection,
// synthesizing and persisting the well-known default when it is empty.
func (r *Registry) GetOrCreateDefault(kind model.LocationKind) (model.Location, error) {
	key, err := collectionKey(kind)
	if err != nil {
		return model.Location{}, err
	}
	var locations []model.Location
	if err := r.st.ReadJSON(key, &locations); err != nil {
		return model.Location{}, err
	}
	if len(locations) > 0 {
		return locations[0], nil
	}

	loc := defaultLocation(kind)
	if err := r.st.WriteJSON(key, []model.Location{loc}); err != nil {
		return model.Location{}, err
	}
	log.Info().Str("kind", string(kind)).Str("id", loc.ID).Msg("default location created")
	return loc, nil
}

// Label resolves a display name for a reference, falling back to the
// generic kind label when the id no longer exists.
func (r *Registry) Label(kind model.LocationKind, id string) string {
	locations, err := r.List(kind)
	if err != nil {
		return kind.GenericLabel()
	}
	for _, loc := range locations {
		if loc.ID == id {
			return loc.Name
		}
	}
	return kind.GenericLabel()
}
