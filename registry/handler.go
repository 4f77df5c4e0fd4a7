package registry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"bancali/model"
)

func statusFor(err error) int {
	var ve *model.ValidationError
	var nf *model.NotFoundError
	var li *model.LastItemError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &li):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func kindFromQuery(r *http.Request) (model.LocationKind, bool) {
	kind := model.LocationKind(r.URL.Query().Get("kind"))
	return kind, kind.Valid()
}

// LocationsHandler serves GET (list) and POST (add) on /api/locations.
func LocationsHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			kind, ok := kindFromQuery(r)
			if !ok {
				http.Error(w, "kind query parameter is required (NEGOZIO, DEPOSITO, AUTISTA)", http.StatusBadRequest)
				return
			}
			locations, err := reg.List(kind)
			if err != nil {
				log.Error().Err(err).Str("kind", string(kind)).Msg("list locations failed")
				http.Error(w, "Failed to list locations", http.StatusInternalServerError)
				return
			}
			if locations == nil {
				locations = []model.Location{}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(locations)

		case http.MethodPost:
			var input struct {
				Kind    model.LocationKind `json:"kind"`
				Name    string             `json:"name"`
				Address string             `json:"address"`
			}
			if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
			loc, err := reg.Add(input.Kind, input.Name, input.Address)
			if err != nil {
				http.Error(w, err.Error(), statusFor(err))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(loc)

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
}

// UpdateLocationHandler patches one location: POST /api/locations/update.
func UpdateLocationHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Kind model.LocationKind  `json:"kind"`
			ID   string              `json:"id"`
			model.LocationPatch
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		loc, err := reg.Update(input.Kind, input.ID, input.LocationPatch)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(loc)
	}
}

// DeleteLocationHandler removes one location:
// POST /api/locations/delete/{kind}/{id}.
func DeleteLocationHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/locations/delete/")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			http.Error(w, "kind and id are required", http.StatusBadRequest)
			return
		}
		kind := model.LocationKind(parts[0])
		if err := reg.Remove(kind, parts[1]); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}
}
