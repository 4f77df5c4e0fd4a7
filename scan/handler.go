package scan

import (
	"encoding/json"
	"net/http"
)

// CamerasHandler enumerates capture devices of the configured source.
// Without a source the list is empty; the operator falls back to manual
// entry.
func CamerasHandler(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cameras := []Camera{}
		if src != nil {
			found, err := src.EnumerateCameras()
			if err != nil {
				http.Error(w, "Failed to enumerate cameras", http.StatusInternalServerError)
				return
			}
			if found != nil {
				cameras = found
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cameras)
	}
}
