package chi

import (
	"encoding/json"
	"net/http"
	"time"
)

type healthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// health handles GET /health
func health(checks map[string]HealthCheck) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := healthResponse{
			Status:    statusHealthy,
			Timestamp: time.Now().UTC(),
		}
		code := http.StatusOK

		if len(checks) > 0 {
			result.Dependencies = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				result.Dependencies[name] = err.Error()
				result.Status = statusUnhealthy
				code = http.StatusServiceUnavailable
				continue
			}
			result.Dependencies[name] = statusHealthy
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
