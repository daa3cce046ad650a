package driver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NotrixInc/nx-equipment-driver/driverrpc"
)

// NewAdminRouter serves container probes next to the gRPC listener.
// heartbeat may be nil when the gateway heartbeat is disabled.
func NewAdminRouter(svc *Service, resolver *Resolver, heartbeat *Poller, logger Logger) http.Handler {
	if logger == nil {
		logger = NewNopLogger()
	}
	writeJSON := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Warn("admin write failed", "error", err)
		}
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		reply, _ := svc.GetDriverStatus(req.Context(), &driverrpc.GetDriverStatusRequest{})
		writeJSON(w, http.StatusOK, reply)
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if heartbeat == nil {
			writeJSON(w, http.StatusOK, map[string]string{"upstream": "disabled"})
			return
		}
		st := heartbeat.Status()
		code := http.StatusOK
		if !st.Healthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, st)
	})

	r.Get("/parameters", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"parameters": resolver.Keys()})
	})

	return r
}
