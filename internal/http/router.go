package httpserver

import (
	"net/http"

	"loungepos/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Auth      *handlers.AuthHandlers
	Stations  *handlers.StationsHandlers
	Sessions  *handlers.SessionsHandlers
	Payments  *handlers.PaymentsHandlers
	Customers *handlers.CustomersHandlers
	Games     *handlers.GamesHandlers
	Reports   *handlers.ReportsHandlers
	Health    http.HandlerFunc
	DebugLogs http.HandlerFunc
	WS        http.HandlerFunc
}

// NewRouter wires HTTP routes. Mutating routes outside /auth go through the
// auth middleware.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	guarded := func(handler http.HandlerFunc) http.HandlerFunc {
		wrapped := authMiddleware(handler)
		return func(w http.ResponseWriter, r *http.Request) {
			wrapped.ServeHTTP(w, r)
		}
	}

	mux.Handle("/health", method(http.MethodGet, deps.Health))
	mux.Handle("/debug/logs", method(http.MethodGet, deps.DebugLogs))
	mux.Handle("/ws", method(http.MethodGet, deps.WS))

	mux.Handle("/auth/register", method(http.MethodPost, deps.Auth.Register))
	mux.Handle("/auth/login", method(http.MethodPost, deps.Auth.Login))

	mux.Handle("/stations", methods(map[string]http.HandlerFunc{
		http.MethodGet:  deps.Stations.List,
		http.MethodPost: guarded(deps.Stations.Create),
	}))
	mux.Handle("/stations/maintenance", method(http.MethodPost, guarded(deps.Stations.SetMaintenance)))
	mux.Handle("/stations/available", method(http.MethodPost, guarded(deps.Stations.ClearMaintenance)))

	mux.Handle("/sessions/start", method(http.MethodPost, guarded(deps.Sessions.Start)))
	mux.Handle("/sessions/end", method(http.MethodPost, guarded(deps.Sessions.End)))
	mux.Handle("/sessions/active", method(http.MethodGet, deps.Sessions.Active))

	mux.Handle("/payments/settle", method(http.MethodPost, guarded(deps.Payments.Settle)))
	mux.Handle("/payments/split", methods(map[string]http.HandlerFunc{
		http.MethodGet:  deps.Payments.GetSplit,
		http.MethodPost: guarded(deps.Payments.CreateSplit),
	}))
	mux.Handle("/payments/split/parts", methods(map[string]http.HandlerFunc{
		http.MethodPost:   guarded(deps.Payments.AddSplitPart),
		http.MethodDelete: guarded(deps.Payments.RemoveSplitPart),
	}))
	mux.Handle("/payments/split/pay", method(http.MethodPost, guarded(deps.Payments.PaySplitPart)))
	mux.Handle("/payments/mpesa/initiate", method(http.MethodPost, guarded(deps.Payments.InitiateMpesa)))
	mux.Handle("/payments/mpesa/qr", method(http.MethodPost, guarded(deps.Payments.MpesaQR)))

	mux.Handle("/customers", methods(map[string]http.HandlerFunc{
		http.MethodGet:    deps.Customers.List,
		http.MethodPost:   guarded(deps.Customers.Create),
		http.MethodPut:    guarded(deps.Customers.Update),
		http.MethodDelete: guarded(deps.Customers.Delete),
	}))
	mux.Handle("/games", methods(map[string]http.HandlerFunc{
		http.MethodGet:    deps.Games.List,
		http.MethodPost:   guarded(deps.Games.Create),
		http.MethodPut:    guarded(deps.Games.Update),
		http.MethodDelete: guarded(deps.Games.Delete),
	}))

	mux.Handle("/reports/daily", method(http.MethodGet, deps.Reports.Daily))
	mux.Handle("/reports/daily/recompute", method(http.MethodPost, guarded(deps.Reports.Recompute)))
	mux.Handle("/reports/revenue", method(http.MethodGet, deps.Reports.Revenue))
	mux.Handle("/reports/payment-methods", method(http.MethodGet, deps.Reports.PaymentMethods))
	mux.Handle("/reports/games", method(http.MethodGet, deps.Reports.GamePerformance))
	mux.Handle("/reports/loyalty", method(http.MethodGet, deps.Reports.LoyaltySegments))

	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}

func methods(byMethod map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler, ok := byMethod[r.Method]
		if !ok {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
