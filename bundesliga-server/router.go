package main

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

type routerOptions struct {
	MCPPath    string
	APIKey     string // empty disables auth
	AuthHeader string
}

func newRouter(cfg ServerConfig, server *mcp.Server, registry []toolInfo, opts routerOptions) *mux.Router {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	mcpPath := opts.MCPPath
	if mcpPath == "" {
		mcpPath = "/mcp"
	}

	r := mux.NewRouter()
	r.Use(withAuth(opts.APIKey, opts.AuthHeader))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"tools": registry})
	}).Methods(http.MethodGet)

	// on the root router so a method mismatch is a 405, not a subrouter 404
	r.HandleFunc("/api/ranking/{year:[0-9]+}", rankingRoute(cfg)).Methods(http.MethodGet)
	r.HandleFunc("/api/seasons/{season:[0-9]+}", seasonRoute(cfg)).Methods(http.MethodGet)
	r.HandleFunc("/api/demo", demoRoute()).Methods(http.MethodPost)
	r.HandleFunc("/api/cache/{season:[0-9]+}", invalidateRoute(cfg)).Methods(http.MethodDelete)
	r.HandleFunc("/api/cache", invalidateRoute(cfg)).Methods(http.MethodDelete)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method " + r.Method + " not allowed"})
	})

	r.Handle(mcpPath, handler)
	return r
}

// withAuth accepts the key either in header or as a bearer token.
func withAuth(apiKey, header string) mux.MiddlewareFunc {
	if header == "" {
		header = "X-API-Key"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(header))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rankingRoute(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, _ := strconv.Atoi(mux.Vars(r)["year"])
		q := r.URL.Query()
		out, err := buildFiveYearRanking(r.Context(), cfg, FiveYearRankingArgs{
			Year:    year,
			Details: parseBool(q.Get("details")),
			Source:  q.Get("source"),
		})
		if err != nil {
			respondError(cfg, w, http.StatusBadRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

func seasonRoute(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, _ := strconv.Atoi(mux.Vars(r)["season"])
		out, err := buildSeasonTable(r.Context(), cfg, SeasonTableArgs{
			Season: season,
			Source: r.URL.Query().Get("source"),
		})
		if err != nil {
			respondError(cfg, w, http.StatusBadRequest, err)
			return
		}
		status := http.StatusOK
		if !out.OK {
			status = http.StatusBadGateway
		}
		respondJSON(w, status, out)
	}
}

func demoRoute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var args DemoPointsArgs
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&args); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
			return
		}
		out, err := buildDemoPoints(args)
		if err != nil {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

func invalidateRoute(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, _ := strconv.Atoi(mux.Vars(r)["season"])
		out, err := buildCacheInvalidate(r.Context(), cfg, CacheInvalidateArgs{Season: season})
		if err != nil {
			respondError(cfg, w, http.StatusInternalServerError, err)
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func respondError(cfg ServerConfig, w http.ResponseWriter, status int, err error) {
	if cfg.Logger != nil {
		cfg.Logger.Debug("request failed", zap.Int("status", status), zap.Error(err))
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
