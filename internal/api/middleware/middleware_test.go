package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"okcoinweb/internal/api/handlers"
	"okcoinweb/pkg/crypto"
	"okcoinweb/pkg/utils"
)

func observedLogger(level zapcore.Level) (*utils.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return utils.FromZap(zap.New(core)), logs
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
})

// ============ Logging ============

func TestLogging(t *testing.T) {
	t.Run("assigns request id and logs request", func(t *testing.T) {
		logger, logs := observedLogger(zapcore.InfoLevel)

		var seenID string
		handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenID = RequestIDFromContext(r.Context())
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("hello"))
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/iceberg-orders", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		headerID := w.Header().Get(RequestIDHeader)
		if headerID == "" || headerID != seenID {
			t.Errorf("request id header %q, context %q", headerID, seenID)
		}

		entries := logs.FilterMessage("request served").All()
		if len(entries) != 1 {
			t.Fatalf("expected 1 log entry, got %d", len(entries))
		}
		fields := entries[0].ContextMap()
		if fields["status"] != int64(http.StatusCreated) {
			t.Errorf("status field = %v", fields["status"])
		}
		if fields["bytes"] != int64(5) {
			t.Errorf("bytes field = %v", fields["bytes"])
		}
		if fields["path"] != "/api/v1/iceberg-orders" || fields["request_id"] != headerID {
			t.Errorf("unexpected fields: %v", fields)
		}
	})

	t.Run("keeps valid client request id", func(t *testing.T) {
		logger, _ := observedLogger(zapcore.InfoLevel)
		clientID := "6f1c1f0e-4a43-4d61-9a8b-0d6c2a7b8e11"

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, clientID)
		w := httptest.NewRecorder()
		Logging(logger)(okHandler).ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got != clientID {
			t.Errorf("request id = %q, want %q", got, clientID)
		}
	})

	t.Run("replaces malformed client request id", func(t *testing.T) {
		logger, _ := observedLogger(zapcore.InfoLevel)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		w := httptest.NewRecorder()
		Logging(logger)(okHandler).ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got == "<script>" || got == "" {
			t.Errorf("malformed id should be replaced, got %q", got)
		}
	})

	t.Run("log level follows status", func(t *testing.T) {
		tests := []struct {
			status int
			level  zapcore.Level
		}{
			{http.StatusOK, zapcore.InfoLevel},
			{http.StatusBadRequest, zapcore.WarnLevel},
			{http.StatusBadGateway, zapcore.ErrorLevel},
		}

		for _, tt := range tests {
			logger, logs := observedLogger(zapcore.DebugLevel)
			handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			entries := logs.All()
			if len(entries) != 1 || entries[0].Level != tt.level {
				t.Errorf("status %d: expected one %s entry, got %v", tt.status, tt.level, entries)
			}
		}
	})
}

// ============ Recovery ============

func TestRecovery(t *testing.T) {
	logger, logs := observedLogger(zapcore.ErrorLevel)

	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/iceberg-orders", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(w.Body.String(), handlers.CodeInternal) {
		t.Errorf("body should contain error code, got %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "boom") {
		t.Error("panic value should not leak to the client")
	}

	entries := logs.FilterMessage("panic in handler").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 panic log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["panic"] != "boom" {
		t.Errorf("panic field = %v", entries[0].ContextMap()["panic"])
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	logger, logs := observedLogger(zapcore.DebugLevel)

	w := httptest.NewRecorder()
	Recovery(logger)(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK || logs.Len() != 0 {
		t.Errorf("unexpected status %d or logs %d", w.Code, logs.Len())
	}
}

// ============ Auth ============

func TestAuth(t *testing.T) {
	hash, err := crypto.HashToken("local-token", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}

	tests := []struct {
		name       string
		hash       string
		header     string
		wantStatus int
	}{
		{"valid token", hash, "Bearer local-token", http.StatusOK},
		{"scheme is case-insensitive", hash, "bearer local-token", http.StatusOK},
		{"wrong token", hash, "Bearer other", http.StatusUnauthorized},
		{"missing header", hash, "", http.StatusUnauthorized},
		{"basic scheme", hash, "Basic bG9jYWw6dG9rZW4=", http.StatusUnauthorized},
		{"empty bearer", hash, "Bearer ", http.StatusUnauthorized},
		{"auth disabled", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := observedLogger(zapcore.DebugLevel)
			handler := Auth(tt.hash, logger)(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/iceberg-orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if w.Header().Get("WWW-Authenticate") == "" {
					t.Error("401 should carry WWW-Authenticate")
				}
				if !strings.Contains(w.Body.String(), handlers.CodeUnauthorized) {
					t.Errorf("body = %s", w.Body.String())
				}
			}
		})
	}
}

// ============ CORS ============

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://dashboard.example.com", " "})(okHandler)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"default origin", http.MethodGet, "http://localhost:5173", "http://localhost:5173", http.StatusOK},
		{"extra origin", http.MethodGet, "https://dashboard.example.com", "https://dashboard.example.com", http.StatusOK},
		{"unknown origin", http.MethodGet, "https://evil.example.com", "", http.StatusOK},
		{"no origin", http.MethodGet, "", "", http.StatusOK},
		{"preflight", http.MethodOptions, "http://localhost:3000", "http://localhost:3000", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/iceberg-orders", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
				t.Errorf("Allow-Methods = %q", got)
			}
		})
	}
}
