package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"okcoinweb/internal/webpage"
)

func TestNewIcebergSource(t *testing.T) {
	cfg := WebConfig{LoginName: "trader", Password: "secret"}

	tests := []struct {
		site     string
		baseURL  string
		wantName string
		wantBase string
		wantErr  bool
	}{
		{"okcoin.cn", "", "okcoin.cn", "https://www.okcoin.cn", false},
		{"OKCoin.com", "", "okcoin.com", "https://www.okcoin.com", false},
		{"okcoin.com", "http://127.0.0.1:9000", "okcoin.com", "http://127.0.0.1:9000", false},
		{"okex.com", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.site, func(t *testing.T) {
			c := cfg
			c.BaseURL = tt.baseURL

			source, err := NewIcebergSource(tt.site, c, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer source.Close()

			if source.GetName() != tt.wantName {
				t.Errorf("GetName() = %q, want %q", source.GetName(), tt.wantName)
			}
			web, ok := source.(*OKCoinWeb)
			if !ok {
				t.Fatalf("expected *OKCoinWeb, got %T", source)
			}
			if web.baseURL.String() != tt.wantBase {
				t.Errorf("base URL = %q, want %q", web.baseURL, tt.wantBase)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	for site, want := range map[string]bool{
		"okcoin.cn":  true,
		"OKCOIN.COM": true,
		"okex.com":   false,
		"":           false,
	} {
		if got := IsSupported(site); got != want {
			t.Errorf("IsSupported(%q) = %v, want %v", site, got, want)
		}
	}
}

func TestStatusError_Retryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusTooManyRequests, true},
		{http.StatusBadRequest, false},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := &StatusError{StatusCode: tt.status, URL: "https://www.okcoin.com/x"}
			if got := err.Retryable(); got != tt.want {
				t.Errorf("Retryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"login page", &webpage.MissingContentError{Element: "table"}, CodeLoginRequired},
		{"format", &webpage.FormatError{Row: 1, Column: "date", Err: errors.New("bad")}, CodePageFormat},
		{"http status", &StatusError{StatusCode: 503}, CodeHTTPStatus},
		{"wrapped status", fmt.Errorf("fetch: %w", &StatusError{StatusCode: 404}), CodeHTTPStatus},
		{"cancelled", context.Canceled, CodeCancelled},
		{"deadline", context.DeadlineExceeded, CodeCancelled},
		{"transport", &url.Error{Op: "Get", URL: "x", Err: errors.New("connection refused")}, CodeTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrapError("okcoin.cn", tt.err)

			var exErr *ExchangeError
			if !errors.As(wrapped, &exErr) {
				t.Fatalf("expected *ExchangeError, got %T", wrapped)
			}
			if exErr.Code != tt.want {
				t.Errorf("Code = %s, want %s", exErr.Code, tt.want)
			}
			if exErr.Exchange != "okcoin.cn" {
				t.Errorf("Exchange = %q", exErr.Exchange)
			}
			if !errors.Is(wrapped, tt.err) {
				t.Error("original error lost in chain")
			}
		})
	}

	if wrapError("okcoin.cn", nil) != nil {
		t.Error("wrapError(nil) should be nil")
	}

	inner := &ExchangeError{Exchange: "okcoin.com", Code: CodeInvalidPage}
	if wrapError("okcoin.cn", inner) != error(inner) {
		t.Error("ExchangeError should not be wrapped twice")
	}
}

func TestHTTPClient_StoresSessionCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "coin_session", Value: "abc", Path: "/"})
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPClientConfig{})
	defer client.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	u, _ := url.Parse(server.URL)
	cookies := client.Cookies(u)
	if len(cookies) != 1 || cookies[0].Value != "abc" {
		t.Errorf("unexpected cookies: %v", cookies)
	}
	if client.GetConfig().UserAgent != "" {
		t.Error("config should be returned as given")
	}
}
