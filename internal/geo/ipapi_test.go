package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPLocator_Locate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","lat":48.8566,"lon":2.3522}`))
	}))
	defer server.Close()

	l := NewIPLocator(server.URL, 2*time.Second)
	got, err := l.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if got.Lat != 48.8566 || got.Lon != 2.3522 {
		t.Errorf("Locate() = %+v, want lat 48.8566 lon 2.3522", got)
	}
}

func TestIPLocator_Locate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "api reports failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
			},
			wantErr: ErrUnavailable,
		},
		{
			name: "forbidden",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			wantErr: ErrPermissionDenied,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr: ErrUnavailable,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErr: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			l := NewIPLocator(server.URL, 2*time.Second)
			_, err := l.Locate(context.Background())
			if err == nil {
				t.Fatal("Locate() expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Locate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIPLocator_Locate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	l := NewIPLocator(server.URL, 20*time.Millisecond)
	_, err := l.Locate(context.Background())
	if err == nil {
		t.Fatal("Locate() expected error, got nil")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Locate() error = %v, want ErrTimeout", err)
	}
}

func TestIPLocator_Locate_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	l := NewIPLocator(server.URL, 2*time.Second)
	_, err := l.Locate(context.Background())
	if err == nil {
		t.Fatal("Locate() expected error, got nil")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Locate() error = %v, want ErrUnavailable", err)
	}
}
