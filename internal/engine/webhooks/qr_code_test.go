package webhooks

import (
	"strings"
	"testing"
)

func TestGenerateQRCode(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		size    int
		wantErr bool
	}{
		{
			name:    "Default Size",
			url:     "https://hooks.example.com/webhook/abc",
			size:    0,
			wantErr: false,
		},
		{
			name:    "Valid QR Code",
			url:     "https://hooks.example.com/webhook/abc",
			size:    512,
			wantErr: false,
		},
		{
			name:    "Size Too Small",
			url:     "https://hooks.example.com/webhook/abc",
			size:    100,
			wantErr: true,
		},
		{
			name:    "Size Too Large",
			url:     "https://hooks.example.com/webhook/abc",
			size:    5000,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateQRCode(tt.url, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateQRCode() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !strings.HasPrefix(got, "data:image/png;base64,") {
				t.Errorf("GenerateQRCode() returned %q", got[:min(len(got), 32)])
			}
		})
	}
}

func TestIngestURL(t *testing.T) {
	if got := IngestURL("https://hooks.example.com/", "abc"); got != "https://hooks.example.com/webhook/abc" {
		t.Errorf("IngestURL() = %s", got)
	}
	if got := IngestURL("http://localhost:8080", "abc"); got != "http://localhost:8080/webhook/abc" {
		t.Errorf("IngestURL() = %s", got)
	}
}
