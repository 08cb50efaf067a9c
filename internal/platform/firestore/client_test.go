package firestore

import (
	"encoding/base64"
	"testing"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/config"
)

func TestClientOptionsEmulator(t *testing.T) {
	opts, source, err := clientOptions(config.Config{FirestoreEmulatorHost: "localhost:8200"})
	if err != nil {
		t.Fatalf("clientOptions: %v", err)
	}
	if source != "emulator localhost:8200" {
		t.Errorf("source = %q", source)
	}
	if len(opts) != 3 {
		t.Errorf("expected endpoint, no-auth and insecure dial options, got %d", len(opts))
	}
}

func TestClientOptionsCredentials(t *testing.T) {
	cfg := config.Config{FirebaseCredsBase64: base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account"}`))}
	opts, source, err := clientOptions(cfg)
	if err != nil {
		t.Fatalf("clientOptions: %v", err)
	}
	if source != "base64 credentials" || len(opts) != 1 {
		t.Errorf("source/opts = %q/%d", source, len(opts))
	}
}

func TestClientOptionsMissingCredentials(t *testing.T) {
	if _, _, err := clientOptions(config.Config{}); err == nil {
		t.Fatal("expected error without credentials or emulator")
	}
}
