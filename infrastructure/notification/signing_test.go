package notification

import (
	"strings"
	"testing"
	"time"
)

func TestSigner_SignAndVerify(t *testing.T) {
	signer := NewSigner()
	payload := []byte(`{"type":"bill.transition_applied"}`)

	sig := signer.SignPayload(payload, "secret")
	if !strings.HasPrefix(sig, "sha256=") {
		t.Errorf("signature %q missing sha256= prefix", sig)
	}
	if !signer.VerifySignature(payload, "secret", sig) {
		t.Error("VerifySignature rejected a valid signature")
	}
	if signer.VerifySignature(payload, "wrong", sig) {
		t.Error("VerifySignature accepted a signature from the wrong secret")
	}
	if signer.VerifySignature([]byte("tampered"), "secret", sig) {
		t.Error("VerifySignature accepted a tampered payload")
	}
}

func TestSigner_SignedHeaders(t *testing.T) {
	signer := NewSigner()
	payload := []byte(`{}`)
	now := time.Now()

	headers := signer.SignedHeaders(payload, "secret", now)
	for _, key := range []string{"X-Billflow-Signature", "X-Billflow-Timestamp", "X-Billflow-Signature-V2"} {
		if headers[key] == "" {
			t.Errorf("header %s missing", key)
		}
	}
}

func TestSigner_VerifyTimestampedSignature(t *testing.T) {
	signer := NewSigner()
	payload := []byte(`{}`)
	now := time.Now()

	headers := signer.SignedHeaders(payload, "secret", now)
	if !signer.VerifyTimestampedSignature(payload, "secret", headers["X-Billflow-Signature-V2"], now.Unix(), time.Minute) {
		t.Error("timestamped signature rejected within tolerance")
	}

	stale := now.Add(-time.Hour)
	staleHeaders := signer.SignedHeaders(payload, "secret", stale)
	if signer.VerifyTimestampedSignature(payload, "secret", staleHeaders["X-Billflow-Signature-V2"], stale.Unix(), time.Minute) {
		t.Error("timestamped signature accepted outside tolerance")
	}
}
