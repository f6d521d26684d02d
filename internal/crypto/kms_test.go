package crypto

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"

	"github.com/GregMSThompson/decision-backend/internal/errs"
)

// reverseKeyClient "encrypts" by reversing bytes.
type reverseKeyClient struct {
	err     error
	keyName string
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

func (c *reverseKeyClient) Encrypt(_ context.Context, req *kmspb.EncryptRequest, _ ...gax.CallOption) (*kmspb.EncryptResponse, error) {
	c.keyName = req.Name
	if c.err != nil {
		return nil, c.err
	}
	return &kmspb.EncryptResponse{Ciphertext: reverse(req.Plaintext)}, nil
}

func (c *reverseKeyClient) Decrypt(_ context.Context, req *kmspb.DecryptRequest, _ ...gax.CallOption) (*kmspb.DecryptResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &kmspb.DecryptResponse{Plaintext: reverse(req.Ciphertext)}, nil
}

func TestKMSRoundTrip(t *testing.T) {
	client := &reverseKeyClient{}
	k := NewKMS(client, "projects/p/locations/l/keyRings/r/cryptoKeys/k")

	ct, err := k.Encrypt(context.Background(), "budget is 10k")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if ct == "budget is 10k" {
		t.Fatalf("ciphertext equals plaintext")
	}
	if client.keyName == "" {
		t.Fatalf("key name not sent")
	}

	pt, err := k.Decrypt(context.Background(), ct)
	if err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}
	if pt != "budget is 10k" {
		t.Fatalf("plaintext = %q", pt)
	}
}

func TestKMSEmptyValues(t *testing.T) {
	k := NewKMS(&reverseKeyClient{err: errors.New("should not be called")}, "key")

	if ct, err := k.Encrypt(context.Background(), ""); err != nil || ct != "" {
		t.Fatalf("Encrypt(\"\") = %q, %v", ct, err)
	}
	if pt, err := k.Decrypt(context.Background(), ""); err != nil || pt != "" {
		t.Fatalf("Decrypt(\"\") = %q, %v", pt, err)
	}
}

func TestKMSErrors(t *testing.T) {
	k := NewKMS(&reverseKeyClient{err: errors.New("denied")}, "key")

	_, err := k.Encrypt(context.Background(), "x")
	var encErr *errs.EncryptionError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncryptionError, got %T", err)
	}

	_, err = k.Decrypt(context.Background(), "not base64!")
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncryptionError for bad base64, got %T", err)
	}
}

func TestPlainPassThrough(t *testing.T) {
	p := NewPlain()
	ct, _ := p.Encrypt(context.Background(), "ctx")
	pt, _ := p.Decrypt(context.Background(), ct)
	if ct != "ctx" || pt != "ctx" {
		t.Fatalf("plain cipher changed value: %q %q", ct, pt)
	}
}
