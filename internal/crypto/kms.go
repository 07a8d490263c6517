package crypto

import (
	"context"
	"encoding/base64"

	gcpkms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
)

type kms struct {
	client  *gcpkms.KeyManagementClient
	keyName string
}

func NewKMS(client *gcpkms.KeyManagementClient, keyName string) *kms {
	return &kms{client: client, keyName: keyName}
}

// KmsEncrypt encrypts plaintext with the configured key and returns base64 text.
// Empty input stays empty.
func (k *kms) KmsEncrypt(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:      k.keyName,
		Plaintext: []byte(plaintext),
	})
	if err != nil {
		return "", errs.NewEncryptionError("kms encrypt failed", err)
	}
	return base64.StdEncoding.EncodeToString(resp.Ciphertext), nil
}

func (k *kms) KmsDecrypt(ctx context.Context, ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errs.NewEncryptionError("ciphertext is not base64", err)
	}
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:       k.keyName,
		Ciphertext: raw,
	})
	if err != nil {
		return "", errs.NewEncryptionError("kms decrypt failed", err)
	}
	return string(resp.Plaintext), nil
}

// plaintext is used when no KMS key is configured, e.g. against the emulator.
type plaintext struct{}

func NewPlaintext() plaintext { return plaintext{} }

func (plaintext) KmsEncrypt(_ context.Context, s string) (string, error) { return s, nil }
func (plaintext) KmsDecrypt(_ context.Context, s string) (string, error) { return s, nil }

// Cipher seals PII fields before they are stored.
type Cipher interface {
	KmsEncrypt(ctx context.Context, plaintext string) (string, error)
	KmsDecrypt(ctx context.Context, ciphertext string) (string, error)
}

// NewCipher returns the KMS cipher, or a passthrough when no client is configured.
func NewCipher(client *gcpkms.KeyManagementClient, keyName string) Cipher {
	if client == nil {
		return NewPlaintext()
	}
	return NewKMS(client, keyName)
}
