package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
)

const (
	// KeyLength is the length in bytes of the symmetric key used by
	// Encrypt/Decrypt (AES-256).
	KeyLength = 32
	// NonceLength is the length in bytes of the GCM nonce.
	NonceLength = 12
)

// Envelope is the result of an authenticated encryption: the sealed data
// (with the GCM tag appended) and the nonce it was sealed with.
type Envelope struct {
	Ciphertext []byte `json:"ciphertext"`
	Nonce      []byte `json:"nonce"`
}

// EncryptOpts is the struct given to Encrypt method
type EncryptOpts struct {
	PlainText []byte
	Key       []byte
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Key) != KeyLength {
		return ErrInvalidKeyLength
	}
	return nil
}

// Encrypt seals the plaintext with AES-256-GCM. A fresh random nonce is
// generated on every call, the key is expected to be long-lived.
func Encrypt(opts EncryptOpts) (*Envelope, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	gcm, err := newGCM(opts.Key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return &Envelope{
		Ciphertext: gcm.Seal(nil, nonce, opts.PlainText, nil),
		Nonce:      nonce,
	}, nil
}

// DecryptOpts is the struct given to Decrypt method
type DecryptOpts struct {
	Envelope *Envelope
	Key      []byte
}

func (o DecryptOpts) validate() error {
	if o.Envelope == nil || len(o.Envelope.Ciphertext) <= 0 {
		return ErrNullCypherText
	}
	if len(o.Envelope.Nonce) != NonceLength {
		return ErrInvalidNonceLength
	}
	if len(o.Key) != KeyLength {
		return ErrInvalidKeyLength
	}
	return nil
}

// Decrypt opens an envelope sealed by Encrypt. Wrong key, corrupted data and
// tampering are all reported as ErrDecryptionFailed.
func Decrypt(opts DecryptOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	gcm, err := newGCM(opts.Key)
	if err != nil {
		return nil, err
	}
	if len(opts.Envelope.Ciphertext) < gcm.Overhead() {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(
		nil, opts.Envelope.Nonce, opts.Envelope.Ciphertext, nil,
	)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blockCipher)
}
