package payment

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// CardDetails is the decrypted credit card payload. It is decrypted just
// long enough to hand to the processor and is never persisted.
type CardDetails struct {
	Number      string `json:"number"`
	Holder      string `json:"holder"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`
	CVC         string `json:"cvc"`
}

// Masked returns the card number with all but the last four digits hidden.
func (d CardDetails) Masked() string {
	if len(d.Number) < 4 {
		return "****"
	}
	return "**** **** **** " + d.Number[len(d.Number)-4:]
}

// Processor forwards an authorized charge to the payment provider.
// Real gateway integration is out of scope; LogProcessor stands in.
type Processor interface {
	Authorize(ctx context.Context, card CardDetails, amountCents int64) error
}

// LogProcessor approves every charge and logs the masked card. Placeholder
// for a real gateway.
type LogProcessor struct {
	logger *log.Entry
}

func NewLogProcessor() *LogProcessor {
	return &LogProcessor{logger: log.WithField("component", "payment-processor")}
}

func (p *LogProcessor) Authorize(_ context.Context, card CardDetails, amountCents int64) error {
	p.logger.WithFields(log.Fields{
		"card":         card.Masked(),
		"amount_cents": amountCents,
	}).Info("forwarding charge to payment provider")
	return nil
}

// Cipher opens the AES-GCM envelopes that clients submit card details in.
// An envelope is base64(nonce || ciphertext) over the JSON card payload.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a base64-encoded 32-byte key.
func NewCipher(keyBase64 string) (*Cipher, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("decode card key: %w", err)
	}
	if len(key) != 32 {
		return nil, errors.New("card key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Open decrypts an envelope back into card details.
func (c *Cipher) Open(envelope string) (CardDetails, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return CardDetails{}, fmt.Errorf("decode envelope: %w", err)
	}
	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return CardDetails{}, errors.New("envelope too short")
	}
	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return CardDetails{}, fmt.Errorf("open envelope: %w", err)
	}
	var card CardDetails
	if err := json.Unmarshal(plaintext, &card); err != nil {
		return CardDetails{}, fmt.Errorf("decode card payload: %w", err)
	}
	return card, nil
}

// Seal encrypts card details into an envelope. Used by clients and tests.
func (c *Cipher) Seal(card CardDetails) (string, error) {
	plaintext, err := json.Marshal(card)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Branches is the set of shop branches accepting in-person payment.
type Branches struct {
	codes map[string]struct{}
}

func NewBranches(codes []string) Branches {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[strings.ToLower(strings.TrimSpace(code))] = struct{}{}
	}
	return Branches{codes: set}
}

// Valid reports whether code names a known branch.
func (b Branches) Valid(code string) bool {
	_, ok := b.codes[strings.ToLower(strings.TrimSpace(code))]
	return ok
}
