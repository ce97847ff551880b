// Package codec encrypts Temporal payloads so form drafts, passwords and
// registration records are never stored in workflow history in cleartext.
package codec

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/sdk/converter"
	"golang.org/x/crypto/chacha20poly1305"
	"google.golang.org/protobuf/proto"
)

const (
	// MetadataEncodingEncrypted marks payloads produced by this codec.
	MetadataEncodingEncrypted = "binary/encrypted-xchacha20"
	// MetadataKeyID names the key a payload was sealed with.
	MetadataKeyID = "encryption-key-id"
)

var (
	ErrKeySize = fmt.Errorf("codec: key must be %d bytes", chacha20poly1305.KeySize)
	ErrKeyID   = errors.New("codec: payload sealed with a different key")
)

// Codec is a converter.PayloadCodec sealing every payload with XChaCha20-Poly1305.
type Codec struct {
	keyID string
	key   []byte
}

var _ converter.PayloadCodec = (*Codec)(nil)

// New builds a Codec. keyID is stored alongside each payload.
func New(keyID string, key []byte) (*Codec, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrKeySize
	}
	return &Codec{keyID: keyID, key: append([]byte(nil), key...)}, nil
}

// ParseHexKey decodes a hex encoded key.
func ParseHexKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("codec: decoding key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrKeySize
	}
	return key, nil
}

// NewDataConverter wraps the default data converter with an encrypting codec.
func NewDataConverter(keyID string, key []byte) (converter.DataConverter, error) {
	c, err := New(keyID, key)
	if err != nil {
		return nil, err
	}
	return converter.NewCodecDataConverter(converter.GetDefaultDataConverter(), c), nil
}

// Encode seals each payload.
func (c *Codec) Encode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, err
	}

	out := make([]*commonpb.Payload, len(payloads))
	for i, p := range payloads {
		plain, err := proto.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("codec: marshalling payload: %w", err)
		}

		nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
		if _, err := rand.Read(nonce); err != nil {
			return nil, fmt.Errorf("codec: generating nonce: %w", err)
		}
		sealed := aead.Seal(nonce, nonce, plain, []byte(c.keyID))

		out[i] = &commonpb.Payload{
			Metadata: map[string][]byte{
				converter.MetadataEncoding: []byte(MetadataEncodingEncrypted),
				MetadataKeyID:              []byte(c.keyID),
			},
			Data: sealed,
		}
	}
	return out, nil
}

// Decode opens payloads sealed by Encode and passes every other payload through.
func (c *Codec) Decode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, err
	}

	out := make([]*commonpb.Payload, len(payloads))
	for i, p := range payloads {
		if string(p.GetMetadata()[converter.MetadataEncoding]) != MetadataEncodingEncrypted {
			out[i] = p
			continue
		}
		if string(p.GetMetadata()[MetadataKeyID]) != c.keyID {
			return nil, ErrKeyID
		}

		data := p.GetData()
		if len(data) < aead.NonceSize() {
			return nil, errors.New("codec: payload too short")
		}
		nonce, sealed := data[:aead.NonceSize()], data[aead.NonceSize():]
		plain, err := aead.Open(nil, nonce, sealed, []byte(c.keyID))
		if err != nil {
			return nil, fmt.Errorf("codec: opening payload: %w", err)
		}

		decoded := &commonpb.Payload{}
		if err := proto.Unmarshal(plain, decoded); err != nil {
			return nil, fmt.Errorf("codec: unmarshalling payload: %w", err)
		}
		out[i] = decoded
	}
	return out, nil
}
