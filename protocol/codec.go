package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrEmptyFrame   = errors.New("protocol: empty frame")
	ErrUnknownCodec = errors.New("protocol: unknown codec")
)

// Codec selects the frame encoding of one connection. Both codecs share the
// envelope layout and the json field names.
type Codec uint8

const (
	JSON Codec = iota
	MsgPack
)

var codecNames = [...]string{"json", "msgpack"}

func (c Codec) String() string {
	if int(c) < len(codecNames) {
		return codecNames[c]
	}
	return "unknown"
}

// Binary reports whether frames must travel as binary websocket messages.
func (c Codec) Binary() bool { return c == MsgPack }

func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

type jsonEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type packEnvelope struct {
	Type string             `msgpack:"type"`
	Data msgpack.RawMessage `msgpack:"data,omitempty"`
}

// Encode wraps payload in an envelope of the given kind. A nil payload produces
// a data-less frame.
func (c Codec) Encode(kind string, payload any) ([]byte, error) {
	if kind == "" {
		return nil, fmt.Errorf("protocol: encode envelope with empty type")
	}
	switch c {
	case JSON:
		e := jsonEnvelope{Type: kind}
		if payload != nil {
			pb, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("protocol: encode %s: %w", kind, err)
			}
			e.Data = pb
		}
		return json.Marshal(e)
	case MsgPack:
		e := packEnvelope{Type: kind}
		if payload != nil {
			pb, err := packMarshal(payload)
			if err != nil {
				return nil, fmt.Errorf("protocol: encode %s: %w", kind, err)
			}
			e.Data = pb
		}
		return packMarshal(e)
	}
	return nil, ErrUnknownCodec
}

func (c Codec) Decode(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	switch c {
	case JSON:
		var e jsonEnvelope
		if err := json.Unmarshal(b, &e); err != nil {
			return Envelope{}, err
		}
		return Envelope{Type: e.Type, Data: e.Data, codec: c}, nil
	case MsgPack:
		var e packEnvelope
		if err := packUnmarshal(b, &e); err != nil {
			return Envelope{}, err
		}
		return Envelope{Type: e.Type, Data: e.Data, codec: c}, nil
	}
	return Envelope{}, ErrUnknownCodec
}

// Encode and DecodeEnvelope use the JSON codec.
func Encode(kind string, payload any) ([]byte, error) {
	return JSON.Encode(kind, payload)
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	return JSON.Decode(b)
}

// DecodePayload decodes env.Data with the codec env arrived in.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Data) == 0 {
		return out, fmt.Errorf("protocol: empty payload for type %q", env.Type)
	}
	var err error
	switch env.codec {
	case MsgPack:
		err = packUnmarshal(env.Data, &out)
	default:
		err = json.Unmarshal(env.Data, &out)
	}
	return out, err
}

func packMarshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func packUnmarshal(b []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
