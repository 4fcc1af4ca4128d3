// Package kvjson decodes typed-dictionary payloads. A payload is a UTF-8
// JSON document whose keys carry a 2-character prefix - a type tag in
// {s, b, i, f} followed by an underscore - and whose values are converted
// using the same tag:
//
//	{"s_name":"ada","i_age":36,"b_admin":true}  =>  {name: "ada", age: 36, admin: true}
//
// Malformed keys (unrecognized tag, bad boolean literal, unparseable
// number) substitute the None sentinel for that slot and decoding
// continues; an unparseable document fails the whole payload.
package kvjson

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/rowlift/rowlift/errors"
	"github.com/rowlift/rowlift/value"
)

// DecodeDict parses a typed-dictionary document into an insertion-ordered
// dict. Trailing NUL terminators are ignored.
func DecodeDict(data []byte) (*value.Dict, error) {
	data = bytes.TrimRight(data, "\x00")

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.MalformedPayload(errors.PhaseDict, "unparseable typed-dict document", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.MalformedPayload(errors.PhaseDict, "typed-dict payload is not a JSON object", nil)
	}

	out := value.NewDict()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.MalformedPayload(errors.PhaseDict, "truncated typed-dict document", err)
		}
		rawKey, ok := keyTok.(string)
		if !ok {
			return nil, errors.MalformedPayload(errors.PhaseDict, "non-string typed-dict key", nil)
		}

		valTok, err := readValueToken(dec)
		if err != nil {
			return nil, err
		}

		key, tag := decodeKey(rawKey)
		out.Set(key, decodeValue(valTok, tag, rawKey))
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, errors.MalformedPayload(errors.PhaseDict, "truncated typed-dict document", err)
	}

	return out, nil
}

// decodeKey splits the 2-character tag prefix off a key and converts the
// remainder per the tag. It returns the key value and the tag character;
// a zero tag means the key was malformed and None was substituted.
func decodeKey(raw string) (value.Value, byte) {
	if len(raw) < 2 || raw[1] != '_' {
		Logger().Error("typed-dict key missing tag prefix, substituting None",
			zap.String("key", raw))
		return value.None.Retain(), 0
	}
	tag := raw[0]
	body := raw[2:]
	switch tag {
	case 's':
		return body, tag
	case 'b':
		switch body {
		case "True":
			return true, tag
		case "False":
			return false, tag
		}
		Logger().Error("invalid boolean key, substituting None", zap.String("key", body))
		return value.None.Retain(), tag
	case 'i':
		n, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			Logger().Error("invalid integer key, substituting None", zap.String("key", body))
			return value.None.Retain(), tag
		}
		return n, tag
	case 'f':
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			Logger().Error("invalid float key, substituting None", zap.String("key", body))
			return value.None.Retain(), tag
		}
		return f, tag
	default:
		Logger().Error("unknown type tag in typed-dict key, substituting None",
			zap.String("key", raw))
		return value.None.Retain(), 0
	}
}

// decodeValue converts a scalar JSON token using the key's tag character.
func decodeValue(tok json.Token, tag byte, rawKey string) value.Value {
	switch tag {
	case 's':
		if s, ok := tok.(string); ok {
			return s
		}
	case 'b':
		if b, ok := tok.(bool); ok {
			return b
		}
	case 'i':
		if n, ok := tok.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return i
			}
			// non-integral numeric token, truncate like the integer
			// constructor the original format targets
			if f, err := n.Float64(); err == nil {
				return int64(f)
			}
		}
	case 'f':
		if n, ok := tok.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				return f
			}
		}
	}
	Logger().Error("typed-dict value does not match key tag, substituting None",
		zap.String("key", rawKey), zap.String("tag", string(rune(tag))))
	return value.None.Retain()
}

// readValueToken returns the next scalar value token, consuming and
// discarding any nested object or array (the format never nests).
func readValueToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.MalformedPayload(errors.PhaseDict, "truncated typed-dict document", err)
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	if d != '{' && d != '[' {
		return nil, errors.MalformedPayload(errors.PhaseDict, "unexpected delimiter in typed-dict value", nil)
	}
	depth := 1
	for depth > 0 {
		tok, err = dec.Token()
		if err != nil {
			return nil, errors.MalformedPayload(errors.PhaseDict, "truncated typed-dict document", err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	// nested container cannot satisfy any tag; hand back a marker the
	// value converter rejects
	return json.Delim('{'), nil
}
