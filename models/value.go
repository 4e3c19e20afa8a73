// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ValueKind identifies the concrete type carried by a [Value].
type ValueKind string

const (
	KindNull          ValueKind = "null"
	KindString        ValueKind = "string"
	KindInt           ValueKind = "int"
	KindFloat         ValueKind = "float"
	KindBool          ValueKind = "bool"
	KindTime          ValueKind = "time"
	KindBytes         ValueKind = "bytes"
	KindReference     ValueKind = "reference"
	KindReferenceList ValueKind = "reference_list"
)

// ErrUnsupportedValue is returned by [ValueOf] when a local field value has
// no remote representation.
var ErrUnsupportedValue = errors.New("unsupported record field value")

// Value is a single record field. Exactly one payload matching Kind is set.
// The JSON form is {"kind": "...", "value": ...} so that times and
// references survive a round trip through the remote store.
type Value struct {
	Kind       ValueKind
	String     string
	Int        int64
	Float      float64
	Bool       bool
	Time       time.Time
	Bytes      []byte
	Reference  Reference
	References []Reference
}

func StringValue(s string) Value       { return Value{Kind: KindString, String: s} }
func IntValue(i int64) Value           { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value       { return Value{Kind: KindFloat, Float: f} }
func BoolValue(b bool) Value           { return Value{Kind: KindBool, Bool: b} }
func TimeValue(t time.Time) Value      { return Value{Kind: KindTime, Time: t.UTC()} }
func BytesValue(b []byte) Value        { return Value{Kind: KindBytes, Bytes: b} }
func ReferenceValue(r Reference) Value { return Value{Kind: KindReference, Reference: r} }

func ReferenceListValue(refs []Reference) Value {
	return Value{Kind: KindReferenceList, References: refs}
}

// ValueOf converts a local field value returned by an accessor into a Value.
// nil becomes a null value.
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindNull}, nil
	case Value:
		return t, nil
	case string:
		return StringValue(t), nil
	case *string:
		if t == nil {
			return Value{Kind: KindNull}, nil
		}
		return StringValue(*t), nil
	case int:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case float32:
		return FloatValue(float64(t)), nil
	case float64:
		return FloatValue(t), nil
	case bool:
		return BoolValue(t), nil
	case time.Time:
		return TimeValue(t), nil
	case *time.Time:
		if t == nil {
			return Value{Kind: KindNull}, nil
		}
		return TimeValue(*t), nil
	case []byte:
		return BytesValue(t), nil
	case Reference:
		return ReferenceValue(t), nil
	case []Reference:
		return ReferenceListValue(t), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// Interface returns the Go value carried by v, suitable for passing to an
// accessor setter.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.String
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	case KindTime:
		return v.Time
	case KindBytes:
		return v.Bytes
	case KindReference:
		return v.Reference
	case KindReferenceList:
		return v.References
	default:
		return nil
	}
}

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool {
	return v.Kind == "" || v.Kind == KindNull
}

type valueJSON struct {
	Kind  ValueKind       `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.Kind {
	case "", KindNull:
		return json.Marshal(valueJSON{Kind: KindNull})
	case KindString:
		payload = v.String
	case KindInt:
		payload = v.Int
	case KindFloat:
		payload = v.Float
	case KindBool:
		payload = v.Bool
	case KindTime:
		payload = v.Time.UTC().Format(time.RFC3339Nano)
	case KindBytes:
		payload = v.Bytes
	case KindReference:
		payload = v.Reference
	case KindReferenceList:
		refs := v.References
		if refs == nil {
			refs = []Reference{}
		}
		payload = refs
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedValue, v.Kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Kind: v.Kind, Value: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	var in valueJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	out := Value{Kind: in.Kind}
	var err error
	switch in.Kind {
	case "", KindNull:
		out.Kind = KindNull
	case KindString:
		err = json.Unmarshal(in.Value, &out.String)
	case KindInt:
		err = json.Unmarshal(in.Value, &out.Int)
	case KindFloat:
		err = json.Unmarshal(in.Value, &out.Float)
	case KindBool:
		err = json.Unmarshal(in.Value, &out.Bool)
	case KindTime:
		var s string
		if err = json.Unmarshal(in.Value, &s); err == nil {
			out.Time, err = time.Parse(time.RFC3339Nano, s)
		}
	case KindBytes:
		err = json.Unmarshal(in.Value, &out.Bytes)
	case KindReference:
		err = json.Unmarshal(in.Value, &out.Reference)
	case KindReferenceList:
		err = json.Unmarshal(in.Value, &out.References)
	default:
		return fmt.Errorf("%w: kind %q", ErrUnsupportedValue, in.Kind)
	}
	if err != nil {
		return fmt.Errorf("decode %s value: %w", in.Kind, err)
	}

	*v = out
	return nil
}
