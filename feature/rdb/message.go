package rdb

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MessagePack markers used by .rdb files.
const (
	mpFixMap   = 0x80
	mpFixArray = 0x90
	mpFixStr   = 0xa0

	mpNil   = 0xc0
	mpFalse = 0xc2
	mpTrue  = 0xc3

	mpBin8  = 0xc4
	mpBin16 = 0xc5
	mpBin32 = 0xc6

	mpUint8  = 0xcc
	mpUint16 = 0xcd
	mpUint32 = 0xce
	mpUint64 = 0xcf

	mpInt8  = 0xd0
	mpInt16 = 0xd1
	mpInt32 = 0xd2
	mpInt64 = 0xd3

	mpStr8  = 0xd9
	mpStr16 = 0xda
	mpStr32 = 0xdb

	mpMap16 = 0xde
	mpMap32 = 0xdf
)

// Type identifies the decoded shape of a Message.
type Type uint8

const (
	TypeNil Type = iota
	TypeBool
	TypeInt
	TypeUint
	TypeString
	// TypeBinary carries its payload as a lowercase hex string so values
	// stay comparable and printable.
	TypeBinary
	// TypeMap carries only the entry count; the entries follow as separate
	// messages.
	TypeMap
	// TypeArray carries its payload as raw, undecoded bytes. Arrays never
	// appear as table values.
	TypeArray
)

// String returns the type name as used in column listings.
func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeString:
		return "string"
	case TypeBinary:
		return "binstr"
	case TypeMap:
		return "fixmap"
	case TypeArray:
		return "fixarray"
	default:
		return "unknown"
	}
}

// Message is one decoded wire value. It only lives for the duration of a
// single decode or encode step.
type Message struct {
	Type Type
	Int  int64
	Uint uint64
	Str  string // TypeString text, TypeBinary lowercase hex
	Bool bool
	Size int    // TypeMap entry count
	Raw  []byte // TypeArray payload
}

// FormatError reports a malformed wire sequence. It is fatal for the file
// being decoded.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("rdb: %s at offset %d", e.Reason, e.Offset)
}

// IsNil reports whether the message is the nil value.
func (m Message) IsNil() bool { return m.Type == TypeNil }

// Text renders the message value as a string. Nil, maps, and arrays render
// empty.
func (m Message) Text() string {
	switch m.Type {
	case TypeString, TypeBinary:
		return m.Str
	case TypeInt:
		return strconv.FormatInt(m.Int, 10)
	case TypeUint:
		return strconv.FormatUint(m.Uint, 10)
	case TypeBool:
		return strconv.FormatBool(m.Bool)
	default:
		return ""
	}
}

// Any returns the dynamic value carried by the message: nil, bool, int64,
// uint64, or string (binary payloads as hex).
func (m Message) Any() any {
	switch m.Type {
	case TypeBool:
		return m.Bool
	case TypeInt:
		return m.Int
	case TypeUint:
		return m.Uint
	case TypeString, TypeBinary:
		return m.Str
	default:
		return nil
	}
}

// Uint64 returns the message as an unsigned integer when it carries a
// non-negative integral value.
func (m Message) Uint64() (uint64, bool) {
	switch m.Type {
	case TypeUint:
		return m.Uint, true
	case TypeInt:
		if m.Int >= 0 {
			return uint64(m.Int), true
		}
	}
	return 0, false
}

// DecodeMessage decodes a single tagged value from data starting at offset.
// It returns the offset of the first byte after the value. An unrecognized
// tag or a truncated payload yields a *FormatError.
func DecodeMessage(data []byte, offset int) (int, Message, error) {
	if offset >= len(data) {
		return offset, Message{}, &FormatError{Offset: offset, Reason: "unexpected end of data"}
	}
	tag := data[offset]

	switch {
	case tag <= 0x7f: // positive fixint
		return offset + 1, Message{Type: TypeInt, Int: int64(tag)}, nil
	case tag >= 0xe0: // negative fixint
		return offset + 1, Message{Type: TypeInt, Int: int64(int8(tag))}, nil
	case tag >= mpFixMap && tag <= 0x8f:
		return offset + 1, Message{Type: TypeMap, Size: int(tag & 0x0f)}, nil
	case tag >= mpFixArray && tag <= 0x9f:
		n := int(tag & 0x0f)
		if err := need(data, offset+1, n); err != nil {
			return offset, Message{}, err
		}
		raw := make([]byte, n)
		copy(raw, data[offset+1:offset+1+n])
		return offset + 1 + n, Message{Type: TypeArray, Raw: raw}, nil
	case tag >= mpFixStr && tag <= 0xbf:
		n := int(tag & 0x1f)
		if err := need(data, offset+1, n); err != nil {
			return offset, Message{}, err
		}
		return offset + 1 + n, Message{Type: TypeString, Str: toUTF8(data[offset+1 : offset+1+n])}, nil
	}

	switch tag {
	case mpNil:
		return offset + 1, Message{Type: TypeNil}, nil
	case mpFalse:
		return offset + 1, Message{Type: TypeBool, Bool: false}, nil
	case mpTrue:
		return offset + 1, Message{Type: TypeBool, Bool: true}, nil

	case mpBin8, mpBin16, mpBin32:
		width := prefixWidth(tag - mpBin8)
		n, err := readLength(data, offset+1, width)
		if err != nil {
			return offset, Message{}, err
		}
		start := offset + 1 + width
		if err := need(data, start, n); err != nil {
			return offset, Message{}, err
		}
		return start + n, Message{Type: TypeBinary, Str: hex.EncodeToString(data[start : start+n])}, nil

	case mpUint8, mpUint16, mpUint32, mpUint64:
		width := 1 << (tag - mpUint8)
		if err := need(data, offset+1, width); err != nil {
			return offset, Message{}, err
		}
		return offset + 1 + width, Message{Type: TypeUint, Uint: readUint(data[offset+1:], width)}, nil

	case mpInt8, mpInt16, mpInt32, mpInt64:
		width := 1 << (tag - mpInt8)
		if err := need(data, offset+1, width); err != nil {
			return offset, Message{}, err
		}
		raw := readUint(data[offset+1:], width)
		var v int64
		switch width {
		case 1:
			v = int64(int8(raw))
		case 2:
			v = int64(int16(raw))
		case 4:
			v = int64(int32(raw))
		default:
			v = int64(raw)
		}
		return offset + 1 + width, Message{Type: TypeInt, Int: v}, nil

	case mpStr8, mpStr16, mpStr32:
		width := prefixWidth(tag - mpStr8)
		n, err := readLength(data, offset+1, width)
		if err != nil {
			return offset, Message{}, err
		}
		start := offset + 1 + width
		if err := need(data, start, n); err != nil {
			return offset, Message{}, err
		}
		return start + n, Message{Type: TypeString, Str: toUTF8(data[start : start+n])}, nil

	case mpMap16:
		if err := need(data, offset+1, 2); err != nil {
			return offset, Message{}, err
		}
		return offset + 3, Message{Type: TypeMap, Size: int(binary.BigEndian.Uint16(data[offset+1:]))}, nil
	case mpMap32:
		if err := need(data, offset+1, 4); err != nil {
			return offset, Message{}, err
		}
		return offset + 5, Message{Type: TypeMap, Size: int(binary.BigEndian.Uint32(data[offset+1:]))}, nil
	}

	return offset, Message{}, &FormatError{Offset: offset, Reason: fmt.Sprintf("unknown tag 0x%02x", tag)}
}

// EncodeMessage encodes a message using the smallest representation that fits
// its value. The only possible error is a binary payload that is not valid
// hex.
func EncodeMessage(m Message) ([]byte, error) {
	switch m.Type {
	case TypeNil:
		return []byte{mpNil}, nil

	case TypeBool:
		if m.Bool {
			return []byte{mpTrue}, nil
		}
		return []byte{mpFalse}, nil

	case TypeInt:
		v := m.Int
		switch {
		case v >= -32 && v <= 0x7f:
			return []byte{byte(v)}, nil
		case v >= -0x80 && v <= 0x7f:
			return []byte{mpInt8, byte(v)}, nil
		case v >= -0x8000 && v <= 0x7fff:
			return appendUint([]byte{mpInt16}, uint64(uint16(v)), 2), nil
		case v >= -0x80000000 && v <= 0x7fffffff:
			return appendUint([]byte{mpInt32}, uint64(uint32(v)), 4), nil
		default:
			return appendUint([]byte{mpInt64}, uint64(v), 8), nil
		}

	case TypeUint:
		v := m.Uint
		switch {
		case v <= 0x7f:
			return []byte{byte(v)}, nil
		case v <= 0xff:
			return []byte{mpUint8, byte(v)}, nil
		case v <= 0xffff:
			return appendUint([]byte{mpUint16}, v, 2), nil
		case v <= 0xffffffff:
			return appendUint([]byte{mpUint32}, v, 4), nil
		default:
			return appendUint([]byte{mpUint64}, v, 8), nil
		}

	case TypeString:
		b := []byte(m.Str)
		n := len(b)
		switch {
		case n < 1<<5:
			return append([]byte{mpFixStr | byte(n)}, b...), nil
		case n < 1<<8:
			return append([]byte{mpStr8, byte(n)}, b...), nil
		case n < 1<<16:
			return append(appendUint([]byte{mpStr16}, uint64(n), 2), b...), nil
		default:
			return append(appendUint([]byte{mpStr32}, uint64(n), 4), b...), nil
		}

	case TypeBinary:
		b, err := hex.DecodeString(m.Str)
		if err != nil {
			return nil, fmt.Errorf("rdb: invalid binary payload %q: %w", m.Str, err)
		}
		n := len(b)
		switch {
		case n < 1<<8:
			return append([]byte{mpBin8, byte(n)}, b...), nil
		case n < 1<<16:
			return append(appendUint([]byte{mpBin16}, uint64(n), 2), b...), nil
		default:
			return append(appendUint([]byte{mpBin32}, uint64(n), 4), b...), nil
		}

	case TypeMap:
		n := m.Size
		switch {
		case n < 1<<4:
			return []byte{mpFixMap | byte(n)}, nil
		case n < 1<<16:
			return appendUint([]byte{mpMap16}, uint64(n), 2), nil
		default:
			return appendUint([]byte{mpMap32}, uint64(n), 4), nil
		}

	case TypeArray:
		if len(m.Raw) >= 1<<4 {
			return nil, fmt.Errorf("rdb: array payload of %d bytes does not fit a fixarray", len(m.Raw))
		}
		return append([]byte{mpFixArray | byte(len(m.Raw))}, m.Raw...), nil
	}

	return nil, fmt.Errorf("rdb: cannot encode message type %s", m.Type)
}

// prefixWidth maps the 8/16/32 tag variant index to its length-prefix width.
func prefixWidth(variant byte) int {
	switch variant {
	case 0:
		return 1
	case 1:
		return 2
	default:
		return 4
	}
}

func readLength(data []byte, offset, width int) (int, error) {
	if err := need(data, offset, width); err != nil {
		return 0, err
	}
	return int(readUint(data[offset:], width)), nil
}

func readUint(data []byte, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v = v<<8 | uint64(data[i])
	}
	return v
}

func appendUint(dst []byte, v uint64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

func need(data []byte, offset, n int) error {
	if offset+n > len(data) {
		return &FormatError{Offset: offset, Reason: "truncated payload"}
	}
	return nil
}

// toUTF8 replaces invalid UTF-8 instead of failing; string payloads are
// best-effort. Replacement is per invalid byte, not per run.
func toUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune('�')
		} else {
			sb.WriteRune(r)
		}
		b = b[size:]
	}
	return sb.String()
}
