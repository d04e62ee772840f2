package rdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMessage_MinimalIntegerWidth(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		want []byte
	}{
		{"positive fixint", Message{Type: TypeInt, Int: 100}, []byte{0x64}},
		{"zero", Message{Type: TypeInt, Int: 0}, []byte{0x00}},
		{"negative fixint", Message{Type: TypeInt, Int: -1}, []byte{0xff}},
		{"negative fixint floor", Message{Type: TypeInt, Int: -32}, []byte{0xe0}},
		{"int8", Message{Type: TypeInt, Int: -33}, []byte{0xd0, 0xdf}},
		{"int16", Message{Type: TypeInt, Int: -1000}, []byte{0xd1, 0xfc, 0x18}},
		{"int32", Message{Type: TypeInt, Int: -40000}, []byte{0xd2, 0xff, 0xff, 0x63, 0xc0}},
		{"int64", Message{Type: TypeInt, Int: -5000000000}, []byte{0xd3, 0xff, 0xff, 0xff, 0xfe, 0xd5, 0xfa, 0x0e, 0x00}},
		{"uint fits fixint", Message{Type: TypeUint, Uint: 100}, []byte{0x64}},
		{"uint8", Message{Type: TypeUint, Uint: 200}, []byte{0xcc, 0xc8}},
		{"uint16", Message{Type: TypeUint, Uint: 1024}, []byte{0xcd, 0x04, 0x00}},
		{"uint32", Message{Type: TypeUint, Uint: 70000}, []byte{0xce, 0x00, 0x01, 0x11, 0x70}},
		{"uint64", Message{Type: TypeUint, Uint: 1 << 35}, []byte{0xcf, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeMessage(tc.msg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeMessage_Strings(t *testing.T) {
	t.Run("fixstr", func(t *testing.T) {
		got, err := EncodeMessage(Message{Type: TypeString, Str: "name"})
		require.NoError(t, err)
		assert.Equal(t, []byte{0xa4, 'n', 'a', 'm', 'e'}, got)
	})

	t.Run("str8", func(t *testing.T) {
		long := make([]byte, 40)
		for i := range long {
			long[i] = 'x'
		}
		got, err := EncodeMessage(Message{Type: TypeString, Str: string(long)})
		require.NoError(t, err)
		assert.Equal(t, byte(0xd9), got[0])
		assert.Equal(t, byte(40), got[1])
		assert.Len(t, got, 42)
	})

	t.Run("str16", func(t *testing.T) {
		long := make([]byte, 300)
		got, err := EncodeMessage(Message{Type: TypeString, Str: string(long)})
		require.NoError(t, err)
		assert.Equal(t, []byte{0xda, 0x01, 0x2c}, got[:3])
	})
}

func TestEncodeMessage_Binary(t *testing.T) {
	got, err := EncodeMessage(Message{Type: TypeBinary, Str: "abcd1234"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xc4, 0x04, 0xab, 0xcd, 0x12, 0x34}, got)

	_, err = EncodeMessage(Message{Type: TypeBinary, Str: "not hex"})
	assert.Error(t, err)
}

func TestEncodeMessage_Simple(t *testing.T) {
	for _, tc := range []struct {
		msg  Message
		want []byte
	}{
		{Message{Type: TypeNil}, []byte{0xc0}},
		{Message{Type: TypeBool, Bool: true}, []byte{0xc3}},
		{Message{Type: TypeBool, Bool: false}, []byte{0xc2}},
		{Message{Type: TypeMap, Size: 3}, []byte{0x83}},
		{Message{Type: TypeMap, Size: 100}, []byte{0xde, 0x00, 0x64}},
	} {
		got, err := EncodeMessage(tc.msg)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestDecodeMessage_RoundTrip(t *testing.T) {
	msgs := []Message{
		{Type: TypeNil},
		{Type: TypeBool, Bool: true},
		{Type: TypeInt, Int: 42},
		{Type: TypeInt, Int: -42},
		{Type: TypeInt, Int: -30000},
		{Type: TypeUint, Uint: 3000000000},
		{Type: TypeString, Str: "Super Game (USA)"},
		{Type: TypeBinary, Str: "deadbeef"},
		{Type: TypeMap, Size: 7},
	}
	for _, m := range msgs {
		enc, err := EncodeMessage(m)
		require.NoError(t, err)

		next, got, err := DecodeMessage(enc, 0)
		require.NoError(t, err)
		assert.Equal(t, len(enc), next)

		// Small unsigned values travel as fixints and come back signed;
		// compare numerically in that case.
		if m.Type == TypeUint && m.Uint <= 0x7f {
			assert.Equal(t, TypeInt, got.Type)
			assert.Equal(t, int64(m.Uint), got.Int)
			continue
		}
		assert.Equal(t, m, got)
	}
}

func TestDecodeMessage_SizedPrefixes(t *testing.T) {
	t.Run("uint16", func(t *testing.T) {
		_, msg, err := DecodeMessage([]byte{0xcd, 0x01, 0x00}, 0)
		require.NoError(t, err)
		assert.Equal(t, Message{Type: TypeUint, Uint: 256}, msg)
	})

	t.Run("map16", func(t *testing.T) {
		_, msg, err := DecodeMessage([]byte{0xde, 0x00, 0x11}, 0)
		require.NoError(t, err)
		assert.Equal(t, TypeMap, msg.Type)
		assert.Equal(t, 17, msg.Size)
	})

	t.Run("bin16 length is big-endian", func(t *testing.T) {
		payload := append([]byte{0xc5, 0x00, 0x03}, 0x0a, 0x0b, 0x0c)
		next, msg, err := DecodeMessage(payload, 0)
		require.NoError(t, err)
		assert.Equal(t, len(payload), next)
		assert.Equal(t, Message{Type: TypeBinary, Str: "0a0b0c"}, msg)
	})

	t.Run("fixarray payload is captured raw", func(t *testing.T) {
		next, msg, err := DecodeMessage([]byte{0x92, 0x01, 0x02}, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, next)
		assert.Equal(t, TypeArray, msg.Type)
		assert.Equal(t, []byte{0x01, 0x02}, msg.Raw)
	})
}

func TestDecodeMessage_InvalidUTF8Replaced(t *testing.T) {
	t.Run("one replacement per invalid byte", func(t *testing.T) {
		_, msg, err := DecodeMessage([]byte{0xa2, 0xff, 0xfe}, 0)
		require.NoError(t, err)
		assert.Equal(t, TypeString, msg.Type)
		assert.Equal(t, "��", msg.Str)
	})

	t.Run("valid runs survive around invalid bytes", func(t *testing.T) {
		_, msg, err := DecodeMessage([]byte{0xa3, 'a', 0x80, 'b'}, 0)
		require.NoError(t, err)
		assert.Equal(t, "a�b", msg.Str)
	})
}

func TestDecodeMessage_Errors(t *testing.T) {
	t.Run("unknown tag", func(t *testing.T) {
		_, _, err := DecodeMessage([]byte{0x00, 0xc1}, 1)
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 1, fe.Offset)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, _, err := DecodeMessage([]byte{0xcd, 0x01}, 0)
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
	})

	t.Run("end of data", func(t *testing.T) {
		_, _, err := DecodeMessage(nil, 0)
		assert.Error(t, err)
	})
}

func TestMessage_Text(t *testing.T) {
	assert.Equal(t, "12", Message{Type: TypeInt, Int: 12}.Text())
	assert.Equal(t, "12", Message{Type: TypeUint, Uint: 12}.Text())
	assert.Equal(t, "true", Message{Type: TypeBool, Bool: true}.Text())
	assert.Equal(t, "abcd", Message{Type: TypeBinary, Str: "abcd"}.Text())
	assert.Equal(t, "", Message{Type: TypeNil}.Text())
}
