package rdb

import (
	"encoding/binary"
	"os"
	"sort"
)

// HeaderSize is the fixed size of the file header: an 8-byte magic tag
// followed by an 8-byte big-endian metadata offset.
const HeaderSize = 16

// DefaultMagic is the magic tag written for newly built tables. Decoding
// accepts any magic; only the length of the header matters for reads.
var DefaultMagic = [8]byte{'R', 'A', 'R', 'C', 'H', 'D', 'B', 0}

// Header is the raw file header. The metadata offset is carried through
// round trips but is not required to be meaningful.
type Header struct {
	Magic          [8]byte
	MetadataOffset uint64
}

// Field is one decoded name/value pair inside a row.
type Field struct {
	Name  string
	Value Message
}

// Row is an ordered field map. Field order is wire order.
type Row []Field

// Get returns the value of the named field.
func (r Row) Get(name string) (Message, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Message{}, false
}

// Column records a column name together with the first value type seen for
// it. Later rows may carry a different physical type for the same column;
// the first one wins.
type Column struct {
	Name string
	Type Type
}

// Table is a fully decoded .rdb file: discovered columns, rows in post-sort
// order, and the trailing count metadata.
type Table struct {
	Header  Header
	Columns []Column
	Rows    []Row
	Count   uint64
}

// ColumnType returns the recorded type for a column name.
func (t *Table) ColumnType(name string) (Type, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Type, true
		}
	}
	return TypeNil, false
}

// Load reads and decodes the file at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Save encodes the table and writes it to path.
func (t *Table) Save(path string) error {
	data, err := t.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Decode parses a whole .rdb file. Only map messages are meaningful at the
// top level; anything else (such as the bare nil separating the last row
// from the count record) is skipped. A one-field map named "count" is
// metadata, never a row. When a "name" column exists, rows are stably
// sorted by it after decoding; the sort has no wire significance.
func Decode(data []byte) (*Table, error) {
	if len(data) < HeaderSize {
		return nil, &FormatError{Offset: 0, Reason: "file too small to contain a header"}
	}

	t := &Table{}
	copy(t.Header.Magic[:], data[:8])
	t.Header.MetadataOffset = binary.BigEndian.Uint64(data[8:HeaderSize])

	offset := HeaderSize
	haveCount := false
	for offset < len(data) {
		var msg Message
		var err error
		offset, msg, err = DecodeMessage(data, offset)
		if err != nil {
			return nil, err
		}
		if msg.Type != TypeMap {
			continue
		}

		row := make(Row, 0, msg.Size)
		for i := 0; i < msg.Size; i++ {
			var nameMsg, valueMsg Message
			offset, nameMsg, err = DecodeMessage(data, offset)
			if err != nil {
				return nil, err
			}
			offset, valueMsg, err = DecodeMessage(data, offset)
			if err != nil {
				return nil, err
			}
			row = append(row, Field{Name: nameMsg.Text(), Value: valueMsg})
		}

		if len(row) == 1 && row[0].Name == "count" {
			if n, ok := row[0].Value.Uint64(); ok {
				t.Count = n
				haveCount = true
			}
			continue
		}

		for _, f := range row {
			if _, known := t.ColumnType(f.Name); !known {
				t.Columns = append(t.Columns, Column{Name: f.Name, Type: f.Value.Type})
			}
		}
		t.Rows = append(t.Rows, row)
	}

	if _, ok := t.ColumnType("name"); ok {
		sort.SliceStable(t.Rows, func(i, j int) bool {
			return rowName(t.Rows[i]) < rowName(t.Rows[j])
		})
	}
	if !haveCount {
		t.Count = uint64(len(t.Rows))
	}
	return t, nil
}

// Encode serializes the table back to wire form: header, one fixmap record
// per row, then a bare nil followed by a one-field {count: uint} map. The
// trailer is reproduced exactly for cross-tool compatibility even though a
// bare nil between rows and count departs from plain MessagePack framing.
func (t *Table) Encode() ([]byte, error) {
	buf := make([]byte, 0, HeaderSize)
	buf = append(buf, t.Header.Magic[:]...)
	buf = binary.BigEndian.AppendUint64(buf, t.Header.MetadataOffset)

	for _, row := range t.Rows {
		head, err := EncodeMessage(Message{Type: TypeMap, Size: len(row)})
		if err != nil {
			return nil, err
		}
		buf = append(buf, head...)
		for _, f := range row {
			name, err := EncodeMessage(Message{Type: TypeString, Str: f.Name})
			if err != nil {
				return nil, err
			}
			buf = append(buf, name...)

			typ, known := t.ColumnType(f.Name)
			if !known {
				typ = f.Value.Type
			}
			value, err := EncodeMessage(coerce(f.Value, typ))
			if err != nil {
				return nil, err
			}
			buf = append(buf, value...)
		}
	}

	for _, m := range []Message{
		{Type: TypeNil},
		{Type: TypeMap, Size: 1},
		{Type: TypeString, Str: "count"},
		{Type: TypeUint, Uint: uint64(len(t.Rows))},
	} {
		enc, err := EncodeMessage(m)
		if err != nil {
			return nil, err
		}
		buf = append(buf, enc...)
	}
	return buf, nil
}

// coerce re-tags an integer value to match the column's recorded signedness.
// Any other type mismatch keeps the value's own type.
func coerce(m Message, typ Type) Message {
	if m.Type == typ {
		return m
	}
	switch {
	case typ == TypeUint && m.Type == TypeInt && m.Int >= 0:
		return Message{Type: TypeUint, Uint: uint64(m.Int)}
	case typ == TypeInt && m.Type == TypeUint && m.Uint <= 1<<63-1:
		return Message{Type: TypeInt, Int: int64(m.Uint)}
	}
	return m
}

func rowName(r Row) string {
	if m, ok := r.Get("name"); ok {
		return m.Str
	}
	return ""
}
