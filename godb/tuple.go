package godb

// This file defines the data model: field types, the TupleDesc row
// descriptor, tuple field values, and the fixed-size on-disk tuple
// encoding described in spec.md sections 3 and 6.

import (
	"encoding/binary"
	"io"
	"strconv"
	"strings"
)

// FieldType is the type of one column of a TupleDesc: its optional name and
// its DBType. Two FieldTypes participate in TupleDesc equality only by
// Ftype; Fname is carried for display and by-name lookup only.
type FieldType struct {
	Fname string
	Ftype DBType
}

// TupleDesc is the schema of a Tuple: an ordered, non-empty sequence of
// FieldTypes.
type TupleDesc struct {
	Fields []FieldType
}

// Equals reports whether two descriptors have the same length and
// element-wise equal types. Names are ignored.
func (td *TupleDesc) Equals(other *TupleDesc) bool {
	if other == nil {
		return false
	}
	if len(td.Fields) != len(other.Fields) {
		return false
	}
	for i := range td.Fields {
		if td.Fields[i].Ftype != other.Fields[i].Ftype {
			return false
		}
	}
	return true
}

// Size returns the sum, in bytes, of the on-disk widths of every field.
func (td *TupleDesc) Size() int32 {
	var total int32
	for _, f := range td.Fields {
		total += f.Ftype.bytesOnDisk()
	}
	return total
}

// Copy makes a shallow copy of the descriptor's field slice.
func (td *TupleDesc) Copy() *TupleDesc {
	fields := make([]FieldType, len(td.Fields))
	copy(fields, td.Fields)
	return &TupleDesc{Fields: fields}
}

// Merge concatenates a and b, in that order. The fields of the result come
// from a then b.
func Merge(a, b *TupleDesc) *TupleDesc {
	fields := make([]FieldType, 0, len(a.Fields)+len(b.Fields))
	fields = append(fields, a.Fields...)
	fields = append(fields, b.Fields...)
	return &TupleDesc{Fields: fields}
}

// FieldNameIndex returns the index of the first field named name, or an
// error if no such field exists. Duplicate names are permitted on a
// TupleDesc, but only the first is reachable by name.
func (td *TupleDesc) FieldNameIndex(name string) (int, error) {
	for i, f := range td.Fields {
		if f.Fname == name {
			return i, nil
		}
	}
	return -1, newDbErr("field %q not found", name)
}

// ================== Field values ======================

// DBValue is a tagged field value: IntField or StringField.
type DBValue interface {
	// EvalPred compares the receiver to v using op, returning the boolean
	// result. Comparing values of different concrete types is always false,
	// LIKE included. LIKE's semantics differ by type (see spec.md 3):
	// substring containment on strings, equality on ints.
	EvalPred(v DBValue, op BoolOp) bool
}

// IntField is a 4-byte signed integer field value.
type IntField struct {
	Value int32
}

// StringField is a field value stored as up to 124 bytes of payload.
type StringField struct {
	Value string
}

func (f IntField) EvalPred(v DBValue, op BoolOp) bool {
	other, ok := v.(IntField)
	if !ok {
		return false
	}
	switch op {
	case OpEquals:
		return f.Value == other.Value
	case OpNotEquals:
		return f.Value != other.Value
	case OpLessThan:
		return f.Value < other.Value
	case OpLessThanOrEqual:
		return f.Value <= other.Value
	case OpGreaterThan:
		return f.Value > other.Value
	case OpGreaterThanOrEqual:
		return f.Value >= other.Value
	case OpLike:
		return f.Value == other.Value
	}
	return false
}

func (f StringField) EvalPred(v DBValue, op BoolOp) bool {
	other, ok := v.(StringField)
	if !ok {
		return false
	}
	switch op {
	case OpEquals:
		return f.Value == other.Value
	case OpNotEquals:
		return f.Value != other.Value
	case OpLessThan:
		return f.Value < other.Value
	case OpLessThanOrEqual:
		return f.Value <= other.Value
	case OpGreaterThan:
		return f.Value > other.Value
	case OpGreaterThanOrEqual:
		return f.Value >= other.Value
	case OpLike:
		return strings.Contains(f.Value, other.Value)
	}
	return false
}

// ================== Tuple ======================

// Tuple is an ordered vector of field values bound to a TupleDesc, with an
// optional RecordID naming where it lives on disk.
type Tuple struct {
	Desc   *TupleDesc
	Fields []DBValue
	Rid    *RecordID
}

// NewTuple builds a tuple with no record id, validating that each field's
// type matches the corresponding descriptor entry.
func NewTuple(desc *TupleDesc, fields []DBValue) (*Tuple, error) {
	if len(fields) != len(desc.Fields) {
		return nil, newDbErr("expected %d fields, got %d", len(desc.Fields), len(fields))
	}
	for i, f := range fields {
		if err := checkFieldType(desc.Fields[i].Ftype, f); err != nil {
			return nil, err
		}
	}
	return &Tuple{Desc: desc, Fields: fields}, nil
}

func checkFieldType(want DBType, v DBValue) error {
	switch v.(type) {
	case IntField:
		if want != IntType {
			return newDbErr("expected %s field, got int", want)
		}
	case StringField:
		if want != StringType {
			return newDbErr("expected %s field, got string", want)
		}
	default:
		return newDbErr("unsupported field value %T", v)
	}
	return nil
}

// SetField overwrites field i, validating its type against the descriptor.
func (t *Tuple) SetField(i int, v DBValue) error {
	if i < 0 || i >= len(t.Desc.Fields) {
		return newDbErr("field index %d out of range", i)
	}
	if err := checkFieldType(t.Desc.Fields[i].Ftype, v); err != nil {
		return err
	}
	t.Fields[i] = v
	return nil
}

func writeIntField(w io.Writer, f IntField) error {
	return binary.Write(w, binary.BigEndian, f.Value)
}

func writeStringField(w io.Writer, f StringField) error {
	payload := []byte(f.Value)
	if len(payload) > stringPayloadLength {
		payload = payload[:stringPayloadLength]
	}
	if err := binary.Write(w, binary.BigEndian, int32(len(payload))); err != nil {
		return err
	}
	padded := make([]byte, stringPayloadLength)
	copy(padded, payload)
	_, err := w.Write(padded)
	return err
}

// writeTo serializes the tuple's fields, in order, using the wire format in
// spec.md section 6: big-endian 4-byte ints, and length-prefixed,
// zero-padded 128-byte strings.
func (t *Tuple) writeTo(w io.Writer) error {
	for _, f := range t.Fields {
		switch v := f.(type) {
		case IntField:
			if err := writeIntField(w, v); err != nil {
				return err
			}
		case StringField:
			if err := writeStringField(w, v); err != nil {
				return err
			}
		default:
			return newDbErr("unsupported field type %T", f)
		}
	}
	return nil
}

func readIntField(r io.Reader) (IntField, error) {
	var v int32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return IntField{}, err
	}
	return IntField{Value: v}, nil
}

func readStringField(r io.Reader) (StringField, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return StringField{}, err
	}
	if n < 0 || int(n) > stringPayloadLength {
		return StringField{}, newParseErr("invalid string length %d", n)
	}
	buf := make([]byte, stringPayloadLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return StringField{}, err
	}
	return StringField{Value: string(buf[:n])}, nil
}

// readTupleFrom deserializes one tuple of the given descriptor from r.
func readTupleFrom(r io.Reader, desc *TupleDesc) (*Tuple, error) {
	fields := make([]DBValue, len(desc.Fields))
	for i, ft := range desc.Fields {
		switch ft.Ftype {
		case IntType:
			f, err := readIntField(r)
			if err != nil {
				return nil, newParseErr("reading int field %d: %v", i, err)
			}
			fields[i] = f
		case StringType:
			f, err := readStringField(r)
			if err != nil {
				return nil, newParseErr("reading string field %d: %v", i, err)
			}
			fields[i] = f
		default:
			return nil, newParseErr("unsupported field type at index %d", i)
		}
	}
	return &Tuple{Desc: desc, Fields: fields}, nil
}

// Equals reports whether two tuples have equal descriptors (ignoring names)
// and equal fields in order.
func (t *Tuple) Equals(other *Tuple) bool {
	if t == nil || other == nil {
		return t == other
	}
	if !t.Desc.Equals(other.Desc) {
		return false
	}
	if len(t.Fields) != len(other.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// JoinTuples concatenates t1's fields with t2's, producing a tuple whose
// descriptor is Merge(t1.Desc, t2.Desc).
func JoinTuples(t1, t2 *Tuple) *Tuple {
	desc := Merge(t1.Desc, t2.Desc)
	fields := make([]DBValue, 0, len(t1.Fields)+len(t2.Fields))
	fields = append(fields, t1.Fields...)
	fields = append(fields, t2.Fields...)
	return &Tuple{Desc: desc, Fields: fields}
}

type orderByState int

const (
	OrderedLessThan orderByState = iota
	OrderedEqual
	OrderedGreaterThan
)

// compareFields orders two field values of the same concrete type.
func compareFields(a, b DBValue) (orderByState, error) {
	switch av := a.(type) {
	case IntField:
		bv, ok := b.(IntField)
		if !ok {
			return OrderedEqual, newDbErr("cannot compare int to %T", b)
		}
		switch {
		case av.Value < bv.Value:
			return OrderedLessThan, nil
		case av.Value > bv.Value:
			return OrderedGreaterThan, nil
		default:
			return OrderedEqual, nil
		}
	case StringField:
		bv, ok := b.(StringField)
		if !ok {
			return OrderedEqual, newDbErr("cannot compare string to %T", b)
		}
		switch {
		case av.Value < bv.Value:
			return OrderedLessThan, nil
		case av.Value > bv.Value:
			return OrderedGreaterThan, nil
		default:
			return OrderedEqual, nil
		}
	}
	return OrderedEqual, newDbErr("unsupported field comparison %T vs %T", a, b)
}

// tupleKey computes a comparable key for use in maps (e.g. DISTINCT
// projection).
func (t *Tuple) tupleKey() string {
	var sb strings.Builder
	for _, f := range t.Fields {
		switch v := f.(type) {
		case IntField:
			sb.WriteString(strconv.FormatInt(int64(v.Value), 10))
		case StringField:
			sb.WriteString(v.Value)
		}
		sb.WriteByte('\x00')
	}
	return sb.String()
}

// PrettyPrintString renders a tuple's field values, comma-separated.
func (t *Tuple) PrettyPrintString() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		switch v := f.(type) {
		case IntField:
			parts[i] = strconv.FormatInt(int64(v.Value), 10)
		case StringField:
			parts[i] = v.Value
		}
	}
	return strings.Join(parts, ",")
}

// HeaderString renders a descriptor's field names, comma-separated.
func (td *TupleDesc) HeaderString() string {
	parts := make([]string, len(td.Fields))
	for i, f := range td.Fields {
		parts[i] = f.Fname
	}
	return strings.Join(parts, ",")
}
