// Copyright 2018 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package colsort

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/apd"
	"github.com/cockroachdb/errors"

	"github.com/colvecdb/engine/coldata"
)

// The spill file format is a self-describing schema header followed by
// zero or more length-prefixed columnar blocks, per spec.md §6. This is
// the concrete implementation of what spec.md §1 treats externally as
// an opaque block codec — nothing else in scope defines one, so this
// module supplies a minimal one rather than leave spill unimplementable.
//
// Layout:
//   uint32       attribute count
//   per attribute: uint32 name length, name bytes, byte type, byte nullability
//   then, repeated: uint32 row count (0 marks end of stream), per column payload

func writeSchemaHeader(w *bufio.Writer, schema coldata.TupleSchema) error {
	if err := writeUint32(w, uint32(schema.NumAttrs())); err != nil {
		return err
	}
	for i := 0; i < schema.NumAttrs(); i++ {
		a := schema.Attr(i)
		if err := writeUint32(w, uint32(len(a.Name))); err != nil {
			return err
		}
		if _, err := w.WriteString(a.Name); err != nil {
			return err
		}
		if err := w.WriteByte(byte(a.Type)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(a.Nullability)); err != nil {
			return err
		}
	}
	return nil
}

func readSchemaHeader(r *bufio.Reader) (coldata.TupleSchema, error) {
	numAttrs, err := readUint32(r)
	if err != nil {
		return coldata.TupleSchema{}, err
	}
	attrs := make([]coldata.Attribute, numAttrs)
	for i := range attrs {
		nameLen, err := readUint32(r)
		if err != nil {
			return coldata.TupleSchema{}, err
		}
		nameBuf := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return coldata.TupleSchema{}, err
		}
		typByte, err := r.ReadByte()
		if err != nil {
			return coldata.TupleSchema{}, err
		}
		nullByte, err := r.ReadByte()
		if err != nil {
			return coldata.TupleSchema{}, err
		}
		attrs[i] = coldata.Attribute{
			Name:        string(nameBuf),
			Type:        coldata.DataType(typByte),
			Nullability: coldata.Nullability(nullByte),
		}
	}
	return coldata.NewTupleSchema(attrs)
}

// writeBlock writes one page of view (up to coldata.BatchSize rows are
// expected by convention, though any row count is accepted).
func writeBlock(w *bufio.Writer, view coldata.View) error {
	n := view.RowCount()
	if err := writeUint32(w, uint32(n)); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	for c := 0; c < view.Schema().NumAttrs(); c++ {
		col := view.Column(c)
		attr := view.Schema().Attr(c)
		if attr.Nullability == coldata.Nullable {
			for i := 0; i < n; i++ {
				p := view.PhysicalIndex(i)
				b := byte(0)
				if col.Nulls().NullAt(p) {
					b = 1
				}
				if err := w.WriteByte(b); err != nil {
					return err
				}
			}
		}
		if err := writeColumnData(w, view, c, col); err != nil {
			return err
		}
	}
	return nil
}

func writeColumnData(w *bufio.Writer, view coldata.View, colIdx int, col *coldata.Column) error {
	n := view.RowCount()
	switch col.Type() {
	case coldata.Int32, coldata.Date:
		for i := 0; i < n; i++ {
			if err := binary.Write(w, binary.LittleEndian, col.Int32()[view.PhysicalIndex(i)]); err != nil {
				return err
			}
		}
	case coldata.Uint32:
		for i := 0; i < n; i++ {
			if err := binary.Write(w, binary.LittleEndian, col.Uint32()[view.PhysicalIndex(i)]); err != nil {
				return err
			}
		}
	case coldata.Int64, coldata.DateTime:
		for i := 0; i < n; i++ {
			if err := binary.Write(w, binary.LittleEndian, col.Int64()[view.PhysicalIndex(i)]); err != nil {
				return err
			}
		}
	case coldata.Uint64:
		for i := 0; i < n; i++ {
			if err := binary.Write(w, binary.LittleEndian, col.Uint64()[view.PhysicalIndex(i)]); err != nil {
				return err
			}
		}
	case coldata.Float:
		for i := 0; i < n; i++ {
			if err := binary.Write(w, binary.LittleEndian, col.Float32()[view.PhysicalIndex(i)]); err != nil {
				return err
			}
		}
	case coldata.Double:
		for i := 0; i < n; i++ {
			if err := binary.Write(w, binary.LittleEndian, col.Float64()[view.PhysicalIndex(i)]); err != nil {
				return err
			}
		}
	case coldata.Bool:
		for i := 0; i < n; i++ {
			v := byte(0)
			if col.Bool()[view.PhysicalIndex(i)] {
				v = 1
			}
			if err := w.WriteByte(v); err != nil {
				return err
			}
		}
	case coldata.String, coldata.Binary:
		for i := 0; i < n; i++ {
			b := col.Bytes()[view.PhysicalIndex(i)]
			if err := writeUint32(w, uint32(len(b))); err != nil {
				return err
			}
			if _, err := w.Write(b); err != nil {
				return err
			}
		}
	case coldata.Decimal:
		for i := 0; i < n; i++ {
			s := col.Decimal()[view.PhysicalIndex(i)].String()
			if err := writeUint32(w, uint32(len(s))); err != nil {
				return err
			}
			if _, err := w.WriteString(s); err != nil {
				return err
			}
		}
	default:
		return errors.Newf("colsort: unsupported spill column type %s", col.Type())
	}
	return nil
}

// readBlock reads one page written by writeBlock into a freshly
// allocated Block. Returns (nil, io.EOF) at a 0-row terminator page.
func readBlock(r *bufio.Reader, schema coldata.TupleSchema) (*coldata.Block, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}
	block := coldata.NewBlock(schema, int(n))
	for c := 0; c < schema.NumAttrs(); c++ {
		attr := schema.Attr(c)
		col := block.MutableColumn(c)
		if attr.Nullability == coldata.Nullable {
			for i := 0; i < int(n); i++ {
				b, err := r.ReadByte()
				if err != nil {
					return nil, err
				}
				if b == 1 {
					col.Nulls().SetNull(i)
				}
			}
		}
		if err := readColumnData(r, int(n), col); err != nil {
			return nil, err
		}
	}
	block.SetLength(int(n))
	return block, nil
}

func readColumnData(r *bufio.Reader, n int, col *coldata.Column) error {
	switch col.Type() {
	case coldata.Int32, coldata.Date:
		vals := col.Int32()
		for i := 0; i < n; i++ {
			if err := binary.Read(r, binary.LittleEndian, &vals[i]); err != nil {
				return err
			}
		}
	case coldata.Uint32:
		vals := col.Uint32()
		for i := 0; i < n; i++ {
			if err := binary.Read(r, binary.LittleEndian, &vals[i]); err != nil {
				return err
			}
		}
	case coldata.Int64, coldata.DateTime:
		vals := col.Int64()
		for i := 0; i < n; i++ {
			if err := binary.Read(r, binary.LittleEndian, &vals[i]); err != nil {
				return err
			}
		}
	case coldata.Uint64:
		vals := col.Uint64()
		for i := 0; i < n; i++ {
			if err := binary.Read(r, binary.LittleEndian, &vals[i]); err != nil {
				return err
			}
		}
	case coldata.Float:
		vals := col.Float32()
		for i := 0; i < n; i++ {
			if err := binary.Read(r, binary.LittleEndian, &vals[i]); err != nil {
				return err
			}
		}
	case coldata.Double:
		vals := col.Float64()
		for i := 0; i < n; i++ {
			if err := binary.Read(r, binary.LittleEndian, &vals[i]); err != nil {
				return err
			}
		}
	case coldata.Bool:
		vals := col.Bool()
		for i := 0; i < n; i++ {
			b, err := r.ReadByte()
			if err != nil {
				return err
			}
			vals[i] = b == 1
		}
	case coldata.String, coldata.Binary:
		for i := 0; i < n; i++ {
			l, err := readUint32(r)
			if err != nil {
				return err
			}
			buf := col.Arena().AllocateBytes(int(l))
			if _, err := io.ReadFull(r, buf); err != nil {
				return err
			}
			col.Bytes()[i] = buf
		}
	case coldata.Decimal:
		vals := col.Decimal()
		for i := 0; i < n; i++ {
			l, err := readUint32(r)
			if err != nil {
				return err
			}
			buf := make([]byte, l)
			if _, err := io.ReadFull(r, buf); err != nil {
				return err
			}
			d := &apd.Decimal{}
			if _, _, err := d.SetString(string(buf)); err != nil {
				return err
			}
			vals[i] = *d
		}
	default:
		return errors.Newf("colsort: unsupported spill column type %s", col.Type())
	}
	return nil
}

func writeUint32(w *bufio.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r *bufio.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}
