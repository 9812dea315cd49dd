package gds

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	errs "github.com/matzehuels/gdsr/pkg/errors"
)

// Record is one framed unit of a stream: a type, a payload encoding and the
// raw payload bytes.
type Record struct {
	Type     RecordType
	DataType DataType
	Data     []byte
	Offset   int64 // byte offset of the record header within the stream
}

func (r Record) String() string {
	return fmt.Sprintf("%s[%s, %d bytes]", r.Type, r.DataType, len(r.Data))
}

func (r Record) malformed(format string, args ...any) error {
	return errs.Wrap(errs.ErrCodeMalformedStream,
		&errs.StreamError{Offset: r.Offset, Record: r.Type.String(), Err: fmt.Errorf(format, args...)},
		"decode stream")
}

func (r Record) expect(dt DataType) error {
	if r.DataType != dt {
		return r.malformed("expected %s payload, got %s", dt, r.DataType)
	}
	return nil
}

// Int16s decodes the payload as big-endian signed 16-bit integers. Bit array
// payloads are accepted as well.
func (r Record) Int16s() ([]int16, error) {
	if r.DataType != Int16 && r.DataType != BitArray {
		return nil, r.malformed("expected int16 payload, got %s", r.DataType)
	}
	if len(r.Data)%2 != 0 {
		return nil, r.malformed("odd payload length %d", len(r.Data))
	}
	out := make([]int16, len(r.Data)/2)
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(r.Data[2*i:]))
	}
	return out, nil
}

// Int32s decodes the payload as big-endian signed 32-bit integers.
func (r Record) Int32s() ([]int32, error) {
	if err := r.expect(Int32); err != nil {
		return nil, err
	}
	if len(r.Data)%4 != 0 {
		return nil, r.malformed("payload length %d is not a multiple of 4", len(r.Data))
	}
	out := make([]int32, len(r.Data)/4)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(r.Data[4*i:]))
	}
	return out, nil
}

// Reals decodes the payload as 8-byte stream reals.
func (r Record) Reals() ([]float64, error) {
	if err := r.expect(Real8); err != nil {
		return nil, err
	}
	if len(r.Data)%8 != 0 {
		return nil, r.malformed("payload length %d is not a multiple of 8", len(r.Data))
	}
	out := make([]float64, len(r.Data)/8)
	for i := range out {
		out[i] = DecodeReal([8]byte(r.Data[8*i : 8*i+8]))
	}
	return out, nil
}

// Text decodes an ASCII payload with trailing NUL padding removed.
func (r Record) Text() (string, error) {
	if err := r.expect(ASCII); err != nil {
		return "", err
	}
	end := len(r.Data)
	for end > 0 && r.Data[end-1] == 0 {
		end--
	}
	return string(r.Data[:end]), nil
}

// int16At returns the first int16 of the payload.
func (r Record) int16At() (int16, error) {
	v, err := r.Int16s()
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, r.malformed("empty payload")
	}
	return v[0], nil
}

func (r Record) int32At() (int32, error) {
	v, err := r.Int32s()
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, r.malformed("empty payload")
	}
	return v[0], nil
}

func (r Record) realAt() (float64, error) {
	v, err := r.Reals()
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, r.malformed("empty payload")
	}
	return v[0], nil
}

// RecordReader splits a stream into records.
type RecordReader struct {
	r      *bufio.Reader
	offset int64
	header [headerSize]byte
}

// NewRecordReader returns a RecordReader reading from r.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{r: bufio.NewReader(r)}
}

// Offset returns the number of bytes consumed so far.
func (rr *RecordReader) Offset() int64 { return rr.offset }

// Next returns the next record. It returns io.EOF when the stream ends
// cleanly on a record boundary; every other failure is MALFORMED_STREAM.
func (rr *RecordReader) Next() (Record, error) {
	start := rr.offset
	n, err := io.ReadFull(rr.r, rr.header[:])
	rr.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, streamError(start, "", "truncated record header")
	}

	length := int(binary.BigEndian.Uint16(rr.header[0:2]))
	rec := Record{
		Type:     RecordType(rr.header[2]),
		DataType: DataType(rr.header[3]),
		Offset:   start,
	}
	if length < headerSize {
		return Record{}, streamError(start, rec.Type.String(), "record length %d shorter than header", length)
	}
	if !rec.DataType.Valid() {
		return Record{}, streamError(start, rec.Type.String(), "unknown data type %d", rec.DataType)
	}

	rec.Data = make([]byte, length-headerSize)
	n, err = io.ReadFull(rr.r, rec.Data)
	rr.offset += int64(n)
	if err != nil {
		return Record{}, streamError(start, rec.Type.String(), "truncated payload: want %d bytes, got %d", len(rec.Data), n)
	}
	return rec, nil
}

func streamError(offset int64, record, format string, args ...any) error {
	return errs.Wrap(errs.ErrCodeMalformedStream,
		&errs.StreamError{Offset: offset, Record: record, Err: fmt.Errorf(format, args...)},
		"decode stream")
}

// recordWriter frames records onto a buffered writer. The first failure is
// sticky: later calls are no-ops and err reports it.
type recordWriter struct {
	w       *bufio.Writer
	written int64
	err     error
	buf     []byte
}

func newRecordWriter(w io.Writer) *recordWriter {
	return &recordWriter{w: bufio.NewWriter(w)}
}

func (rw *recordWriter) record(t RecordType, dt DataType, payload []byte) {
	if rw.err != nil {
		return
	}
	length := headerSize + len(payload)
	if length > maxRecordLength {
		rw.err = errs.New(errs.ErrCodeInvalidInput, "%s record too long: %d bytes", t, length)
		return
	}
	var hdr [headerSize]byte
	binary.BigEndian.PutUint16(hdr[0:2], uint16(length))
	hdr[2] = byte(t)
	hdr[3] = byte(dt)
	if _, err := rw.w.Write(hdr[:]); err != nil {
		rw.fail(err)
		return
	}
	if _, err := rw.w.Write(payload); err != nil {
		rw.fail(err)
		return
	}
	rw.written += int64(length)
}

func (rw *recordWriter) fail(err error) {
	rw.err = errs.Wrap(errs.ErrCodeWriteFailed, err, "write stream")
}

func (rw *recordWriter) empty(t RecordType) {
	rw.record(t, NoData, nil)
}

func (rw *recordWriter) int16s(t RecordType, vals ...int16) {
	rw.buf = rw.buf[:0]
	for _, v := range vals {
		rw.buf = binary.BigEndian.AppendUint16(rw.buf, uint16(v))
	}
	rw.record(t, Int16, rw.buf)
}

func (rw *recordWriter) bits(t RecordType, v uint16) {
	rw.buf = binary.BigEndian.AppendUint16(rw.buf[:0], v)
	rw.record(t, BitArray, rw.buf)
}

func (rw *recordWriter) int32s(t RecordType, vals ...int32) {
	rw.buf = rw.buf[:0]
	for _, v := range vals {
		rw.buf = binary.BigEndian.AppendUint32(rw.buf, uint32(v))
	}
	rw.record(t, Int32, rw.buf)
}

func (rw *recordWriter) reals(t RecordType, vals ...float64) {
	if rw.err != nil {
		return
	}
	rw.buf = rw.buf[:0]
	for _, v := range vals {
		b, err := EncodeReal(v)
		if err != nil {
			rw.err = err
			return
		}
		rw.buf = append(rw.buf, b[:]...)
	}
	rw.record(t, Real8, rw.buf)
}

// text writes s padded with a NUL to even length.
func (rw *recordWriter) text(t RecordType, s string) {
	rw.buf = append(rw.buf[:0], s...)
	if len(rw.buf)%2 != 0 {
		rw.buf = append(rw.buf, 0)
	}
	rw.record(t, ASCII, rw.buf)
}

func (rw *recordWriter) flush() error {
	if rw.err != nil {
		return rw.err
	}
	if err := rw.w.Flush(); err != nil {
		rw.fail(err)
	}
	return rw.err
}

// fitsInt16 reports whether v fits a signed 16-bit field.
func fitsInt16(v int) bool { return v >= math.MinInt16 && v <= math.MaxInt16 }
