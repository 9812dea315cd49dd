// Package gds reads and writes layout libraries in the GDSII stream format.
//
// # Stream Layout
//
// A stream is a sequence of records. Every record starts with a four byte
// header: a big-endian 16-bit length that includes the header, a record type
// and a data type tag. A library is written as
//
//	HEADER BGNLIB LIBNAME UNITS
//	  BGNSTR STRNAME <elements> ENDSTR   (one block per cell)
//	ENDLIB
//
// Coordinates are 32-bit integers in database units. [Options.Units] and
// [Options.Precision] give the size of a user unit and of a database unit in
// meters, so a coordinate v is stored as round(v * Units / Precision).
// Floating point values use the format's own 8-byte base-16 real, see
// [EncodeReal].
//
// # Writing
//
// [Encoder.Encode] writes every cell of a library exactly once. Cells
// reached through references are written directly after the first cell that
// places them. Cell references become AREF records, and references to a
// single element are expanded into plain elements. Point lists longer than
// [MaxPointsPerRecord] are split across consecutive XY records.
//
//	path, err := gds.WriteFile(ctx, lib, "chip.gds", gds.Options{})
//
// An empty path writes to a fresh file in the temporary directory.
//
// # Reading
//
// [Decoder.Decode] rebuilds the library. Forward references are legal; once
// the whole stream is read, references to undefined cells either fail the
// read ([ReadOptions.Strict]) or are kept and reported as warnings. BOX and
// NODE elements, property records and unknown record types are skipped.
//
//	lib, err := gds.ReadFile(ctx, "chip.gds", gds.ReadOptions{Strict: true})
//
// Every decoding failure carries the MALFORMED_STREAM code and an
// errors.StreamError (from gdsr/pkg/errors) locating the offending record.
package gds
