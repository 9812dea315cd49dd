package gds

import "fmt"

// RecordType identifies the meaning of a stream record.
type RecordType uint8

const (
	RecHeader       RecordType = 0x00
	RecBgnLib       RecordType = 0x01
	RecLibName      RecordType = 0x02
	RecUnits        RecordType = 0x03
	RecEndLib       RecordType = 0x04
	RecBgnStr       RecordType = 0x05
	RecStrName      RecordType = 0x06
	RecEndStr       RecordType = 0x07
	RecBoundary     RecordType = 0x08
	RecPath         RecordType = 0x09
	RecSRef         RecordType = 0x0A
	RecARef         RecordType = 0x0B
	RecText         RecordType = 0x0C
	RecLayer        RecordType = 0x0D
	RecDatatype     RecordType = 0x0E
	RecWidth        RecordType = 0x0F
	RecXY           RecordType = 0x10
	RecEndEl        RecordType = 0x11
	RecSName        RecordType = 0x12
	RecColRow       RecordType = 0x13
	RecTextNode     RecordType = 0x14
	RecNode         RecordType = 0x15
	RecTextType     RecordType = 0x16
	RecPresentation RecordType = 0x17
	RecSpacing      RecordType = 0x18
	RecString       RecordType = 0x19
	RecSTrans       RecordType = 0x1A
	RecMag          RecordType = 0x1B
	RecAngle        RecordType = 0x1C
	RecUInteger     RecordType = 0x1D
	RecUString      RecordType = 0x1E
	RecRefLibs      RecordType = 0x1F
	RecFonts        RecordType = 0x20
	RecPathType     RecordType = 0x21
	RecGenerations  RecordType = 0x22
	RecAttrTable    RecordType = 0x23
	RecStypTable    RecordType = 0x24
	RecStrType      RecordType = 0x25
	RecElFlags      RecordType = 0x26
	RecElKey        RecordType = 0x27
	RecLinkType     RecordType = 0x28
	RecLinkKeys     RecordType = 0x29
	RecNodeType     RecordType = 0x2A
	RecPropAttr     RecordType = 0x2B
	RecPropValue    RecordType = 0x2C
	RecBox          RecordType = 0x2D
	RecBoxType      RecordType = 0x2E
	RecPlex         RecordType = 0x2F
	RecBgnExtn      RecordType = 0x30
	RecEndExtn      RecordType = 0x31
	RecTapeNum      RecordType = 0x32
	RecTapeCode     RecordType = 0x33
	RecStrClass     RecordType = 0x34
	RecReserved     RecordType = 0x35
	RecFormat       RecordType = 0x36
	RecMask         RecordType = 0x37
	RecEndMasks     RecordType = 0x38
	RecLibDirSize   RecordType = 0x39
	RecSrfName      RecordType = 0x3A
	RecLibSecur     RecordType = 0x3B

	// Vendor extensions written by electron-beam tools.
	RecRaithMbmsPath RecordType = 0x5A
	RecRaithPxxData  RecordType = 0x62
)

var recordNames = map[RecordType]string{
	RecHeader:        "HEADER",
	RecBgnLib:        "BGNLIB",
	RecLibName:       "LIBNAME",
	RecUnits:         "UNITS",
	RecEndLib:        "ENDLIB",
	RecBgnStr:        "BGNSTR",
	RecStrName:       "STRNAME",
	RecEndStr:        "ENDSTR",
	RecBoundary:      "BOUNDARY",
	RecPath:          "PATH",
	RecSRef:          "SREF",
	RecARef:          "AREF",
	RecText:          "TEXT",
	RecLayer:         "LAYER",
	RecDatatype:      "DATATYPE",
	RecWidth:         "WIDTH",
	RecXY:            "XY",
	RecEndEl:         "ENDEL",
	RecSName:         "SNAME",
	RecColRow:        "COLROW",
	RecTextNode:      "TEXTNODE",
	RecNode:          "NODE",
	RecTextType:      "TEXTTYPE",
	RecPresentation:  "PRESENTATION",
	RecSpacing:       "SPACING",
	RecString:        "STRING",
	RecSTrans:        "STRANS",
	RecMag:           "MAG",
	RecAngle:         "ANGLE",
	RecUInteger:      "UINTEGER",
	RecUString:       "USTRING",
	RecRefLibs:       "REFLIBS",
	RecFonts:         "FONTS",
	RecPathType:      "PATHTYPE",
	RecGenerations:   "GENERATIONS",
	RecAttrTable:     "ATTRTABLE",
	RecStypTable:     "STYPTABLE",
	RecStrType:       "STRTYPE",
	RecElFlags:       "ELFLAGS",
	RecElKey:         "ELKEY",
	RecLinkType:      "LINKTYPE",
	RecLinkKeys:      "LINKKEYS",
	RecNodeType:      "NODETYPE",
	RecPropAttr:      "PROPATTR",
	RecPropValue:     "PROPVALUE",
	RecBox:           "BOX",
	RecBoxType:       "BOXTYPE",
	RecPlex:          "PLEX",
	RecBgnExtn:       "BGNEXTN",
	RecEndExtn:       "ENDEXTN",
	RecTapeNum:       "TAPENUM",
	RecTapeCode:      "TAPECODE",
	RecStrClass:      "STRCLASS",
	RecReserved:      "RESERVED",
	RecFormat:        "FORMAT",
	RecMask:          "MASK",
	RecEndMasks:      "ENDMASKS",
	RecLibDirSize:    "LIBDIRSIZE",
	RecSrfName:       "SRFNAME",
	RecLibSecur:      "LIBSECUR",
	RecRaithMbmsPath: "RAITHMBMSPATH",
	RecRaithPxxData:  "RAITHPXXDATA",
}

func (t RecordType) String() string {
	if name, ok := recordNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RecordType(%#02x)", uint8(t))
}

// Known reports whether t is a record type this package can name.
func (t RecordType) Known() bool {
	_, ok := recordNames[t]
	return ok
}

// DataType is the payload encoding of a record.
type DataType uint8

const (
	NoData   DataType = 0
	BitArray DataType = 1
	Int16    DataType = 2
	Int32    DataType = 3
	Real4    DataType = 4
	Real8    DataType = 5
	ASCII    DataType = 6
)

func (d DataType) String() string {
	switch d {
	case NoData:
		return "no data"
	case BitArray:
		return "bit array"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Real4:
		return "real4"
	case Real8:
		return "real8"
	case ASCII:
		return "ascii"
	}
	return fmt.Sprintf("DataType(%d)", uint8(d))
}

// Valid reports whether d is a defined data type tag.
func (d DataType) Valid() bool { return d <= ASCII }

// size returns the width in bytes of one value of d, or 1 for ASCII and 0
// for NoData.
func (d DataType) size() int {
	switch d {
	case BitArray, Int16:
		return 2
	case Int32, Real4:
		return 4
	case Real8:
		return 8
	case ASCII:
		return 1
	}
	return 0
}

// Stream constants.
const (
	// StreamVersion is the version written in the HEADER record.
	StreamVersion = 600

	// MaxPointsPerRecord is the largest number of points written to a
	// single XY record. Longer point lists are split across consecutive XY
	// records.
	MaxPointsPerRecord = 8190

	// maxRecordLength is the largest even record length the 16-bit length
	// field can hold.
	maxRecordLength = 0xFFFE

	headerSize = 4

	// STRANS flag bits.
	stransReflection = 0x8000
	stransAbsMag     = 0x0004
	stransAbsAngle   = 0x0002
)
