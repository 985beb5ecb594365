package fit

import "encoding/binary"

// mesgNum is a FIT global message number.
type mesgNum uint16

const (
	mesgFileID      mesgNum = 0
	mesgWorkout     mesgNum = 26
	mesgWorkoutStep mesgNum = 27
)

// localType scopes which definition applies to which data records within
// one file. The assignment is fixed for the lifetime of an encoded file;
// keeping it a closed enum (rather than ad-hoc integers at call sites)
// makes a definition/data tag mismatch impossible to construct.
type localType byte

const (
	localFileID      localType = 0
	localWorkout     localType = 1
	localWorkoutStep localType = 2
)

// FIT base type tags used by this encoder.
const (
	baseEnum   byte = 0x00
	baseString byte = 0x07
	baseUint16 byte = 0x84
	baseUint32 byte = 0x86
)

const definitionTag byte = 0x40

// record accumulates one definition+data pair. Each field append writes
// the descriptor and its value in the same call, so the definition always
// declares exactly the layout the data record carries.
type record struct {
	local  localType
	global mesgNum
	defs   []byte // field descriptors, 3 bytes each
	count  byte
	data   []byte // packed field values
}

func newRecord(global mesgNum, local localType) *record {
	return &record{local: local, global: global}
}

func (r *record) field(num, size, base byte) {
	r.defs = append(r.defs, num, size, base)
	r.count++
}

// enum appends a 1-byte enum field.
func (r *record) enum(num, value byte) {
	r.field(num, 1, baseEnum)
	r.data = append(r.data, value)
}

// uint16le appends a 2-byte little-endian field.
func (r *record) uint16le(num byte, value uint16) {
	r.field(num, 2, baseUint16)
	r.data = binary.LittleEndian.AppendUint16(r.data, value)
}

// uint32le appends a 4-byte little-endian field.
func (r *record) uint32le(num byte, value uint32) {
	r.field(num, 4, baseUint32)
	r.data = binary.LittleEndian.AppendUint32(r.data, value)
}

// str appends a fixed-width string field. The value is truncated to
// width-1 bytes and zero-padded, so a NUL terminator is always present.
func (r *record) str(num byte, width int, value string) {
	r.field(num, byte(width), baseString)
	raw := []byte(value)
	if len(raw) > width-1 {
		raw = raw[:width-1]
	}
	padded := make([]byte, width)
	copy(padded, raw)
	r.data = append(r.data, padded...)
}

// bytes returns the definition record followed by the data record.
func (r *record) bytes() []byte {
	out := make([]byte, 0, 6+len(r.defs)+1+len(r.data))
	out = append(out,
		definitionTag|byte(r.local),
		0x00, // reserved
		0x00, // architecture: little-endian
	)
	out = binary.LittleEndian.AppendUint16(out, uint16(r.global))
	out = append(out, r.count)
	out = append(out, r.defs...)
	out = append(out, byte(r.local))
	out = append(out, r.data...)
	return out
}
