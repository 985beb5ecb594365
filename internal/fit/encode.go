package fit

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/claude/fitforge/internal/models"
)

// FileExtension is the conventional extension for files this encoder emits.
const FileExtension = ".fit"

const (
	headerSize      = 14
	trailerSize     = 2
	protocolVersion = 0x20 // protocol 2.0
	profileVersion  = 2171

	// epochOffset is the number of seconds between the Unix epoch and the
	// FIT epoch (1989-12-31T00:00:00Z).
	epochOffset = 631065600

	fileTypeWorkout  = 6
	manufacturerDev  = 0xFFFF
	productNone      = 0
	serialNumber     = 0x78563412
	sportRunning     = 1
	durationTypeTime = 0
	targetTypeOpen   = 0
)

var fileSignature = [4]byte{'.', 'F', 'I', 'T'}

// Encoder turns workout specs into FIT workout files. It is stateless
// apart from its clock and safe for concurrent use.
type Encoder struct {
	now func() time.Time
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithClock replaces the encoder's time source. The clock only feeds the
// file_id time_created field; fixing it makes output byte-reproducible.
func WithClock(now func() time.Time) Option {
	return func(e *Encoder) { e.now = now }
}

// NewEncoder returns an Encoder using the real clock unless overridden.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode materializes spec as a complete FIT workout file: 14-byte header,
// file_id + workout + one workout_step record pair per step, and the
// trailing checksum. Malformed step values degrade to defaults rather than
// failing. The hard errors are values the wire format cannot hold: a step
// count beyond uint16, or a parsed duration outside the uint32 millisecond
// range.
func (e *Encoder) Encode(spec models.WorkoutSpec) ([]byte, error) {
	if len(spec.Steps) > math.MaxUint16 {
		return nil, fmt.Errorf("workout has %d steps, wire format holds at most %d", len(spec.Steps), math.MaxUint16)
	}

	records := e.fileIDRecord()
	records = append(records, workoutRecord(spec.Name, uint16(len(spec.Steps)))...)
	for i, step := range spec.Steps {
		rec, err := stepRecord(i, step)
		if err != nil {
			return nil, err
		}
		records = append(records, rec...)
	}

	header := make([]byte, headerSize)
	header[0] = headerSize
	header[1] = protocolVersion
	binary.LittleEndian.PutUint16(header[2:4], profileVersion)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(records)))
	copy(header[8:12], fileSignature[:])
	binary.LittleEndian.PutUint16(header[12:14], Checksum(header[:12]))

	buf := make([]byte, 0, headerSize+len(records)+trailerSize)
	buf = append(buf, header...)
	buf = append(buf, records...)
	buf = binary.LittleEndian.AppendUint16(buf, Checksum(buf))
	return buf, nil
}

func (e *Encoder) fileIDRecord() []byte {
	r := newRecord(mesgFileID, localFileID)
	r.enum(0, fileTypeWorkout)
	r.uint16le(1, manufacturerDev)
	r.uint16le(2, productNone)
	r.uint32le(3, serialNumber)
	r.uint32le(4, uint32(e.now().Unix()-epochOffset))
	return r.bytes()
}

func workoutRecord(name string, stepCount uint16) []byte {
	r := newRecord(mesgWorkout, localWorkout)
	r.str(4, 16, name)
	r.enum(5, sportRunning)
	r.uint16le(6, stepCount)
	return r.bytes()
}

func stepRecord(index int, step models.StepSpec) ([]byte, error) {
	label := step.Type
	if label == "" {
		label = "Step"
	}

	// Values that parse but cannot be represented (negative, or past the
	// uint32 millisecond ceiling) abort the encode instead of wrapping
	// into a corrupt duration.
	ms := int64(ParseDuration(string(step.Time))) * 1000
	if ms < 0 || ms > math.MaxUint32 {
		return nil, fmt.Errorf("step %d: duration %d ms outside wire format range", index, ms)
	}

	r := newRecord(mesgWorkoutStep, localWorkoutStep)
	r.uint16le(0, uint16(index))
	r.str(1, 16, fmt.Sprintf("%s %d", label, index+1))
	r.enum(2, durationTypeTime)
	r.uint32le(3, uint32(ms))
	r.enum(4, targetTypeOpen)
	r.enum(6, byte(ClassifyIntensity(step.Type)))
	return r.bytes(), nil
}
