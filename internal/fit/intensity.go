package fit

// Intensity is the workout_step intensity enum as written to the wire.
type Intensity byte

const (
	IntensityRest   Intensity = 0
	IntensityWarmup Intensity = 1 // also used for cooldowns
	IntensityActive Intensity = 2
)

// intensityByLabel maps step-type labels to intensities. Lookup is exact
// and case-sensitive. This is the vocabulary that grows as coaches invent
// new step names upstream; add entries here, nowhere else.
var intensityByLabel = map[string]Intensity{
	// Spanish (the original coaching platform's vocabulary)
	"EEC":     IntensityWarmup, // entrada en calor
	"VAC":     IntensityWarmup, // vuelta a la calma
	"Pasada":  IntensityActive,
	"Pausa":   IntensityRest,
	"Rodaje":  IntensityActive,
	"Tempo":   IntensityActive,
	"Fartlek": IntensityActive,

	// English
	"warmup":   IntensityWarmup,
	"cooldown": IntensityWarmup,
	"rest":     IntensityRest,
	"recovery": IntensityRest,
	"run":      IntensityActive,
	"interval": IntensityActive,
}

func (i Intensity) String() string {
	switch i {
	case IntensityRest:
		return "rest"
	case IntensityWarmup:
		return "warmup"
	default:
		return "active"
	}
}

// ClassifyIntensity maps a step-type label to its intensity. Unknown
// labels are treated as work intervals: when in doubt, the athlete is
// better served by an active step than by a dropped one.
func ClassifyIntensity(label string) Intensity {
	if intensity, ok := intensityByLabel[label]; ok {
		return intensity
	}
	return IntensityActive
}
