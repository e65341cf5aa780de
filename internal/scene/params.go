package scene

// Params bound the random placement of objects in a scene.
type Params struct {
	// Translations are drawn per axis from [TranslateMin, TranslateMax].
	TranslateMin float64 `json:"translate_min" toml:"translate_min" yaml:"translate_min"`
	TranslateMax float64 `json:"translate_max" toml:"translate_max" yaml:"translate_max"`

	// MinSeparation pads the overlap test.
	MinSeparation float64 `json:"min_separation" toml:"min_separation" yaml:"min_separation"`

	// MaxSeparation caps the gap between a new object and every placed
	// one. Zero disables the cap.
	MaxSeparation float64 `json:"max_separation" toml:"max_separation" yaml:"max_separation"`

	// MaxTrials is the per-object sampling budget before fallback.
	MaxTrials int `json:"max_trials" toml:"max_trials" yaml:"max_trials"`
}

// Default placement settings.
const (
	DefaultTranslateMin = 0.0
	DefaultTranslateMax = 200.0
	DefaultMaxTrials    = 1000
)

// DefaultParams returns the default placement settings.
func DefaultParams() Params {
	return Params{
		TranslateMin: DefaultTranslateMin,
		TranslateMax: DefaultTranslateMax,
		MaxTrials:    DefaultMaxTrials,
	}
}

func (p Params) trials() int {
	if p.MaxTrials < 1 {
		return 1
	}
	return p.MaxTrials
}
