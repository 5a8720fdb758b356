package entities

// Cue is one timed caption entry extracted from a VTT file.
type Cue struct {
	StartS float64
	EndS   float64
	Text   string
}

func (c Cue) Duration() float64 {
	return c.EndS - c.StartS
}

func (c Cue) Valid() error {
	if c.EndS <= c.StartS {
		return ErrInvalidCue
	}
	if c.Text == "" {
		return ErrEmptyCueText
	}
	return nil
}

// Segment is one displayable unit (<=2 lines) derived from a Cue by
// wrapping and splitting. Segments are produced by the segmenter and
// kept in an ordered sequence sorted by StartS.
type Segment struct {
	StartS float64
	EndS   float64
	Lines  []string
}

func (s Segment) Duration() float64 {
	return s.EndS - s.StartS
}

// Chars returns the total character count across all lines, used by
// the segmenter to proportionally distribute a cue's duration.
func (s Segment) Chars() int {
	n := 0
	for _, l := range s.Lines {
		n += len([]rune(l))
	}
	return n
}

// DiacriticsEncoding selects how the WST page encoder folds non-ASCII
// source text into display rows.
type DiacriticsEncoding string

const (
	DiacriticsLatin2 DiacriticsEncoding = "latin2"
	DiacriticsX26    DiacriticsEncoding = "x26"
)

// CaronEncoding selects how Czech caron letters are represented when
// DiacriticsEncoding is DiacriticsX26.
type CaronEncoding string

const (
	CaronCompose CaronEncoding = "compose"
	CaronG2      CaronEncoding = "g2"
)

// G2Variant selects which precomposed caron code-set is used when
// CaronEncoding is CaronG2.
type G2Variant string

const (
	G2Default  G2Variant = "default"
	G2Alt1     G2Variant = "alt1"
	G2Alt2     G2Variant = "alt2"
	G2ISO88592 G2Variant = "iso88592"
)

// TimeMode selects the scheduler's clock source.
type TimeMode string

const (
	TimeModeExternal   TimeMode = "external"
	TimeModeAutonomous TimeMode = "autonomous"
)

// Config is the process-wide configuration surface, processed once by
// envconfig at startup in internal/web.Dependencies.
type Config struct {
	HTTPHost string `required:"true" default:"0.0.0.0"`
	HTTPPort int32  `required:"true" default:"8080"`

	Magazine  int `required:"true" default:"0"`
	Page      int `required:"true" default:"1"`
	StartRow  int `required:"true" default:"19"`
	LineWidth int `required:"true" default:"38"`

	DiacriticsEncoding  DiacriticsEncoding `required:"true" default:"x26"`
	CaronEncoding       CaronEncoding      `required:"true" default:"compose"`
	CaronDiacriticIndex int                `required:"true" default:"15"`
	G2Variant           G2Variant          `required:"true" default:"default"`

	DownstreamHost             string `required:"true" default:"127.0.0.1"`
	DownstreamPort             int    `required:"true" default:"9000"`
	DownstreamChannelLayer     int    `required:"true" default:"1"`
	DownstreamReconnectDelayMS int    `required:"true" default:"2000"`

	SchedulerTickIntervalMS int `required:"true" default:"100"`
	SchedulerHangWindowMS   int `required:"true" default:"2000"`

	TimeSourceStrictMatch bool   `required:"true" default:"false"`
	ExternalTimeAddress   string `required:"true" default:"channel/time"`
}
