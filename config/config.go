package config

// Shared timing parameters. Encoder and decoder must be constructed with the
// same values; there is no negotiation, a mismatch degrades decode quality
// silently.
type TimingConf struct {
	DotFrames  int `koanf:"dot_frames"`
	DashFrames int `koanf:"dash_frames"`
	GapFrames  int `koanf:"gap_frames"`
	FrameRate  int `koanf:"frame_rate"`
}

type DiscConf struct {
	Radius int    `koanf:"radius"`
	Margin int    `koanf:"margin"`
	Color  string `koanf:"color"`
	Width  int    `koanf:"frame_width"`
	Height int    `koanf:"frame_height"`
}

type CorrectionConf struct {
	Endpoint  string  `koanf:"endpoint"`
	Language  string  `koanf:"language"`
	TimeoutMs int     `koanf:"timeout_ms"`
	IntervalS float64 `koanf:"interval_s"`
}

type TuiConf struct {
	RefreshMs       int     `koanf:"refresh_ms"`
	QualWarnPct     float64 `koanf:"quality_threshold_warn_pct"`
	QualCritPct     float64 `koanf:"quality_threshold_crit_pct"`
	EnableLogOutput bool    `koanf:"enable_log_output"`
}

// ApplyDefaults fills zero-valued fields so the tool runs without a config
// file. The timing defaults match the reference encoder (3 frame dot, 9 frame
// dash, 3 frame gap at 30fps).
func (t *TimingConf) ApplyDefaults() {
	if t.DotFrames <= 0 {
		t.DotFrames = 3
	}
	if t.DashFrames <= 0 {
		t.DashFrames = 9
	}
	if t.GapFrames <= 0 {
		t.GapFrames = 3
	}
	if t.FrameRate <= 0 {
		t.FrameRate = 30
	}
}

// LetterGapFrames is the total length of a letter boundary run: 3x the gap
// unit, per standard Morse spacing.
func (t TimingConf) LetterGapFrames() int {
	return 3 * t.GapFrames
}

// WordGapFrames is the total length of a word boundary run: 7x the gap unit.
func (t TimingConf) WordGapFrames() int {
	return 7 * t.GapFrames
}

// Tolerance is the debounce tolerance in frames: half the smallest configured
// unit, minimum one frame. Detection flips no longer than this are absorbed
// as noise rather than committed as real transitions.
func (t TimingConf) Tolerance() int {
	smallest := t.DotFrames
	if t.GapFrames < smallest {
		smallest = t.GapFrames
	}
	if tol := smallest / 2; tol > 1 {
		return tol
	}
	return 1
}

func (d *DiscConf) ApplyDefaults() {
	if d.Radius <= 0 {
		d.Radius = 5
	}
	if d.Margin <= 0 {
		d.Margin = 10
	}
	if d.Color == "" {
		d.Color = "#ff0000"
	}
	if d.Width <= 0 {
		d.Width = 1280
	}
	if d.Height <= 0 {
		d.Height = 720
	}
}

func (c *CorrectionConf) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "https://api.languagetoolplus.com/v2/check"
	}
	if c.Language == "" {
		c.Language = "en-US"
	}
	if c.TimeoutMs <= 0 {
		c.TimeoutMs = 5000
	}
	if c.IntervalS <= 0 {
		c.IntervalS = 2.0
	}
}

func (t *TuiConf) ApplyDefaults() {
	if t.RefreshMs <= 0 {
		t.RefreshMs = 250
	}
	if t.QualWarnPct <= 0 {
		t.QualWarnPct = 75
	}
	if t.QualCritPct <= 0 {
		t.QualCritPct = 50
	}
}
