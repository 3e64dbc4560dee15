package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/jrwynneiii/morsecast/config"
	"github.com/jrwynneiii/morsecast/correct"
	"github.com/jrwynneiii/morsecast/detect"
	"github.com/jrwynneiii/morsecast/morse"
	"github.com/jrwynneiii/morsecast/mux"
	"github.com/jrwynneiii/morsecast/reconstruct"
	"github.com/jrwynneiii/morsecast/stats"
	"github.com/jrwynneiii/morsecast/timeline"
	"github.com/jrwynneiii/morsecast/tui"

	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var configFile = koanf.New(".")

func getConfigPath() string {
	paths := []string{"/etc/morsecast/config.hcl", "~/.config/morsecast/config.hcl", "./config.hcl"}
	for _, path := range paths {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			log.Infof("Found config file: %s", path)
			return path
		}
	}
	log.Info("Config file not found, using defaults")
	return ""
}

func loadConfig() (config.TimingConf, config.DiscConf, config.CorrectionConf, config.TuiConf) {
	if err := configFile.Load(file.Provider(getConfigPath()), hcl.Parser(true)); err != nil {
		log.Debugf("Could not read config file: %v", err)
		log.Debug("Attempting to use environment variables")
		configFile.Load(env.Provider("", env.Opt{
			Prefix: "MORSECAST_",
			TransformFunc: func(k, v string) (string, any) {
				key := strings.ToLower(strings.TrimPrefix(k, "MORSECAST_"))
				k = strings.Replace(key, "_", ".", 1)
				return k, v
			},
		}), nil)
	}

	timing := config.TimingConf{
		DotFrames:  configFile.Int("timing.dot_frames"),
		DashFrames: configFile.Int("timing.dash_frames"),
		GapFrames:  configFile.Int("timing.gap_frames"),
		FrameRate:  configFile.Int("timing.frame_rate"),
	}
	disc := config.DiscConf{
		Radius: configFile.Int("disc.radius"),
		Margin: configFile.Int("disc.margin"),
		Color:  configFile.String("disc.color"),
		Width:  configFile.Int("disc.frame_width"),
		Height: configFile.Int("disc.frame_height"),
	}
	correction := config.CorrectionConf{
		Endpoint:  configFile.String("correction.endpoint"),
		Language:  configFile.String("correction.language"),
		TimeoutMs: configFile.Int("correction.timeout_ms"),
		IntervalS: configFile.Float64("correction.interval_s"),
	}
	tuiConf := config.TuiConf{
		RefreshMs:       configFile.Int("tui.refresh_ms"),
		QualWarnPct:     configFile.Float64("tui.quality_threshold_warn_pct"),
		QualCritPct:     configFile.Float64("tui.quality_threshold_crit_pct"),
		EnableLogOutput: configFile.Bool("tui.enable_log_output"),
	}

	timing.ApplyDefaults()
	disc.ApplyDefaults()
	correction.ApplyDefaults()
	tuiConf.ApplyDefaults()
	return timing, disc, correction, tuiConf
}

func main() {
	flags := kong.Parse(&cli)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	timing, disc, correction, tuiConf := loadConfig()
	log.Debugf("Timing config: %##v", timing)
	log.Debugf("Disc config: %##v", disc)

	switch flags.Command() {
	case "probe":
		probe(timing, disc)
	case "encode <text>":
		if err := encode(cli.Encode.Text, cli.Encode.Out, timing); err != nil {
			log.Fatalf("Encode failed: %v", err)
		}
	case "decode <in>":
		if err := decode(cli.Decode.In, timing, correction, tuiConf); err != nil {
			log.Fatalf("Decode failed: %v", err)
		}
	default:
		log.Info("Command not recognized")
	}
}

func probe(timing config.TimingConf, disc config.DiscConf) {
	log.Infof("Timing: dot=%d dash=%d gap=%d frames, letter gap=%d, word gap=%d, tolerance=%d, %d fps",
		timing.DotFrames, timing.DashFrames, timing.GapFrames,
		timing.LetterGapFrames(), timing.WordGapFrames(), timing.Tolerance(), timing.FrameRate)
	log.Infof("Disc: radius=%d margin=%d color=%s on %dx%d frames",
		disc.Radius, disc.Margin, disc.Color, disc.Width, disc.Height)

	for i, region := range detect.Regions(disc) {
		log.Infof("Channel %d: left=(%d,%d) right=(%d,%d) reach=%d",
			i, region.Left.X, region.Left.Y, region.Right.X, region.Right.Y, region.Reach)
	}

	chars := make([]rune, 0, len(morse.Alphabet))
	for r := range morse.Alphabet {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	for _, r := range chars {
		units, _ := morse.Units(string(r))
		frames := timeline.Expand(units, timing)
		log.Infof("%q  %-7s  %d frames (%.2fs)", r, morse.Alphabet[r], len(frames),
			float64(len(frames))/float64(timing.FrameRate))
	}
}

func encode(textPath, outPath string, timing config.TimingConf) error {
	raw, err := os.ReadFile(textPath)
	if err != nil {
		return err
	}

	message, dropped := morse.Sanitize(strings.TrimSpace(string(raw)))
	if len(dropped) > 0 {
		log.Warnf("Dropped %d unsupported characters: %q", len(dropped), string(dropped))
	}

	plan, err := timeline.Encode(message, timing)
	if err != nil {
		return err
	}

	for i, text := range mux.Split(message) {
		log.Infof("Channel %d: %d chars", i, len(text))
	}
	log.Infof("Plan length: %d frames (%.1fs at %d fps)", plan.Len(), plan.Seconds(timing), timing.FrameRate)
	words := len(strings.Fields(message))
	if secs := plan.Seconds(timing); secs > 0 {
		log.Infof("Throughput: %.1f words/second", float64(words)/secs)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := plan.WriteTo(out); err != nil {
		return err
	}
	log.Infof("Wrote frame plan to %s", outPath)
	return nil
}

func decode(inPath string, timing config.TimingConf, correction config.CorrectionConf, tuiConf config.TuiConf) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	frames, err := timeline.ReadFrames(in)
	in.Close()
	if err != nil {
		return err
	}
	log.Infof("Read %d frames from %s", len(frames), inPath)

	var chanStats [mux.NumChannels]*stats.Channel
	var observers [mux.NumChannels]reconstruct.RunObserver
	for i := range chanStats {
		chanStats[i] = &stats.Channel{}
		observers[i] = chanStats[i]
	}
	decoder := reconstruct.NewDecoder(timing, observers)

	if cli.Decode.NoTui {
		for _, f := range frames {
			decoder.StepFrame(f)
		}
		decoder.Flush()
		snap := decoder.Snapshot()
		for i, ch := range snap.Channels {
			fmt.Printf("channel %d: %s\n", i, ch.Text)
		}
		message := snap.Joined
		if cli.Decode.Correct {
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(correction.TimeoutMs)*time.Millisecond)
			defer cancel()
			fixed, n := correct.New(correction).Correct(ctx, message)
			if n > 0 {
				log.Infof("Correction applied %d fixes", n)
			}
			message = fixed
		}
		fmt.Printf("message: %s\n", message)
		return nil
	}

	pump := reconstruct.NewPump(decoder, uint(timing.FrameRate))
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(timing.FrameRate))
		defer ticker.Stop()
		for _, f := range frames {
			<-ticker.C
			pump.DetectionsInput <- f
		}
		close(pump.DetectionsInput)
	}()
	go pump.Start()

	tui.StartUI(pump, decoder, chanStats, correct.New(correction), timing, correction, tuiConf, cli.Decode.Save)
	return nil
}
