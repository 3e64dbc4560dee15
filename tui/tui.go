package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/navidys/tvxwidgets"
	"github.com/rivo/tview"

	"github.com/jrwynneiii/morsecast/config"
	"github.com/jrwynneiii/morsecast/correct"
	"github.com/jrwynneiii/morsecast/mux"
	"github.com/jrwynneiii/morsecast/reconstruct"
	"github.com/jrwynneiii/morsecast/stats"
)

var LogOut *tview.TextView

// corrected text is produced off the per-frame path by its own goroutine
type correctionState struct {
	sync.Mutex
	enabled  bool
	source   [mux.NumChannels]string
	text     [mux.NumChannels]string
	joined   string
	applied  int
	lastPass time.Time
}

// StartUI runs the live decode view: per-channel table, timing quality gauge,
// run length plot, joined text, and the session keys (Q quit, Space pause,
// C correction toggle, S save).
func StartUI(pump *reconstruct.Pump, decoder *reconstruct.Decoder, chanStats [mux.NumChannels]*stats.Channel, corrector *correct.Corrector, timing config.TimingConf, corrConf config.CorrectionConf, tuiConf config.TuiConf, savePath string) {
	app := tview.NewApplication()
	qualWarnPct = tuiConf.QualWarnPct
	qualCritPct = tuiConf.QualCritPct

	LogOut = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	channelData := &ChannelTableData{}
	statusData := &StatusTableData{}
	channelTable := tview.NewTable().SetContent(channelData)
	statusTable := tview.NewTable().SetContent(statusData)

	runPlot := tvxwidgets.NewPlot()
	runPlot.SetLineColor([]tcell.Color{
		tcell.ColorLightSkyBlue,
		tcell.ColorGreen,
		tcell.ColorYellow,
		tcell.ColorOrange,
	})
	runPlot.SetMarker(tvxwidgets.PlotMarkerBraille)
	runPlot.SetBorder(true)
	runPlot.SetTitle("Run Lengths (frames)")

	qualityGauge := tvxwidgets.NewUtilModeGauge()
	qualityGauge.SetLabel("Timing quality:   ")
	qualityGauge.SetLabelColor(tcell.ColorLightSkyBlue)
	qualityGauge.SetWarnPercentage(tuiConf.QualWarnPct)
	qualityGauge.SetCritPercentage(tuiConf.QualCritPct)
	qualityGauge.SetEmptyColor(tcell.ColorBlack)
	qualityGauge.SetBorder(false)

	joinedView := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	joinedView.SetBorder(true)
	joinedView.SetTitle("Decoded Message")

	keysView := tview.NewTextView().SetDynamicColors(true)
	keysView.SetText("[yellow]Q[white]: quit  [yellow]Space[white]: pause/resume  [yellow]C[white]: correction on/off  [yellow]S[white]: save")

	LogOut.SetChangedFunc(func() {
		LogOut.ScrollToEnd()
		app.Draw()
	})
	LogOut.SetBorder(true).SetTitle("Log Output")
	log.SetOutput(LogOut)

	channelTable.SetSelectable(false, false).SetBorder(true).SetTitle("Channels")
	statusTable.SetSelectable(false, false).SetBorder(true).SetTitle("Decoder Status")

	gaugeBox := tview.NewFlex()
	gaugeBox.SetDirection(tview.FlexRow)
	gaugeBox.AddItem(qualityGauge, 0, 1, false)
	gaugeBox.SetTitle("Signal")
	gaugeBox.SetBorder(true)

	leftCol := tview.NewFlex().SetDirection(tview.FlexRow)
	leftCol.AddItem(channelTable, 0, 3, false)
	leftCol.AddItem(joinedView, 0, 2, false)
	leftCol.AddItem(statusTable, 0, 2, false)
	leftCol.AddItem(keysView, 1, 0, false)

	rightCol := tview.NewFlex().SetDirection(tview.FlexRow)
	rightCol.AddItem(gaugeBox, 0, 1, false)
	rightCol.AddItem(runPlot, 0, 2, false)
	if tuiConf.EnableLogOutput {
		rightCol.AddItem(LogOut, 0, 2, false)
	}

	page := tview.NewFlex().SetDirection(tview.FlexColumn)
	page.AddItem(leftCol, 0, 3, false)
	page.AddItem(rightCol, 0, 2, false)

	corr := &correctionState{}

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q', 'Q':
			pump.Stop()
			app.Stop()
			return nil
		case ' ':
			if pump.Paused() {
				pump.Resume()
				log.Info("Resumed")
			} else {
				pump.Pause()
				log.Info("Paused")
			}
			return nil
		case 'c', 'C':
			corr.Lock()
			corr.enabled = !corr.enabled
			corr.lastPass = time.Time{}
			enabled := corr.enabled
			corr.Unlock()
			if enabled {
				log.Info("Correction enabled")
			} else {
				log.Info("Correction disabled")
			}
			return nil
		case 's', 'S':
			snap := decoder.Snapshot()
			corr.Lock()
			corrected := corr.text
			joined := corr.joined
			enabled := corr.enabled
			corr.Unlock()
			if err := writeResults(savePath, snap, corrected, joined, enabled); err != nil {
				log.Errorf("Could not save results: %v", err)
			} else {
				log.Infof("Results saved to %s", savePath)
			}
			return nil
		}
		return event
	})

	// Correction passes run off the per-frame hot path, on their own clock.
	go func() {
		interval := time.Duration(corrConf.IntervalS * float64(time.Second))
		for {
			time.Sleep(interval)
			corr.Lock()
			due := corr.enabled && time.Since(corr.lastPass) >= interval
			corr.Unlock()
			if !due || corrector == nil {
				continue
			}
			runCorrectionPass(decoder, corrector, corr, corrConf)
		}
	}()

	// Refresh loop: gather a snapshot, update widgets, redraw.
	go func() {
		for {
			snap := decoder.Snapshot()
			corr.Lock()
			enabled := corr.enabled
			correctedText := corr.text
			correctedJoined := corr.joined
			corr.Unlock()

			var qualitySum float64
			for i, ch := range snap.Channels {
				text := ch.Text
				if enabled && correctedText[i] != "" {
					text = correctedText[i]
				}
				q := chanStats[i].Quality(timing)
				qualitySum += q
				channelRows[i] = channelRow{
					Detecting: ch.Detecting,
					Quality:   q,
					Trace:     ch.Trace,
					Text:      text,
				}
			}

			joined := snap.Joined
			if enabled && correctedJoined != "" {
				joined = correctedJoined
			}
			joinedView.SetText(joined)

			status.Frames = snap.Frames
			status.Paused = pump.Paused()
			status.Flushed = snap.Flushed
			status.Correction = enabled
			status.WordCount = len(strings.Fields(joined))

			var dotMean, dashMean, duty float64
			active := 0
			for i := range chanStats {
				summary := chanStats[i].Summary()
				if summary.Runs == 0 {
					continue
				}
				dotMean += summary.DotMean
				dashMean += summary.DashMean
				duty += summary.Duty
				active++
			}
			if active > 0 {
				dotMean /= float64(active)
				dashMean /= float64(active)
				duty /= float64(active)
			}
			status.DotMean, status.DashMean, status.Duty = dotMean, dashMean, duty

			qualityGauge.SetValue(qualitySum / mux.NumChannels)

			series := make([][]float64, mux.NumChannels)
			for i := range chanStats {
				series[i] = chanStats[i].Recent(48)
			}
			runPlot.SetData(series)

			app.Draw()
			time.Sleep(time.Duration(tuiConf.RefreshMs) * time.Millisecond)
		}
	}()

	if err := app.SetRoot(page, true).EnableMouse(true).Run(); err != nil {
		log.Fatalf("Could not start UI: %v", err)
	}
}

// runCorrectionPass re-corrects channels whose raw text changed since the
// last pass, then the joined message.
func runCorrectionPass(decoder *reconstruct.Decoder, corrector *correct.Corrector, corr *correctionState, corrConf config.CorrectionConf) {
	snap := decoder.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(corrConf.TimeoutMs)*time.Millisecond)
	defer cancel()

	corr.Lock()
	prevSource := corr.source
	prevText := corr.text
	corr.Unlock()

	var texts [mux.NumChannels]string
	var sources [mux.NumChannels]string
	applied := 0
	for i, ch := range snap.Channels {
		sources[i] = ch.Text
		if prevSource[i] == ch.Text {
			texts[i] = prevText[i]
			continue
		}
		fixed, n := corrector.Correct(ctx, ch.Text)
		texts[i] = fixed
		applied += n
	}
	joined, n := corrector.Correct(ctx, snap.Joined)
	applied += n

	corr.Lock()
	corr.source = sources
	corr.text = texts
	corr.joined = joined
	corr.applied += applied
	corr.lastPass = time.Now()
	corr.Unlock()

	if applied > 0 {
		log.Infof("Correction pass applied %d fixes", applied)
	}
}

func writeResults(path string, snap reconstruct.Snapshot, corrected [mux.NumChannels]string, joined string, withCorrection bool) error {
	var b strings.Builder
	for i, ch := range snap.Channels {
		fmt.Fprintf(&b, "CHANNEL %d\n", i)
		fmt.Fprintf(&b, "Morse: %s\n", ch.Trace)
		fmt.Fprintf(&b, "Text: %s\n", ch.Text)
		if withCorrection && corrected[i] != "" {
			fmt.Fprintf(&b, "Corrected: %s\n", corrected[i])
		}
		b.WriteString("\n")
	}
	b.WriteString("JOINED MESSAGE\n")
	b.WriteString(snap.Joined)
	b.WriteString("\n")
	if withCorrection && joined != "" {
		b.WriteString("\nJOINED MESSAGE (CORRECTED)\n")
		b.WriteString(joined)
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
