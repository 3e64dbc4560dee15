package tui

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/jrwynneiii/morsecast/mux"
)

type ChannelTableData struct {
	tview.TableContentReadOnly
}

type StatusTableData struct {
	tview.TableContentReadOnly
}

type channelRow struct {
	Detecting bool
	Quality   float64
	Trace     string
	Text      string
}

type decodeStatus struct {
	Frames     int
	Paused     bool
	Flushed    bool
	Correction bool
	WordCount  int
	DotMean    float64
	DashMean   float64
	Duty       float64
}

var channelRows [mux.NumChannels]channelRow

var status = decodeStatus{}

// cell coloring thresholds, set from the TUI config at startup
var qualWarnPct = 75.0
var qualCritPct = 50.0

const traceTail = 32

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func (s *StatusTableData) GetRowCount() int {
	return 6
}

func (s *StatusTableData) GetColumnCount() int {
	return 2
}

func (s *StatusTableData) GetCell(row, column int) *tview.TableCell {
	switch row {
	case 0:
		if column == 0 {
			return tview.NewTableCell("Frames consumed:")
		}
		return tview.NewTableCell(fmt.Sprintf("%d", status.Frames))
	case 1:
		if column == 0 {
			return tview.NewTableCell("State:")
		}
		switch {
		case status.Flushed:
			return tview.NewTableCell("[yellow]flushed")
		case status.Paused:
			return tview.NewTableCell("[red]paused")
		default:
			return tview.NewTableCell("[green]decoding")
		}
	case 2:
		if column == 0 {
			return tview.NewTableCell("Correction:")
		}
		if status.Correction {
			return tview.NewTableCell("[green]on")
		}
		return tview.NewTableCell("[grey]off")
	case 3:
		if column == 0 {
			return tview.NewTableCell("Words decoded:")
		}
		return tview.NewTableCell(fmt.Sprintf("%d", status.WordCount))
	case 4:
		if column == 0 {
			return tview.NewTableCell("Run means:")
		}
		return tview.NewTableCell(fmt.Sprintf("dot %.1f / dash %.1f frames", status.DotMean, status.DashMean))
	case 5:
		if column == 0 {
			return tview.NewTableCell("On-air duty:")
		}
		return tview.NewTableCell(fmt.Sprintf("%.0f%%", status.Duty*100))
	}
	return tview.NewTableCell("ERROR")
}

func (d *ChannelTableData) GetRowCount() int {
	return mux.NumChannels + 1
}

func (d *ChannelTableData) GetColumnCount() int {
	return 5
}

func (d *ChannelTableData) GetCell(row, column int) *tview.TableCell {
	if row == 0 {
		switch column {
		case 0:
			return tview.NewTableCell("[lightskyblue]Ch ")
		case 1:
			return tview.NewTableCell("[white]Disc ")
		case 2:
			return tview.NewTableCell("[green]Quality ")
		case 3:
			return tview.NewTableCell("[white]Morse ")
		case 4:
			return tview.NewTableCell("[green]Text")
		}
		return tview.NewTableCell("ERROR")
	}

	ch := channelRows[row-1]
	switch column {
	case 0:
		return tview.NewTableCell(fmt.Sprintf("[lightskyblue]%d", row-1))
	case 1:
		if ch.Detecting {
			return tview.NewTableCell("[green]●")
		}
		return tview.NewTableCell("[grey]○")
	case 2:
		color := "green"
		if ch.Quality < qualCritPct {
			color = "red"
		} else if ch.Quality < qualWarnPct {
			color = "yellow"
		}
		return tview.NewTableCell(fmt.Sprintf("[%s]%.0f%%", color, ch.Quality))
	case 3:
		return tview.NewTableCell(fmt.Sprintf("[white]%s", tail(ch.Trace, traceTail)))
	case 4:
		return tview.NewTableCell(fmt.Sprintf("[green]%s", ch.Text))
	}
	return tview.NewTableCell("ERROR")
}
