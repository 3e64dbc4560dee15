// Package mux splits a message across the four disc channels and merges
// decoded channel texts back together.
package mux

// NumChannels is fixed by the disc layout: four per-channel positions on the
// frame edges.
const NumChannels = 4

// Split assigns the character at position i to channel i mod NumChannels,
// preserving order within each channel. Split and Join are exact inverses for
// any message.
func Split(message string) [NumChannels]string {
	var out [NumChannels][]rune
	for i, r := range []rune(message) {
		ch := i % NumChannels
		out[ch] = append(out[ch], r)
	}
	var texts [NumChannels]string
	for i := range out {
		texts[i] = string(out[i])
	}
	return texts
}

// Join interleaves the channel texts by the inverse round-robin rule. Channels
// may be unequal after a lossy decode; exhausted channels are skipped so the
// merge is best-effort rather than failing.
func Join(channels [NumChannels]string) string {
	var runes [NumChannels][]rune
	total := 0
	for i, s := range channels {
		runes[i] = []rune(s)
		total += len(runes[i])
	}
	out := make([]rune, 0, total)
	var next [NumChannels]int
	for len(out) < total {
		for ch := 0; ch < NumChannels; ch++ {
			if next[ch] < len(runes[ch]) {
				out = append(out, runes[ch][next[ch]])
				next[ch]++
			}
		}
	}
	return string(out)
}
