// Package correct passes decoded text through an external LanguageTool-style
// grammar service. Strictly optional: any failure returns the input untouched
// and decoding never waits on it.
package correct

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jrwynneiii/morsecast/config"
)

type Corrector struct {
	conf   config.CorrectionConf
	client *http.Client
}

func New(conf config.CorrectionConf) *Corrector {
	conf.ApplyDefaults()
	return &Corrector{
		conf: conf,
		client: &http.Client{
			Timeout: time.Duration(conf.TimeoutMs) * time.Millisecond,
		},
	}
}

type match struct {
	Offset       int `json:"offset"`
	Length       int `json:"length"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
}

type checkResponse struct {
	Matches []match `json:"matches"`
}

// Correct returns the corrected text and the number of corrections applied.
// On any failure (network, timeout, non-200, bad body) it returns the input
// and zero.
func (c *Corrector) Correct(ctx context.Context, text string) (string, int) {
	if strings.TrimSpace(text) == "" {
		return text, 0
	}

	form := url.Values{
		"text":     {text},
		"language": {c.conf.Language},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conf.Endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		log.Debugf("[correct] building request: %v", err)
		return text, 0
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debugf("[correct] service unavailable: %v", err)
		return text, 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debugf("[correct] service returned %d", resp.StatusCode)
		return text, 0
	}

	var parsed checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Debugf("[correct] bad response body: %v", err)
		return text, 0
	}

	// Apply replacements back to front so earlier offsets stay valid.
	corrected := text
	applied := 0
	for i := len(parsed.Matches) - 1; i >= 0; i-- {
		m := parsed.Matches[i]
		if len(m.Replacements) == 0 {
			continue
		}
		if m.Offset < 0 || m.Length < 0 || m.Offset+m.Length > len(corrected) {
			continue
		}
		corrected = corrected[:m.Offset] + m.Replacements[0].Value + corrected[m.Offset+m.Length:]
		applied++
	}
	return corrected, applied
}
