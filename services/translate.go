package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Translator forwards response messages to an external translation API.
// Calls carry a hard timeout and never retry: on any failure the caller
// falls back to the original English text.
type Translator struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

// NewTranslator builds a translator from TRANSLATE_API_URL / TRANSLATE_API_KEY.
// An empty endpoint disables translation (Translate returns the input).
func NewTranslator() *Translator {
	return &Translator{
		Endpoint: os.Getenv("TRANSLATE_API_URL"),
		APIKey:   os.Getenv("TRANSLATE_API_KEY"),
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type translateRequest struct {
	Text   string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate returns text translated into target. The zero-value targets
// ("" or "en") and a missing endpoint are no-ops.
func (t *Translator) Translate(ctx context.Context, text, target string) (string, error) {
	if t.Endpoint == "" || target == "" || target == "en" || text == "" {
		return text, nil
	}

	body, err := json.Marshal(translateRequest{
		Text:   text,
		Source: "en",
		Target: target,
		APIKey: t.APIKey,
	})
	if err != nil {
		return text, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return text, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return text, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return text, fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return text, err
	}
	if out.TranslatedText == "" {
		return text, nil
	}
	return out.TranslatedText, nil
}
