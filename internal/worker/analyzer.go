package worker

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	mp3 "github.com/hajimehoshi/go-mp3"
)

var previewClient = &http.Client{Timeout: 15 * time.Second}

// analyzePreview downloads a preview clip and computes a normalized RMS
// energy in [0, 1] over its 16-bit samples.
func analyzePreview(url string) (float64, error) {
	resp, err := previewClient.Get(url)
	if err != nil {
		return 0, fmt.Errorf("preview fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("preview fetch status %d", resp.StatusCode)
	}

	decoder, err := mp3.NewDecoder(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("preview decode failed: %w", err)
	}

	buf := make([]byte, 4096)
	var sumSquares, count float64
	for {
		n, err := decoder.Read(buf)
		for i := 0; i+1 < n; i += 2 {
			sample := float64(int16(buf[i]) | int16(buf[i+1])<<8)
			sumSquares += sample * sample
			count++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("preview read failed: %w", err)
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("preview contains no samples")
	}

	energy := math.Sqrt(sumSquares/count) / 32768.0
	return math.Min(math.Max(energy, 0), 1), nil
}

// AnalyzePreviewFunc allows tests to override the analyzer implementation.
var AnalyzePreviewFunc = analyzePreview
