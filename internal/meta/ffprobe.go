package meta

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/arvidsson/crateorganizer/internal/xerr"
)

// ffprobeInfo is the subset of `ffprobe -show_format -show_streams -print_format json`
// output this package reads.
type ffprobeInfo struct {
	Streams []ffprobeStream `json:"streams"`
	Format  *ffprobeFormat  `json:"format"`
}

// intOrString unmarshals ffprobe fields that are sometimes a JSON number and
// sometimes a JSON string (e.g. "N/A" for an absent bit depth).
type intOrString struct {
	Value int
}

func (i *intOrString) UnmarshalJSON(data []byte) error {
	var intVal int
	if err := json.Unmarshal(data, &intVal); err == nil {
		i.Value = intVal
		return nil
	}

	var strVal string
	if err := json.Unmarshal(data, &strVal); err != nil {
		return err
	}
	if strVal == "" || strVal == "N/A" {
		i.Value = 0
		return nil
	}
	parsed, err := strconv.Atoi(strVal)
	if err != nil {
		i.Value = 0
		return nil
	}
	i.Value = parsed
	return nil
}

type ffprobeStream struct {
	Index            int         `json:"index"`
	CodecName        string      `json:"codec_name"`
	CodecType        string      `json:"codec_type"`
	SampleRate       int         `json:"sample_rate,string"`
	Channels         int         `json:"channels"`
	ChannelLayout    string      `json:"channel_layout"`
	BitsPerSample    intOrString `json:"bits_per_sample"`
	BitsPerRawSample intOrString `json:"bits_per_raw_sample"`
	Duration         string      `json:"duration"`
	BitRate          string      `json:"bit_rate"`
}

type ffprobeFormat struct {
	Filename       string            `json:"filename"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Duration       string            `json:"duration"`
	Size           string            `json:"size"`
	BitRate        string            `json:"bit_rate"`
	Tags           map[string]string `json:"tags"`
}

// runFFprobe shells out to ffprobe and parses its JSON report. Returns
// xerr.NotFound when ffprobe isn't on PATH, so callers can fall back to
// tag-only extraction without treating it as a hard failure.
func runFFprobe(path string) (*ffprobeInfo, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, fmt.Errorf("%w: ffprobe not on PATH", xerr.NotFound)
	}

	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: ffprobe: %s", xerr.ExtractionFailed, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("%w: ffprobe execution: %v", xerr.ExtractionFailed, err)
	}

	var info ffprobeInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("%w: parsing ffprobe output: %v", xerr.Parse, err)
	}
	return &info, nil
}

// CheckFFprobeAvailable reports whether ffprobe is reachable on PATH.
func CheckFFprobeAvailable() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

func getTag(tags map[string]string, keys ...string) string {
	for _, key := range keys {
		if val, ok := tags[key]; ok && val != "" {
			return val
		}
	}
	return ""
}

func isLosslessCodec(codec string) bool {
	codec = strings.ToLower(codec)
	lossless := map[string]bool{
		"flac": true, "alac": true, "ape": true, "wavpack": true,
		"wv": true, "tta": true, "pcm": true, "wav": true, "aiff": true,
	}
	if strings.HasPrefix(codec, "pcm_") {
		return true
	}
	return lossless[codec]
}
