package processors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"videoAnalyze/config"
	"videoAnalyze/core"
)

// SubtitleDetector is the video-intelligence collaborator: it reads on-screen
// text and person detections out of the raw video, independently of the
// transcript path.
type SubtitleDetector interface {
	DetectSubtitles(ctx context.Context, videoPath string) ([]core.Subtitle, []core.BoundingBox, error)
}

// AnnotatorClient talks to the video annotator sidecar over HTTP. The
// sidecar shares the upload volume, so requests carry the file path, not the
// content.
type AnnotatorClient struct {
	hc      *http.Client
	baseURL string
}

func NewAnnotatorClient(cfg *config.Config) *AnnotatorClient {
	return &AnnotatorClient{
		hc:      &http.Client{},
		baseURL: strings.TrimRight(cfg.AnnotatorURL, "/"),
	}
}

type annotateRequest struct {
	VideoPath string `json:"video_path"`
}

type vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// textAnnotation is one detected on-screen text with its rotated bounding
// box, in normalized coordinates.
type textAnnotation struct {
	Text       string   `json:"text"`
	Start      float64  `json:"start_time"`
	End        float64  `json:"end_time"`
	Confidence float64  `json:"confidence"`
	Vertices   []vertex `json:"vertices"`
}

type personDetection struct {
	TimeOffset float64 `json:"time_offset"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Right      float64 `json:"right"`
	Bottom     float64 `json:"bottom"`
}

type annotateResponse struct {
	TextAnnotations  []textAnnotation  `json:"text_annotations"`
	PersonDetections []personDetection `json:"person_detections"`
}

func (a *AnnotatorClient) DetectSubtitles(ctx context.Context, videoPath string) ([]core.Subtitle, []core.BoundingBox, error) {
	body, err := json.Marshal(annotateRequest{VideoPath: videoPath})
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/annotate", bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("video annotation: %w: %v", core.ErrExternalCall, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("video annotation: %w: annotator returned %s", core.ErrExternalCall, resp.Status)
	}

	var out annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, nil, fmt.Errorf("video annotation: %w: %v", core.ErrSchemaValidation, err)
	}

	subtitles := FilterSubtitleBand(out.TextAnnotations)

	boxes := make([]core.BoundingBox, 0, len(out.PersonDetections))
	for _, p := range out.PersonDetections {
		boxes = append(boxes, core.BoundingBox{
			TimeOffset: p.TimeOffset,
			Left:       p.Left,
			Top:        p.Top,
			Right:      p.Right,
			Bottom:     p.Bottom,
		})
	}

	return subtitles, boxes, nil
}

// FilterSubtitleBand keeps only text detections lying in the horizontal band
// at the bottom of the frame where burned-in subtitles live, drops duplicate
// lines, and orders the result by appearance time.
func FilterSubtitleBand(annotations []textAnnotation) []core.Subtitle {
	var subtitles []core.Subtitle
	seen := make(map[string]struct{})

	for _, ta := range annotations {
		if len(ta.Vertices) < 4 || !inSubtitleBand(ta.Vertices) {
			continue
		}

		// OCR prefixes speaker markers like "speaker>" on occasion.
		text := ta.Text
		if i := strings.LastIndex(text, ">"); i >= 0 {
			text = text[i+1:]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}

		subtitles = append(subtitles, core.Subtitle{
			Text:       text,
			Start:      ta.Start,
			End:        ta.End,
			Confidence: ta.Confidence,
			TextBox: fmt.Sprintf("(%g, %g) -> (%g, %g)",
				ta.Vertices[0].X, ta.Vertices[0].Y, ta.Vertices[3].X, ta.Vertices[3].Y),
		})
	}

	sort.SliceStable(subtitles, func(i, j int) bool {
		if subtitles[i].Start != subtitles[j].Start {
			return subtitles[i].Start < subtitles[j].Start
		}
		return subtitles[i].TextBox < subtitles[j].TextBox
	})

	return subtitles
}

// inSubtitleBand reports whether a box spans the frame's center line within
// the bottom fifth of the picture. Vertices run clockwise from the bottom
// left corner.
func inSubtitleBand(v []vertex) bool {
	return v[0].X < 0.5 && v[0].Y > 0.8 &&
		v[1].X > 0.5 && v[1].Y > 0.8 &&
		v[2].X > 0.5 && v[2].Y < 1 &&
		v[3].X < 0.5 && v[3].Y < 1
}

// MockSubtitleDetector returns fixed annotations, for local runs without an
// annotator service.
type MockSubtitleDetector struct {
	Subtitles []core.Subtitle
	Persons   []core.BoundingBox
}

func (m MockSubtitleDetector) DetectSubtitles(ctx context.Context, videoPath string) ([]core.Subtitle, []core.BoundingBox, error) {
	return m.Subtitles, m.Persons, nil
}

// PickSubtitleDetector selects the OCR collaborator; without a configured
// annotator there is nothing to call, so detection degrades to empty.
func PickSubtitleDetector(cfg *config.Config) SubtitleDetector {
	if strings.TrimSpace(cfg.AnnotatorURL) == "" {
		return MockSubtitleDetector{}
	}
	return NewAnnotatorClient(cfg)
}
