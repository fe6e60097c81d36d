// Package remote calls an external pose or object detection service over
// HTTP. Frames are sent as base64 PNG; the service answers with landmarks
// or boxes in the frame's coordinate space.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/soocke/pixel-overlay-go/domain/capture"
	"github.com/soocke/pixel-overlay-go/domain/detect"
)

const (
	Kind           = "remote"
	DefaultTimeout = 2 * time.Second
	detectPath     = "/detect"
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
	// Topology names the landmark layout used when the service omits it.
	Topology string
}

type detectRequest struct {
	ID            string  `json:"id"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Format        string  `json:"format"`
	Image         string  `json:"image"`
	MinConfidence float64 `json:"min_confidence"`
}

type wireLandmark struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float32 `json:"visibility"`
}

type wireBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type wireEntity struct {
	Class      string         `json:"class"`
	ClassID    int            `json:"class_id"`
	Confidence float32        `json:"confidence"`
	Topology   string         `json:"topology,omitempty"`
	Landmarks  []wireLandmark `json:"landmarks,omitempty"`
	Box        *wireBox       `json:"box,omitempty"`
}

type detectResponse struct {
	ID       string       `json:"id"`
	Entities []wireEntity `json:"entities"`
	Error    string       `json:"error,omitempty"`
}

type Detector struct {
	client   *resty.Client
	topology *detect.Topology
	logger   *slog.Logger
	buf      bytes.Buffer
}

func New(logger *slog.Logger, cfg Config) (*Detector, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("remote: endpoint is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	topo := detect.MediaPipePose
	if cfg.Topology != "" {
		t, ok := detect.TopologyByName(cfg.Topology)
		if !ok {
			return nil, fmt.Errorf("remote: unknown topology %q", cfg.Topology)
		}
		topo = t
	}
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	return &Detector{client: client, topology: topo, logger: logger}, nil
}

func (d *Detector) Detect(ctx context.Context, f *capture.Frame, minConfidence float64) ([]detect.Entity, error) {
	img, err := detect.RGBAImage(f)
	if err != nil {
		return nil, err
	}
	d.buf.Reset()
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&d.buf, img); err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	req := detectRequest{
		ID:            uuid.NewString(),
		Width:         f.Width,
		Height:        f.Height,
		Format:        "png",
		Image:         base64.StdEncoding.EncodeToString(d.buf.Bytes()),
		MinConfidence: minConfidence,
	}
	var body detectResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		SetError(&body).
		Post(detectPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", detect.ErrNotLoaded, err)
	}
	if resp.IsError() {
		if body.Error != "" {
			return nil, fmt.Errorf("service returned %s: %s", resp.Status(), body.Error)
		}
		return nil, fmt.Errorf("service returned %s", resp.Status())
	}
	return d.convert(body.Entities, f.Width, f.Height)
}

func (d *Detector) convert(in []wireEntity, w, h int) ([]detect.Entity, error) {
	out := make([]detect.Entity, 0, len(in))
	for i, we := range in {
		e := detect.Entity{
			Class:      detect.ParseClass(we.Class),
			ClassID:    we.ClassID,
			Confidence: we.Confidence,
		}
		switch {
		case len(we.Landmarks) > 0:
			topo := d.topology
			if we.Topology != "" {
				t, ok := detect.TopologyByName(we.Topology)
				if !ok {
					return nil, fmt.Errorf("%w: entity %d has unknown topology %q", detect.ErrMalformedFrame, i, we.Topology)
				}
				topo = t
			}
			if len(we.Landmarks) != len(topo.Landmarks) {
				return nil, fmt.Errorf("%w: entity %d has %d landmarks, %s needs %d", detect.ErrMalformedFrame, i, len(we.Landmarks), topo.Name, len(topo.Landmarks))
			}
			e.Shape = detect.ShapeLandmarks
			e.Topology = topo
			if we.Class == "" {
				e.Class = detect.ClassPerson
			}
			e.Landmarks = make([]detect.Landmark, len(we.Landmarks))
			for j, lm := range we.Landmarks {
				name := lm.Name
				if name == "" {
					name = topo.Landmarks[j]
				}
				e.Landmarks[j] = detect.Landmark{Name: name, X: lm.X, Y: lm.Y, Visibility: lm.Visibility}
			}
		case we.Box != nil:
			e.Shape = detect.ShapeBox
			e.Box = image.Rect(we.Box.X1, we.Box.Y1, we.Box.X2, we.Box.Y2).Intersect(image.Rect(0, 0, w, h))
			if we.Class == "" && we.ClassID == detect.PersonClassID {
				e.Class = detect.ClassPerson
			}
			if e.Box.Empty() {
				continue
			}
		default:
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *Detector) Close() error { return nil }
