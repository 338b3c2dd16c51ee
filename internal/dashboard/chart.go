package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Instance is one live chart. Destroy releases it; calling it twice is safe.
type Instance interface {
	// Config is the serialised chart the page draws.
	Config() []byte
	Destroy()
}

// Renderer creates chart instances bound to a canvas element.
type Renderer interface {
	Create(canvasID string, s Series) (Instance, error)
}

var ErrNotMounted = errors.New("chart not mounted")

// Panel owns at most one chart instance. Mount acquires it, Unmount
// releases it, and Refresh releases the old one before acquiring a new one.
type Panel struct {
	mu       sync.Mutex
	renderer Renderer
	canvasID string
	series   Series
	inst     Instance
}

func NewPanel(r Renderer, canvasID string) *Panel {
	return &Panel{renderer: r, canvasID: canvasID}
}

// Mount creates the chart for s. A mounted panel keeps its instance.
func (p *Panel) Mount(s Series) (Instance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inst != nil {
		return p.inst, nil
	}
	return p.create(s)
}

// Refresh destroys the current chart and draws s in its place.
func (p *Panel) Refresh(s Series) (Instance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inst == nil {
		return nil, ErrNotMounted
	}
	p.release()
	return p.create(s)
}

func (p *Panel) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
}

// Instance returns the live chart, or nil.
func (p *Panel) Instance() Instance {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inst
}

func (p *Panel) create(s Series) (Instance, error) {
	inst, err := p.renderer.Create(p.canvasID, s)
	if err != nil {
		return nil, fmt.Errorf("create chart: %w", err)
	}
	p.inst, p.series = inst, s
	return inst, nil
}

func (p *Panel) release() {
	if p.inst != nil {
		p.inst.Destroy()
		p.inst = nil
	}
}

// ChartJS renders a Chart.js line configuration.
type ChartJS struct{}

type chartJSInstance struct {
	mu     sync.Mutex
	config []byte
}

func (c *chartJSInstance) Config() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

func (c *chartJSInstance) Destroy() {
	c.mu.Lock()
	c.config = nil
	c.mu.Unlock()
}

type chartConfig struct {
	Canvas  string         `json:"canvas"`
	Type    string         `json:"type"`
	Data    chartData      `json:"data"`
	Options map[string]any `json:"options"`
}

type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

type chartDataset struct {
	Label                string    `json:"label"`
	Data                 []float64 `json:"data"`
	BorderColor          string    `json:"borderColor"`
	BackgroundColor      string    `json:"backgroundColor"`
	BorderWidth          int       `json:"borderWidth"`
	Fill                 bool      `json:"fill"`
	Tension              float64   `json:"tension"`
	PointBackgroundColor string    `json:"pointBackgroundColor"`
	PointBorderColor     string    `json:"pointBorderColor"`
	PointBorderWidth     int       `json:"pointBorderWidth"`
	PointRadius          int       `json:"pointRadius"`
	PointHoverRadius     int       `json:"pointHoverRadius"`
}

func (ChartJS) Create(canvasID string, s Series) (Instance, error) {
	if canvasID == "" {
		return nil, errors.New("canvas id is required")
	}
	if len(s.Labels) != len(s.Values) {
		return nil, fmt.Errorf("series has %d labels for %d values", len(s.Labels), len(s.Values))
	}
	data := make([]float64, len(s.Values))
	for i, v := range s.Values {
		data[i] = v.InexactFloat64()
	}
	cfg := chartConfig{
		Canvas: canvasID,
		Type:   "line",
		Data: chartData{
			Labels: s.Labels,
			Datasets: []chartDataset{{
				Label:                s.Label,
				Data:                 data,
				BorderColor:          "#3b82f6",
				BackgroundColor:      "rgba(59, 130, 246, 0.15)",
				BorderWidth:          3,
				Fill:                 true,
				Tension:              0.4,
				PointBackgroundColor: "#3b82f6",
				PointBorderColor:     "#ffffff",
				PointBorderWidth:     2,
				PointRadius:          6,
				PointHoverRadius:     8,
			}},
		},
		Options: map[string]any{
			"responsive":          true,
			"maintainAspectRatio": false,
			"plugins":             map[string]any{"legend": map[string]any{"display": false}},
			"interaction":         map[string]any{"intersect": false, "mode": "nearest"},
			"scales": map[string]any{
				"x": map[string]any{"grid": map[string]any{"display": false}},
				"y": map[string]any{"beginAtZero": true},
			},
		},
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal chart: %w", err)
	}
	return &chartJSInstance{config: b}, nil
}
