package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/radial-sequencer/internal/batch"
	"github.com/ironsheep/radial-sequencer/internal/export"
	"github.com/ironsheep/radial-sequencer/internal/imaging"
	"github.com/ironsheep/radial-sequencer/internal/landmark"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "landmark_sequence").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// An image that cannot be sequenced is not an error: the result reports
// usable=false with a reason.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warnf("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "landmark_classify":
		return s.handleLandmarkClassify(args)
	case "landmark_reference_line":
		return s.handleLandmarkReferenceLine(args)
	case "landmark_sequence":
		return s.handleLandmarkSequence(args)
	case "landmark_render":
		return s.handleLandmarkRender(args)
	case "landmark_process_folder":
		return s.handleLandmarkProcessFolder(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("missing arguments")
	}
	return json.Unmarshal(args, v)
}

// === Image Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Landmark Handlers ===

// detectionArgs is the detection source shared by the sequencing tools.
// Annotations given inline win over PredictionPath. Width and Height win over
// the size of ImagePath, which in turn wins over the prediction media size.
type detectionArgs struct {
	Annotations    []landmark.Annotation `json:"annotations,omitempty"`
	PredictionPath string                `json:"prediction_path,omitempty"`
	ImagePath      string                `json:"image_path,omitempty"`
	Width          float64               `json:"width,omitempty"`
	Height         float64               `json:"height,omitempty"`
	Labels         *landmark.LabelSet    `json:"labels,omitempty"`
}

func (s *Server) labels(override *landmark.LabelSet) (landmark.LabelSet, error) {
	if override == nil {
		return s.cfg.Labels(), nil
	}
	if err := override.Validate(); err != nil {
		return landmark.LabelSet{}, err
	}
	return *override, nil
}

// input resolves detection arguments into an ImageInput. needSize is false
// for classification, which does not look at the image size.
func (s *Server) input(a detectionArgs, needSize bool) (landmark.ImageInput, error) {
	labels, err := s.labels(a.Labels)
	if err != nil {
		return landmark.ImageInput{}, err
	}
	in := landmark.ImageInput{
		Name:        a.ImagePath,
		Width:       a.Width,
		Height:      a.Height,
		Annotations: a.Annotations,
		Labels:      labels,
	}

	if in.Annotations == nil {
		if a.PredictionPath == "" {
			return in, fmt.Errorf("either annotations or prediction_path is required")
		}
		pred, err := landmark.LoadPrediction(a.PredictionPath)
		if err != nil {
			return in, err
		}
		in.Annotations = pred.Annotations
		if in.Width == 0 && in.Height == 0 && a.ImagePath == "" {
			in.Width = float64(pred.MediaWidth)
			in.Height = float64(pred.MediaHeight)
		}
	}

	if needSize && in.Width == 0 && in.Height == 0 && a.ImagePath != "" {
		dims, err := imaging.GetDimensions(s.cache, a.ImagePath)
		if err != nil {
			return in, err
		}
		in.Width = float64(dims.Width)
		in.Height = float64(dims.Height)
	}
	if needSize && (in.Width <= 0 || in.Height <= 0) {
		return in, fmt.Errorf("%w: width and height, or image_path, are required", landmark.ErrInvalidDimensions)
	}
	return in, nil
}

type classifyResult struct {
	Detections landmark.DetectionSet `json:"detections"`
	Verdict    landmark.Verdict      `json:"verdict"`
}

func (s *Server) handleLandmarkClassify(args json.RawMessage) (interface{}, error) {
	var a detectionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	in, err := s.input(a, false)
	if err != nil {
		return nil, err
	}

	set := landmark.Classify(in.Annotations, in.Labels)
	return &classifyResult{Detections: set, Verdict: landmark.CheckUsable(set)}, nil
}

type referenceLineArgs struct {
	Center struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Angle  float64 `json:"angle"`
	} `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleLandmarkReferenceLine(args json.RawMessage) (interface{}, error) {
	var a referenceLineArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	c := landmark.OrientedBox{
		X:      a.Center.X,
		Y:      a.Center.Y,
		Width:  a.Center.Width,
		Height: a.Center.Height,
		Angle:  a.Center.Angle,
		Role:   landmark.RoleCenter,
	}
	line, err := landmark.BuildReferenceLine(c, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *Server) handleLandmarkSequence(args json.RawMessage) (interface{}, error) {
	var a detectionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	in, err := s.input(a, true)
	if err != nil {
		return nil, err
	}

	res := landmark.Process(in)
	if !res.Usable {
		s.log.Debugf("%s: unusable: %s", in.Name, res.Reason)
	}
	return &res, nil
}

type renderArgs struct {
	detectionArgs
	OutputPath string  `json:"output_path,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	LineWidth  float64 `json:"line_width,omitempty"`
	LineColor  string  `json:"line_color,omitempty"`
}

type renderResult struct {
	Usable     bool                  `json:"usable"`
	Reason     string                `json:"reason,omitempty"`
	Table      landmark.Table        `json:"table"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleLandmarkRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ImagePath == "" {
		return nil, fmt.Errorf("image_path is required")
	}
	a.Width, a.Height = 0, 0
	in, err := s.input(a.detectionArgs, true)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.ImagePath)
	if err != nil {
		return nil, err
	}
	res := landmark.Process(in)

	opts := imaging.DefaultOverlayOptions()
	if a.Scale > 0 {
		opts.Scale = a.Scale
	}
	if a.LineWidth > 0 {
		opts.LineWidth = a.LineWidth
	}
	if a.LineColor != "" {
		opts.LineColor = a.LineColor
	}
	rendered, err := imaging.RenderOverlay(img, res, opts)
	if err != nil {
		return nil, err
	}

	out := &renderResult{Usable: res.Usable, Reason: res.Reason, Table: res.Table}
	if a.OutputPath != "" {
		if err := imaging.SaveImage(a.OutputPath, rendered); err != nil {
			return nil, err
		}
		out.OutputPath = a.OutputPath
		return out, nil
	}
	out.Image, err = imaging.EncodePNGBase64(rendered)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type processFolderArgs struct {
	InputDir       string `json:"input_dir"`
	OutputDir      string `json:"output_dir"`
	PredictionsDir string `json:"predictions_dir,omitempty"`
	DBPath         string `json:"db_path,omitempty"`
	Workers        int    `json:"workers,omitempty"`
}

func (s *Server) handleLandmarkProcessFolder(args json.RawMessage) (interface{}, error) {
	var a processFolderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	cfg := *s.cfg
	if a.InputDir != "" {
		cfg.InputDir = a.InputDir
		cfg.PredictionsDir = ""
	}
	if a.OutputDir != "" {
		cfg.OutputDir = a.OutputDir
	}
	if a.PredictionsDir != "" {
		cfg.PredictionsDir = a.PredictionsDir
	}
	if a.DBPath != "" {
		cfg.DBPath = a.DBPath
	}
	if a.Workers > 0 {
		cfg.Workers = a.Workers
	}

	runner := batch.NewRunner(&cfg, s.log)
	runner.Cache = s.cache
	if cfg.DBPath != "" {
		store, err := export.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		runner.Store = store
	}

	sum, err := runner.Run(context.Background())
	if err != nil {
		return nil, err
	}
	return &sum, nil
}
