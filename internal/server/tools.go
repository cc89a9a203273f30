package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// annotationsSchema describes detector annotations in their to_dict shape.
var annotationsSchema = map[string]interface{}{
	"type":        "array",
	"description": "Detector annotations: [{\"shape\": {\"x\",\"y\",\"width\",\"height\",\"angle\"}, \"labels\": [{\"name\",\"color\"}]}]. Box x/y is the center; angle is in degrees.",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"shape": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x":      map[string]interface{}{"type": "number"},
					"y":      map[string]interface{}{"type": "number"},
					"width":  map[string]interface{}{"type": "number"},
					"height": map[string]interface{}{"type": "number"},
					"angle":  map[string]interface{}{"type": "number"},
				},
			},
			"labels": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name":  map[string]interface{}{"type": "string"},
						"color": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
	},
}

var labelsSchema = map[string]interface{}{
	"type":        "object",
	"description": "Optional label names per role. Defaults to MTD (landmark), B-MT (anchor), CP (center) unless configured otherwise.",
	"properties": map[string]interface{}{
		"landmark": map[string]interface{}{"type": "string"},
		"anchor":   map[string]interface{}{"type": "string"},
		"center":   map[string]interface{}{"type": "string"},
	},
}

// detectionProperties returns the detection source properties shared by the
// sequencing tools.
func detectionProperties() map[string]interface{} {
	return map[string]interface{}{
		"annotations": annotationsSchema,
		"prediction_path": map[string]interface{}{
			"type":        "string",
			"description": "Path to a prediction JSON file. Used when annotations is omitted.",
		},
		"image_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image the detections refer to. Supplies the image size.",
		},
		"width": map[string]interface{}{
			"type":        "number",
			"description": "Image width in pixels. Overrides image_path.",
		},
		"height": map[string]interface{}{
			"type":        "number",
			"description": "Image height in pixels. Overrides image_path.",
		},
		"labels": labelsSchema,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	renderProps := detectionProperties()
	delete(renderProps, "width")
	delete(renderProps, "height")
	renderProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional .png or .jpg path to save the overlay. When omitted the overlay is returned as base64 PNG.",
	}
	renderProps["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor for the rendered image. Default 1.0",
		"default":     1.0,
	}
	renderProps["line_width"] = map[string]interface{}{
		"type":        "number",
		"description": "Stroke width in pixels. Default 2",
		"default":     2,
	}
	renderProps["line_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Reference line color as hex. Default #FF0000",
		"default":     "#FF0000",
	}

	return []Tool{
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file. These are the bounds the reference line is clipped to.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "landmark_classify",
			Description: "Partition detector annotations into landmark, anchor and center boxes and report whether the set is usable (exactly one center box and nine landmarks). Malformed and unknown annotations are listed as skipped.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(),
			},
		},
		{
			Name:        "landmark_reference_line",
			Description: "Compute the line through a center box perpendicular to its long axis, clipped to the image rectangle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"center": map[string]interface{}{
						"type":        "object",
						"description": "Center box: x, y (center), width, height, angle (degrees)",
						"properties": map[string]interface{}{
							"x":      map[string]interface{}{"type": "number"},
							"y":      map[string]interface{}{"type": "number"},
							"width":  map[string]interface{}{"type": "number"},
							"height": map[string]interface{}{"type": "number"},
							"angle":  map[string]interface{}{"type": "number"},
						},
						"required": []string{"x", "y", "width", "height", "angle"},
					},
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Image width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Image height in pixels",
					},
				},
				"required": []string{"center", "width", "height"},
			},
		},
		{
			Name:        "landmark_sequence",
			Description: "Number the nine landmark boxes 1-9: ordinal 1 is closest to the reference line, ordinal 2 is second-closest to the nearest anchor, the rest follow nearest neighbors. Returns the line and the ordinal table, or usable=false with a reason.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(),
			},
		},
		{
			Name:        "landmark_render",
			Description: "Sequence detections on an image and draw the overlay: rotated boxes, the reference line and each landmark's ordinal.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProps,
				"required":   []string{"image_path"},
			},
		},
		{
			Name:        "landmark_process_folder",
			Description: "Sequence every PNG/JPEG in a folder using <stem>.json prediction files. Writes numbered_/unusable_ overlays and <stem>_coords.csv tables, and records results in SQLite when db_path is set.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"input_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder containing the images. Defaults to LANDMARK_INPUT_DIR",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder for overlays and CSV tables. Defaults to LANDMARK_OUTPUT_DIR",
					},
					"predictions_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder containing prediction JSON files. Defaults to input_dir",
					},
					"db_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional SQLite database for run results",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Images processed in parallel. Defaults to LANDMARK_WORKERS",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
