// Package server implements the MCP (Model Context Protocol) server for the
// landmark sequencer.
//
// This package provides a JSON-RPC 2.0 server that exposes classification,
// reference line construction, sequencing, overlay rendering and folder runs
// as MCP tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_dimensions: Get width and height
//   - landmark_classify: Partition annotations by role and report usability
//   - landmark_reference_line: Line through a center box, clipped to the image
//   - landmark_sequence: Number the nine landmarks 1-9
//   - landmark_render: Draw the sequencing overlay (base64 PNG or file)
//   - landmark_process_folder: Run a whole folder with prediction files
//
// Detections are passed either inline as "annotations" in the detector's
// to_dict shape or as a "prediction_path" to such a JSON file.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// An unusable detection set is a normal result (usable=false), not an error.
//
// # Logging
//
// Logs go to stderr through the standard logger. Set
// LANDMARK_MCP_LOG_LEVEL=debug for per-request and per-image debug lines.
//
// # Usage
//
//	srv := server.New(config.Load())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
