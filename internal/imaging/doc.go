// Package imaging loads source images and renders sequencing overlays.
//
// Images are decoded through ImageCache, which applies EXIF orientation so
// pixel coordinates match the ones used by the prediction files. Coordinates
// follow the image convention: (0,0) is the top-left corner, X increases
// rightward and Y increases downward.
//
// # Overlays
//
// RenderOverlay draws every classified box as a rotated rectangle, labels the
// center box, and for usable results draws the reference line and the
// ordinal of each landmark. The source image is never modified.
//
// # Output
//
// SaveImage picks PNG or JPEG from the file extension. EncodePNGBase64
// produces the payload returned by the MCP render tool.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. RenderOverlay allocates its own
// drawing context and may be called concurrently.
package imaging
