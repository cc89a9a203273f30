// Package landmark numbers the nine landmark boxes found on an image.
//
// A detector reports oriented boxes of three kinds: a single center box, one
// or more anchor boxes and nine landmark boxes. This package turns those
// detections into ordinals 1 through 9:
//
//  1. Classify partitions annotations by label into a DetectionSet.
//  2. CheckUsable gates the set: exactly one center box and nine landmarks.
//  3. BuildReferenceLine draws the line through the center box, perpendicular
//     to its long axis, clipped to the image rectangle.
//  4. Sequence walks the landmarks from the line, seeded by an anchor box.
//  5. Assemble packages the ordinals as a (ordinal, origin_x, origin_y) table.
//
// Process runs the whole chain for one image and ProcessBatch runs many images
// in parallel. Nothing here touches the filesystem except LoadPrediction, and
// nothing draws; see the imaging and export packages for that.
//
// # Coordinate System
//
// Coordinates are image pixels with the origin at the top-left corner, X
// increasing rightward and Y increasing downward. Box angles are in degrees.
//
// # Box Identity
//
// Every box carries the index of the annotation it came from as its ID.
// Sequencing results refer to boxes by ID, never by coordinates.
package landmark
