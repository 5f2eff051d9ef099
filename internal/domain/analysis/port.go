package analysis

import "context"

const (
	OpDetectLabels = "detectLabels"
	OpDetectText   = "detectText"
	OpDetectFaces  = "detectFaces"
)

// Analyzer runs the three independent analyses over raw image bytes.
// Implementations must not retry; every failure is an *Error.
type Analyzer interface {
	DetectLabels(ctx context.Context, image []byte) ([]Label, error)
	DetectText(ctx context.Context, image []byte) ([]TextDetection, error)
	DetectFaces(ctx context.Context, image []byte) ([]Face, error)
}
