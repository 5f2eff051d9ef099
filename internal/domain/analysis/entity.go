package analysis

// Label is one detected object/scene/concept. Confidence is 0..100.
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// TextDetection is one detected LINE or WORD of text.
type TextDetection struct {
	DetectedText string  `json:"detectedText"`
	Type         string  `json:"type"`
	Confidence   float64 `json:"confidence"`
}

type BoundingBox struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
}

type AgeRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

type Gender struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

type Emotion struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Attribute is a boolean facial attribute (smile, beard...) with its confidence.
type Attribute struct {
	Value      bool    `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Face carries the full attribute set requested for every detected face.
type Face struct {
	BoundingBox BoundingBox `json:"boundingBox"`
	AgeRange    AgeRange    `json:"ageRange"`
	Gender      Gender      `json:"gender"`
	Emotions    []Emotion   `json:"emotions"`
	Smile       Attribute   `json:"smile"`
	Eyeglasses  Attribute   `json:"eyeglasses"`
	Sunglasses  Attribute   `json:"sunglasses"`
	Beard       Attribute   `json:"beard"`
	Mustache    Attribute   `json:"mustache"`
	EyesOpen    Attribute   `json:"eyesOpen"`
	MouthOpen   Attribute   `json:"mouthOpen"`
	Confidence  float64     `json:"confidence"`
}

// Result is the union of the three aspects, stored verbatim on the image record.
type Result struct {
	Labels []Label         `json:"labels"`
	Text   []TextDetection `json:"text"`
	Faces  []Face          `json:"faces"`
}

// FilterLabels keeps labels with confidence >= minConfidence, in the given
// order, and stops after limit entries (limit <= 0 means no cap).
func FilterLabels(labels []Label, minConfidence float64, limit int) []Label {
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		if l.Confidence < minConfidence {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, l)
	}
	return out
}
