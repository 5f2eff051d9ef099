package prompt

import "fmt"

// SystemPrompt provides strict directions for JSON-only output.
func SystemPrompt() string {
	return `You are an image analysis service. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema given by the user. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- Every confidence is a number between 0 and 100.
- Report only what is visible in the image. Return empty arrays when nothing qualifies.`
}

// LabelsPrompt asks for objects, scenes and concepts, most confident first.
func LabelsPrompt(minConfidence float64, maxLabels int) string {
	return fmt.Sprintf(`Detect the objects, scenes and concepts in this image.
Return at most %d labels with confidence of at least %.0f, ordered by confidence descending.

Schema:
{"labels": [{"name": "<string>", "confidence": <number>}]}`, maxLabels, minConfidence)
}

// TextPrompt asks for OCR output as LINE and WORD detections.
func TextPrompt() string {
	return `Detect all text in this image. Report every line of text as type "LINE" and every word within it as type "WORD".

Schema:
{"text": [{"detectedText": "<string>", "type": "<LINE|WORD>", "confidence": <number>}]}`
}

// FacesPrompt asks for every face with the full attribute set.
func FacesPrompt() string {
	return `Detect every human face in this image. For each face report the bounding box as ratios of the image size (0..1), the estimated age range and all attributes below.

Schema:
{"faces": [{
  "boundingBox": {"width": <number>, "height": <number>, "left": <number>, "top": <number>},
  "ageRange": {"low": <int>, "high": <int>},
  "gender": {"value": "<Male|Female>", "confidence": <number>},
  "emotions": [{"type": "<HAPPY|SAD|ANGRY|CONFUSED|DISGUSTED|SURPRISED|CALM|FEAR>", "confidence": <number>}],
  "smile": {"value": <bool>, "confidence": <number>},
  "eyeglasses": {"value": <bool>, "confidence": <number>},
  "sunglasses": {"value": <bool>, "confidence": <number>},
  "beard": {"value": <bool>, "confidence": <number>},
  "mustache": {"value": <bool>, "confidence": <number>},
  "eyesOpen": {"value": <bool>, "confidence": <number>},
  "mouthOpen": {"value": <bool>, "confidence": <number>},
  "confidence": <number>
}]}`
}
