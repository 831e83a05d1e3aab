package models

// Response messages
const (
	MessageUploaded = "CSV uploaded successfully"
)

// Domain types

// Point is a 2D coordinate owned by exactly one polygon.
// PolygonID is zero until the point has been persisted.
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Comment   *string `json:"comment"`
	PolygonID int64   `json:"-"`
}

// Polygon groups the points sharing one identifier, in stored order.
type Polygon struct {
	ID     int64   `json:"id"`
	Points []Point `json:"points"`
}

// Response types

// PointView is the client-facing shape of a point (no owning polygon).
type PointView struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Comment *string `json:"comment"`
}

type UploadResponse struct {
	Message string      `json:"message"`
	ID      int64       `json:"id"`
	Points  []PointView `json:"points"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Polygons int64  `json:"polygons"`
	Points   int64  `json:"points"`
}

// Error response

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Views converts points to their client-facing form.
func Views(points []Point) []PointView {
	out := make([]PointView, 0, len(points))
	for _, p := range points {
		out = append(out, PointView{X: p.X, Y: p.Y, Comment: p.Comment})
	}
	return out
}

// StringPtr returns nil for an empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
