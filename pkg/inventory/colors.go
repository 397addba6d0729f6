package inventory

// FallbackColor is shown for faces that have no assigned color.
const FallbackColor = "#6b7280"

// DefaultPalette is cycled over faces in index order.
var DefaultPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9", "#F8C471", "#82E0AA",
	"#FF9FF3", "#54A0FF", "#5F27CD", "#00D2D3", "#FF9F43", "#10AC84",
	"#FF3838", "#FF6348", "#FFA502", "#2ED573", "#1E90FF", "#5352ED",
	"#3742FA", "#2F3542", "#747D8C", "#A4B0BE", "#57606F", "#2F3542",
}

// BuildFaceColorMap assigns palette[i mod len(palette)] to face i.
func BuildFaceColorMap(faceCount int, palette []string) (map[string]string, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	colors := make(map[string]string, faceCount)
	for i := 0; i < faceCount; i++ {
		colors[FaceID(i)] = palette[i%len(palette)]
	}
	return colors, nil
}
