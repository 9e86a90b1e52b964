package camera

// Lens is the perspective setup of the camera inside its rail group.
type Lens struct {
	FOV      float64 `json:"fov"`      // vertical, degrees
	Distance float64 `json:"distance"` // local +Z offset behind the group
}

var (
	Landscape = Lens{FOV: 30, Distance: 5}
	Portrait  = Lens{FOV: 80, Distance: 2}
)

// Viewport picks the lens for a width/height aspect ratio. Square and
// unknown aspects use the portrait lens.
func Viewport(aspect float64) Lens {
	if aspect > 1 {
		return Landscape
	}
	return Portrait
}
