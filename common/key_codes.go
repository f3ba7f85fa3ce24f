package common

// Key codes delivered by the window's key callbacks.
// Printable keys use their ASCII value, the rest follow GLFW.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87
	KeyA     = 65
	KeyS     = 83
	KeyD     = 68
	KeyT     = 84
	KeySpace = 32

	KeyEsc   = 256
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265

	KeyLeftShift  = 340
	KeyRightShift = 344
)
