package camera

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-quad/common"
)

type freeCameraControllerImpl struct {
	mu *sync.Mutex

	held map[uint32]bool

	speed    float32
	turnRate float32
}

// Compile-time interface compliance check
var _ FreeCameraController = &freeCameraControllerImpl{}

// NewFreeCameraController creates a controller moving 4 units/s and turning 1.5 rad/s.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - FreeCameraController: the newly created controller
func NewFreeCameraController(options ...CameraControllerOption) FreeCameraController {
	cc := &freeCameraControllerImpl{
		mu:       &sync.Mutex{},
		held:     make(map[uint32]bool),
		speed:    4.0,
		turnRate: 1.5,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *freeCameraControllerImpl) KeyDown(keyCode uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.held[keyCode] = true
}

func (cc *freeCameraControllerImpl) KeyUp(keyCode uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.held, keyCode)
}

func (cc *freeCameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}

func (cc *freeCameraControllerImpl) TurnRate() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.turnRate
}

// axis returns +1, -1 or 0 depending on which of the two key sets is held.
// Caller must hold the mutex.
func (cc *freeCameraControllerImpl) axis(positive, negative []uint32) float32 {
	var v float32
	for _, k := range positive {
		if cc.held[k] {
			v++
			break
		}
	}
	for _, k := range negative {
		if cc.held[k] {
			v--
			break
		}
	}
	return v
}

func (cc *freeCameraControllerImpl) Update(cam FreeCamera, dt time.Duration) bool {
	if cam == nil || dt <= 0 {
		return false
	}

	cc.mu.Lock()
	forward := cc.axis([]uint32{common.KeyW}, []uint32{common.KeyS})
	right := cc.axis([]uint32{common.KeyD}, []uint32{common.KeyA})
	up := cc.axis([]uint32{common.KeySpace}, []uint32{common.KeyLeftShift, common.KeyRightShift})
	yaw := cc.axis([]uint32{common.KeyRight}, []uint32{common.KeyLeft})
	pitch := cc.axis([]uint32{common.KeyUp}, []uint32{common.KeyDown})
	speed, turnRate := cc.speed, cc.turnRate
	cc.mu.Unlock()

	if forward == 0 && right == 0 && up == 0 && yaw == 0 && pitch == 0 {
		return false
	}

	secs := float32(dt.Seconds())

	if yaw != 0 || pitch != 0 {
		cam.Rotate(yaw*turnRate*secs, pitch*turnRate*secs)
	}

	if forward != 0 || right != 0 || up != 0 {
		// movement stays level regardless of pitch
		f := cam.Forward()
		horizontal := mgl32.Vec3{f.X(), 0, f.Z()}.Normalize()
		move := horizontal.Mul(forward).
			Add(cam.Right().Mul(right)).
			Add(WorldUp.Mul(up))
		cam.Translate(move.Mul(speed * secs))
	}
	return true
}
