package logic

// Controller is the per-sample step of the button demo: edge detection
// followed by a machine transition on every rising edge.
type Controller struct {
	detector *EdgeDetector
	machine  *Machine
}

// NewController creates a controller baselined on the button's initial
// value, with the machine in RED.
func NewController(initial int) *Controller {
	return &Controller{
		detector: NewEdgeDetector(initial),
		machine:  NewMachine(),
	}
}

// Sample processes one button reading. fired is false when the reading is
// not a rising edge. On an output failure the error from Fire is returned
// and the state is not advanced.
func (c *Controller) Sample(v int, out Outputs) (t Transition, fired bool, err error) {
	if !c.detector.Process(v) {
		return Transition{}, false, nil
	}
	t, err = c.machine.Fire(InputButton, out)
	if err != nil {
		return Transition{}, false, err
	}
	return t, true, nil
}

func (c *Controller) State() State { return c.machine.State() }
func (c *Controller) Presses() int { return c.machine.Presses() }
