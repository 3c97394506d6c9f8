package anim

// Join fires its callback once both of its completion signals have arrived.
// Cancel suppresses the callback if it has not fired yet.
type Join struct {
	first, second bool
	fired         bool
	cancelled     bool
	fn            func()
}

// NewJoin returns a join that calls fn after First and Second.
func NewJoin(fn func()) *Join {
	return &Join{fn: fn}
}

// First signals the first completion. The finished flag is ignored: a
// superseded animation still counts as complete.
func (j *Join) First(bool) {
	j.first = true
	j.try()
}

// Second signals the second completion.
func (j *Join) Second(bool) {
	j.second = true
	j.try()
}

// SecondDone adapts Second to a plain completion callback.
func (j *Join) SecondDone() {
	j.Second(true)
}

// Cancel prevents the callback from firing.
func (j *Join) Cancel() {
	j.cancelled = true
}

// Fired reports whether the callback ran.
func (j *Join) Fired() bool { return j.fired }

// Pending reports whether the join is still waiting on a signal.
func (j *Join) Pending() bool {
	return !j.fired && !j.cancelled
}

func (j *Join) try() {
	if j.fired || j.cancelled || !j.first || !j.second {
		return
	}
	j.fired = true
	if j.fn != nil {
		j.fn()
	}
}
