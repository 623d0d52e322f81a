package affect

import (
	"math"
	"time"
)

// #region simulator
// Simulator advances affective fields under a fixed Dynamics set.
type Simulator struct {
	dyn Dynamics
}

// NewSimulator creates a simulator. Dynamics with non-positive decay
// coefficients fall back to DefaultDynamics.
func NewSimulator(dyn Dynamics) *Simulator {
	if dyn.Validate() != nil {
		dyn = DefaultDynamics()
	}
	return &Simulator{dyn: dyn}
}

// Dynamics returns the coefficient set in use.
func (s *Simulator) Dynamics() Dynamics {
	return s.dyn
}

// #endregion simulator

// #region step
// Step advances the field by one explicit Euler step of size dt.
// external is the raw external input (squashed through tanh into an
// excitation gain), metaFeedback damps uncertainty, and intrinsic
// drives motivation. Inputs are taken as-is: NaN or Inf propagate
// into the result, which is the caller's responsibility. Every
// dimension is clamped to its domain after the step, so finite inputs
// always yield an in-domain field. The result carries the wall-clock
// time of the step.
func (s *Simulator) Step(cur Field, external, metaFeedback, intrinsic, dt float64) Field {
	d := s.dyn

	// Squash external input to an excitation gain in [0, 1].
	gE := math.Tanh(2*external)/2 + 0.5

	dv := -d.LambdaV*cur.V + d.WVE*gE + d.WVM*cur.M - d.WVU*cur.U
	da := -d.LambdaA*cur.A + d.WAE*gE + d.WAM*cur.M

	predErr := math.Abs(cur.V - 0.5)
	du := -d.LambdaU*cur.U + d.Alpha*predErr - d.BetaU*metaFeedback

	dm := -d.LambdaM*cur.M + intrinsic - d.GammaM*cur.V + d.EtaU*(1-cur.U)

	return Field{
		V:         clamp(cur.V+dt*dv, -1, 1),
		A:         clamp(cur.A+dt*da, 0, 1),
		U:         clamp(cur.U+dt*du, 0, 1),
		M:         clamp(cur.M+dt*dm, 0, 1),
		Timestamp: time.Now(),
	}
}

// #endregion step

// #region trajectory
// SimulateTrajectory repeatedly applies Step, cycling each input
// sequence modulo its length (an empty sequence reads as zero). The
// returned trajectory includes the initial field, so its length is
// steps+1. Deterministic for deterministic inputs.
func (s *Simulator) SimulateTrajectory(initial Field, steps int, external, metaFeedback, intrinsic []float64, dt float64) []Field {
	traj := make([]Field, 0, steps+1)
	traj = append(traj, initial)

	cur := initial
	for i := 0; i < steps; i++ {
		cur = s.Step(cur, cycled(external, i), cycled(metaFeedback, i), cycled(intrinsic, i), dt)
		traj = append(traj, cur)
	}
	return traj
}

// #endregion trajectory

// #region helpers
// cycled reads seq[i mod len(seq)], or 0 for an empty sequence.
func cycled(seq []float64, i int) float64 {
	if len(seq) == 0 {
		return 0
	}
	return seq[i%len(seq)]
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion helpers
