package affect

import "math"

// Derived analyses over fields and trajectories. All functions here
// are pure and never mutate their inputs.

// #region energy
// Energy computes the Lyapunov-style scalar 0.5 * Σ λi * xi² over the
// four dimensions. The zero field has energy exactly 0.
func (s *Simulator) Energy(f Field) float64 {
	d := s.dyn
	return 0.5 * (d.LambdaV*f.V*f.V +
		d.LambdaA*f.A*f.A +
		d.LambdaU*f.U*f.U +
		d.LambdaM*f.M*f.M)
}

// #endregion energy

// #region variances
// Variances returns the per-dimension population variance over the
// history window, in V/A/U/M order. Fewer than 2 samples yields zeros.
func Variances(hist []Field) [4]float64 {
	var out [4]float64
	n := len(hist)
	if n < 2 {
		return out
	}

	var mean [4]float64
	for _, f := range hist {
		mean[0] += f.V
		mean[1] += f.A
		mean[2] += f.U
		mean[3] += f.M
	}
	for i := range mean {
		mean[i] /= float64(n)
	}

	for _, f := range hist {
		dims := [4]float64{f.V, f.A, f.U, f.M}
		for i, x := range dims {
			d := x - mean[i]
			out[i] += d * d
		}
	}
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}

// #endregion variances

// #region entropy
// entropyEpsilon guards ln(0) when the trajectory is perfectly flat.
const entropyEpsilon = 1e-4

// Entropy maps the mean per-dimension variance of a trajectory into
// [0, 1]. A history with fewer than 2 samples has entropy exactly 0.
func Entropy(hist []Field) float64 {
	if len(hist) < 2 {
		return 0
	}
	v := Variances(hist)
	meanVar := (v[0] + v[1] + v[2] + v[3]) / 4
	return clamp(-math.Log(math.Max(entropyEpsilon, meanVar))/10, 0, 1)
}

// #endregion entropy

// #region stability
// Stability is 1 minus the summed per-dimension variance, floored at 0.
func Stability(hist []Field) float64 {
	v := Variances(hist)
	sum := v[0] + v[1] + v[2] + v[3]
	return 1 - math.Min(1, sum)
}

// #endregion stability
