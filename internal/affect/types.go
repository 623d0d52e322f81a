package affect

import "time"

// #region field
// Field is one sample of the 4-dimensional affective state.
// V is valence in [-1, 1]; A (arousal), U (uncertainty), and M
// (motivation) live in [0, 1]. Fields are immutable values; every
// simulation step produces a fresh one.
type Field struct {
	V         float64
	A         float64
	U         float64
	M         float64
	Timestamp time.Time
}

// Zero returns the all-zero field stamped with the given time.
func Zero(ts time.Time) Field {
	return Field{Timestamp: ts}
}

// #endregion field

// #region dynamics
// Dynamics holds the 13 decay and coupling coefficients that drive the
// field equations. All four Lambda* decay coefficients must be > 0 so
// trajectories stay bounded under the clamp policy.
type Dynamics struct {
	LambdaV float64 `yaml:"lambda_v"` // valence decay
	LambdaA float64 `yaml:"lambda_a"` // arousal decay
	LambdaU float64 `yaml:"lambda_u"` // uncertainty decay
	LambdaM float64 `yaml:"lambda_m"` // motivation decay

	WVE float64 `yaml:"w_ve"` // excitation → valence
	WVM float64 `yaml:"w_vm"` // motivation → valence
	WVU float64 `yaml:"w_vu"` // uncertainty → valence (inhibitory)
	WAE float64 `yaml:"w_ae"` // excitation → arousal
	WAM float64 `yaml:"w_am"` // motivation → arousal

	Alpha  float64 `yaml:"alpha"`   // prediction error → uncertainty
	BetaU  float64 `yaml:"beta_u"`  // meta feedback → uncertainty (inhibitory)
	GammaM float64 `yaml:"gamma_m"` // valence → motivation (inhibitory)
	EtaU   float64 `yaml:"eta_u"`   // certainty → motivation
}

// DefaultDynamics returns the standard coefficient set.
func DefaultDynamics() Dynamics {
	return Dynamics{
		LambdaV: 0.3,
		LambdaA: 0.4,
		LambdaU: 0.25,
		LambdaM: 0.2,
		WVE:     0.6,
		WVM:     0.3,
		WVU:     0.4,
		WAE:     0.7,
		WAM:     0.2,
		Alpha:   0.5,
		BetaU:   0.3,
		GammaM:  0.1,
		EtaU:    0.15,
	}
}

// Validate reports whether every decay coefficient is positive.
func (d Dynamics) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"lambda_v", d.LambdaV},
		{"lambda_a", d.LambdaA},
		{"lambda_u", d.LambdaU},
		{"lambda_m", d.LambdaM},
	} {
		if c.value <= 0 {
			return &InvalidDynamicsError{Coefficient: c.name, Value: c.value}
		}
	}
	return nil
}

// InvalidDynamicsError reports a non-positive decay coefficient.
type InvalidDynamicsError struct {
	Coefficient string
	Value       float64
}

func (e *InvalidDynamicsError) Error() string {
	return "affect: decay coefficient " + e.Coefficient + " must be > 0"
}

// #endregion dynamics
