package affect

// #region regime
// Regime names a qualitative classification of the affective field.
type Regime string

const (
	RegimeCalmStability        Regime = "calm-stability"
	RegimeExploratoryCuriosity Regime = "exploratory-curiosity"
	RegimeStressAdaptive       Regime = "stress-adaptive"
	RegimeNegativeSpiral       Regime = "negative-spiral"
	RegimeTransitional         Regime = "transitional"
)

// RegimeResult pairs a regime with the fixed confidence of the rule
// that produced it.
type RegimeResult struct {
	Regime     Regime
	Confidence float64
}

// #endregion regime

// #region classify
// Classify maps a field to a regime by an ordered rule list; the first
// matching rule wins. Ordering matters on boundary cases: high
// uncertainty is claimed by the curiosity/stress rules before the
// negative-spiral rule can see the field.
//
//	1. V > 0.3, A < 0.4, U < 0.4  → calm-stability        (0.90)
//	2. U > 0.6, M > 0.5           → exploratory-curiosity (0.80)
//	3. U > 0.6                    → stress-adaptive       (0.75)
//	4. V < -0.3, A > 0.6          → negative-spiral       (0.85)
//	5. otherwise                  → transitional          (0.50)
func Classify(f Field) RegimeResult {
	switch {
	case f.V > 0.3 && f.A < 0.4 && f.U < 0.4:
		return RegimeResult{Regime: RegimeCalmStability, Confidence: 0.9}
	case f.U > 0.6 && f.M > 0.5:
		return RegimeResult{Regime: RegimeExploratoryCuriosity, Confidence: 0.8}
	case f.U > 0.6:
		return RegimeResult{Regime: RegimeStressAdaptive, Confidence: 0.75}
	case f.V < -0.3 && f.A > 0.6:
		return RegimeResult{Regime: RegimeNegativeSpiral, Confidence: 0.85}
	default:
		return RegimeResult{Regime: RegimeTransitional, Confidence: 0.5}
	}
}

// #endregion classify
