package dem

// Divergence model variants for a pair of daughter populations splitting from
// a common ancestor. Six regimes — SI strict isolation, IM isolation with
// migration, AM ancient migration, PAM periodic ancient migration, SC
// secondary contact, PSC periodic secondary contact — each with growth
// ("ex", exponential size change toward the present) and, for SI, bottleneck
// ("bo") variants. Sizes are relative to the ancestral population and times
// are in 2N generations, so growth epochs interpolate from the ancestral
// relative size 1 to the final size.

// grow is the canonical growth trajectory used by every "ex" variant.
func grow(end, duration float64) SizeFunc {
	return ExponentialGrowth(1, end, duration)
}

func init() {
	register(ModelSpec{
		Name:        "SI",
		Description: "split followed by strict isolation",
		Params:      []string{"nu1", "nu2", "Ts"},
		Epochs: func(p []float64) []Epoch {
			nu1, nu2, Ts := p[0], p[1], p[2]
			return []Epoch{
				{Duration: Ts, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2)},
			}
		},
	})

	register(ModelSpec{
		Name:        "SIex",
		Description: "strict isolation with exponential growth",
		Params:      []string{"nu1a", "nu2a", "nu1", "nu2", "Ts", "Te"},
		Epochs: func(p []float64) []Epoch {
			nu1a, nu2a, nu1, nu2, Ts, Te := p[0], p[1], p[2], p[3], p[4], p[5]
			return []Epoch{
				{Duration: Ts, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a)},
				{Duration: Te, Size1: grow(nu1, Te), Size2: grow(nu2, Te)},
			}
		},
	})

	register(ModelSpec{
		Name:        "SIbo",
		Description: "strict isolation with bottleneck then exponential growth",
		Params:      []string{"nu1a", "nu2a", "nu1B", "nu2B", "nu1", "nu2", "Ts", "TB", "Te"},
		Epochs: func(p []float64) []Epoch {
			nu1a, nu2a, nu1B, nu2B, nu1, nu2 := p[0], p[1], p[2], p[3], p[4], p[5]
			Ts, TB, Te := p[6], p[7], p[8]
			return []Epoch{
				{Duration: Ts, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a)},
				{Duration: TB, Size1: ConstantSize(nu1B), Size2: ConstantSize(nu2B)},
				{Duration: Te, Size1: grow(nu1, Te), Size2: grow(nu2, Te)},
			}
		},
	})

	register(ModelSpec{
		Name:        "IM",
		Description: "split with continuous migration",
		Params:      []string{"nu1", "nu2", "m12", "m21", "Ts"},
		Epochs: func(p []float64) []Epoch {
			nu1, nu2, m12, m21, Ts := p[0], p[1], p[2], p[3], p[4]
			return []Epoch{
				{Duration: Ts, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2), M12: m12, M21: m21},
			}
		},
	})

	register(ModelSpec{
		Name:        "IMex",
		Description: "continuous migration with exponential growth",
		Params:      []string{"nu1a", "nu2a", "nu1", "nu2", "m12", "m21", "Ts", "Te"},
		Epochs: func(p []float64) []Epoch {
			nu1a, nu2a, nu1, nu2 := p[0], p[1], p[2], p[3]
			m12, m21, Ts, Te := p[4], p[5], p[6], p[7]
			return []Epoch{
				{Duration: Ts, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a), M12: m12, M21: m21},
				{Duration: Te, Size1: grow(nu1, Te), Size2: grow(nu2, Te), M12: m12, M21: m21},
			}
		},
	})

	register(ModelSpec{
		Name:        "SC",
		Description: "strict isolation followed by secondary contact",
		Params:      []string{"nu1", "nu2", "m12", "m21", "Ts", "Tsc"},
		Epochs: func(p []float64) []Epoch {
			nu1, nu2, m12, m21, Ts, Tsc := p[0], p[1], p[2], p[3], p[4], p[5]
			return []Epoch{
				{Duration: Ts, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2)},
				{Duration: Tsc, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2), M12: m12, M21: m21},
			}
		},
	})

	register(ModelSpec{
		Name:        "SCex",
		Description: "secondary contact with exponential growth",
		Params:      []string{"nu1a", "nu2a", "nu1", "nu2", "m12", "m21", "Ts", "Tsc", "Te"},
		Epochs: func(p []float64) []Epoch {
			nu1a, nu2a, nu1, nu2 := p[0], p[1], p[2], p[3]
			m12, m21, Ts, Tsc, Te := p[4], p[5], p[6], p[7], p[8]
			return []Epoch{
				{Duration: Ts, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a)},
				{Duration: Tsc, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a), M12: m12, M21: m21},
				{Duration: Te, Size1: grow(nu1, Te), Size2: grow(nu2, Te), M12: m12, M21: m21},
			}
		},
	})

	register(ModelSpec{
		Name:        "AM",
		Description: "ancient migration followed by strict isolation",
		Params:      []string{"nu1", "nu2", "m12", "m21", "Tam", "Ts"},
		Epochs: func(p []float64) []Epoch {
			nu1, nu2, m12, m21, Tam, Ts := p[0], p[1], p[2], p[3], p[4], p[5]
			return []Epoch{
				{Duration: Tam, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2), M12: m12, M21: m21},
				{Duration: Ts, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2)},
			}
		},
	})

	register(ModelSpec{
		Name:        "AMex",
		Description: "ancient migration with exponential growth",
		Params:      []string{"nu1a", "nu2a", "nu1", "nu2", "m12", "m21", "Tam", "Ts", "Te"},
		Epochs: func(p []float64) []Epoch {
			nu1a, nu2a, nu1, nu2 := p[0], p[1], p[2], p[3]
			m12, m21, Tam, Ts, Te := p[4], p[5], p[6], p[7], p[8]
			return []Epoch{
				{Duration: Tam, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a), M12: m12, M21: m21},
				{Duration: Ts, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a)},
				{Duration: Te, Size1: grow(nu1, Te), Size2: grow(nu2, Te)},
			}
		},
	})

	register(ModelSpec{
		Name:        "PSC",
		Description: "two periods of secondary contact separated by isolation",
		Params:      []string{"nu1", "nu2", "m12", "m21", "Ts", "Tsc"},
		Epochs: func(p []float64) []Epoch {
			nu1, nu2, m12, m21, Ts, Tsc := p[0], p[1], p[2], p[3], p[4], p[5]
			isolation := Epoch{Duration: Ts, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2)}
			contact := Epoch{Duration: Tsc, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2), M12: m12, M21: m21}
			return []Epoch{isolation, contact, isolation, contact}
		},
	})

	register(ModelSpec{
		Name:        "PSCex",
		Description: "periodic secondary contact with exponential growth",
		Params:      []string{"nu1a", "nu2a", "nu1", "nu2", "m12", "m21", "Ts", "Tsc", "Te"},
		Epochs: func(p []float64) []Epoch {
			nu1a, nu2a, nu1, nu2 := p[0], p[1], p[2], p[3]
			m12, m21, Ts, Tsc, Te := p[4], p[5], p[6], p[7], p[8]
			isolation := Epoch{Duration: Ts, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a)}
			contact := Epoch{Duration: Tsc, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a), M12: m12, M21: m21}
			growth := Epoch{Duration: Te, Size1: grow(nu1, Te), Size2: grow(nu2, Te), M12: m12, M21: m21}
			return []Epoch{isolation, contact, isolation, contact, growth}
		},
	})

	register(ModelSpec{
		Name:        "PAM",
		Description: "two periods of ancient migration separated by isolation",
		Params:      []string{"nu1", "nu2", "m12", "m21", "Tam", "Ts"},
		Epochs: func(p []float64) []Epoch {
			nu1, nu2, m12, m21, Tam, Ts := p[0], p[1], p[2], p[3], p[4], p[5]
			migration := Epoch{Duration: Tam, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2), M12: m12, M21: m21}
			isolation := Epoch{Duration: Ts, Size1: ConstantSize(nu1), Size2: ConstantSize(nu2)}
			return []Epoch{migration, isolation, migration, isolation}
		},
	})

	register(ModelSpec{
		Name:        "PAMex",
		Description: "periodic ancient migration with exponential growth",
		Params:      []string{"nu1a", "nu2a", "nu1", "nu2", "m12", "m21", "Tam", "Ts", "Te"},
		Epochs: func(p []float64) []Epoch {
			nu1a, nu2a, nu1, nu2 := p[0], p[1], p[2], p[3]
			m12, m21, Tam, Ts, Te := p[4], p[5], p[6], p[7], p[8]
			migration := Epoch{Duration: Tam, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a), M12: m12, M21: m21}
			isolation := Epoch{Duration: Ts, Size1: ConstantSize(nu1a), Size2: ConstantSize(nu2a)}
			growth := Epoch{Duration: Te, Size1: grow(nu1, Te), Size2: grow(nu2, Te)}
			return []Epoch{migration, isolation, migration, isolation, growth}
		},
	})
}
