package efield

import "math"

// SpeedOfLight is the speed of light in vacuum, in m/s.
const SpeedOfLight = 299792458

// EpsilonNought is the vacuum permittivity ε0, in C²/(N·m²).
const EpsilonNought = 1 / (4 * math.Pi * 1e-7 * SpeedOfLight * SpeedOfLight)

// CoulombConstant is Coulomb's constant k = 1/(4π·ε0), in N·m²/C².
const CoulombConstant = 1 / (4 * math.Pi * EpsilonNought)
