package stats

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PowerLawFit holds the parameters of offset + amplitude * r^exponent.
type PowerLawFit struct {
	Offset    float64
	Amplitude float64
	Exponent  float64

	NumPoints  int     // entries used by the fit
	Iterations int     // accepted and rejected damping steps
	RSS        float64 // residual sum of squares
}

// Eval evaluates the fitted model at r. 0^exponent is taken as 0.
func (f PowerLawFit) Eval(r float64) float64 {
	return f.Offset + f.Amplitude*pow0(r, f.Exponent)
}

// DefaultPowerLawGuess is the Kolmogorov seed (0, 1, 5/3).
func DefaultPowerLawGuess() PowerLawFit {
	return PowerLawFit{Offset: 0, Amplitude: 1, Exponent: 5.0 / 3.0}
}

const (
	fitMaxIter   = 500
	fitXTol      = 1e-10
	fitLambda0   = 1e-3
	fitLambdaMax = 1e16
	fitDiagFloor = 1e-6
)

// FitPowerLaw fits offset + amplitude * r^exponent to the first numPoints
// entries of s by Levenberg-Marquardt, seeded with DefaultPowerLawGuess.
func FitPowerLaw(s *StructureResult, numPoints int) (*PowerLawFit, error) {
	return FitPowerLawFrom(s, numPoints, DefaultPowerLawGuess())
}

// FitPowerLawFrom is FitPowerLaw with an explicit starting point.
func FitPowerLawFrom(s *StructureResult, numPoints int, guess PowerLawFit) (*PowerLawFit, error) {
	if s == nil {
		return nil, errors.Wrap(ErrInsufficientData, "nil structure result")
	}
	if numPoints < 3 {
		return nil, errors.Wrapf(ErrInsufficientData, "%d points cannot determine 3 parameters", numPoints)
	}
	if numPoints > len(s.R) || numPoints > len(s.D) {
		return nil, errors.Wrapf(ErrInsufficientData, "%d points requested, %d available", numPoints, min(len(s.R), len(s.D)))
	}
	r := s.R[:numPoints]
	d := s.D[:numPoints]
	for k := range r {
		if !finite(r[k]) || !finite(d[k]) || r[k] < 0 {
			return nil, errors.Wrapf(ErrInsufficientData, "entry %d (r=%v, D=%v) cannot be fit", k, r[k], d[k])
		}
	}
	p := []float64{guess.Offset, guess.Amplitude, guess.Exponent}
	if !allFinite(p) {
		return nil, errors.Wrapf(ErrInvalidParameter, "non-finite initial guess %v", p)
	}

	m := &powerLawProblem{r: r, d: d}
	res := make([]float64, numPoints)
	sse := m.residuals(p, res)
	jac := mat.NewDense(numPoints, 3, nil)
	lambda := fitLambda0
	iter := 0

	// done accepts p, provided every parameter still moves the model there.
	done := func() (*PowerLawFit, error) {
		m.jacobian(p, jac)
		for i := 0; i < 3; i++ {
			if floats.Norm(mat.Col(nil, i, jac), 2) == 0 {
				return nil, errors.Wrapf(ErrFitConvergence, "parameter %d is undetermined by the data", i)
			}
		}
		return &PowerLawFit{
			Offset:     p[0],
			Amplitude:  p[1],
			Exponent:   p[2],
			NumPoints:  numPoints,
			Iterations: iter,
			RSS:        sse,
		}, nil
	}

	cand := make([]float64, 3)
	candRes := make([]float64, numPoints)
	for iter < fitMaxIter {
		if sse == 0 {
			return done()
		}
		m.jacobian(p, jac)

		var jtj mat.SymDense
		jtj.SymOuterK(1, jac.T())
		var grad mat.VecDense
		grad.MulVec(jac.T(), mat.NewVecDense(numPoints, res))

		// A column can vanish at the seed (amplitude 0 hides the exponent),
		// so its damping falls back to a fraction of the largest diagonal.
		floor := 0.0
		for i := 0; i < 3; i++ {
			floor = math.Max(floor, jtj.At(i, i))
		}
		floor *= fitDiagFloor

		improved := false
		for !improved {
			iter++
			if iter > fitMaxIter {
				break
			}

			damped := mat.NewSymDense(3, nil)
			damped.CopySym(&jtj)
			for i := 0; i < 3; i++ {
				jii := jtj.At(i, i)
				damped.SetSym(i, i, jii+lambda*math.Max(jii, floor))
			}

			var step mat.VecDense
			if err := step.SolveVec(damped, &grad); err != nil {
				if lambda *= 10; lambda > fitLambdaMax {
					return nil, errors.Wrapf(ErrFitConvergence, "singular normal equations: %v", err)
				}
				continue
			}

			for i := range cand {
				cand[i] = p[i] + step.AtVec(i)
			}
			candSSE := m.residuals(cand, candRes)
			if allFinite(cand) && finite(candSSE) && candSSE <= sse {
				stepNorm := floats.Norm(step.RawVector().Data, 2)
				converged := stepNorm <= fitXTol*(floats.Norm(p, 2)+fitXTol)

				copy(p, cand)
				copy(res, candRes)
				sse = candSSE
				lambda = math.Max(lambda/10, 1e-15)
				improved = true

				if converged {
					return done()
				}
				continue
			}

			if lambda *= 10; lambda > fitLambdaMax {
				// No step in any direction reduces the residual: p is a
				// stationary point to working precision.
				return done()
			}
		}
	}

	return nil, errors.Wrapf(ErrFitConvergence, "no convergence after %d iterations (rss %g)", fitMaxIter, sse)
}

type powerLawProblem struct {
	r, d []float64
}

// residuals fills res with d - model(p) and returns the sum of squares.
func (m *powerLawProblem) residuals(p, res []float64) float64 {
	sse := 0.0
	for k, rk := range m.r {
		res[k] = m.d[k] - (p[0] + p[1]*pow0(rk, p[2]))
		sse += res[k] * res[k]
	}
	return sse
}

// jacobian fills jac with the model derivatives with respect to p.
func (m *powerLawProblem) jacobian(p []float64, jac *mat.Dense) {
	for k, rk := range m.r {
		rp := pow0(rk, p[2])
		jac.Set(k, 0, 1)
		jac.Set(k, 1, rp)
		if rk > 0 {
			jac.Set(k, 2, p[1]*rp*math.Log(rk))
		} else {
			jac.Set(k, 2, 0)
		}
	}
}

func pow0(r, e float64) float64 {
	if r == 0 {
		return 0
	}
	return math.Pow(r, e)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if !finite(v) {
			return false
		}
	}
	return true
}
