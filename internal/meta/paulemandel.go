package meta

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/go-taxago/taxago/internal/xerrors"
)

var errSingularSigma = errors.New("singular covariance matrix during Paule-Mandel estimation")

// Result is one term/group's pooled meta-analysis outcome, per spec.md
// §3 MetaResult.
type Result struct {
	Tau2    float64
	Beta    float64
	BetaVar float64
	Q       float64
	I2      float64
}

// Fit pools effect sizes y with within-study variances v under the
// random-effects model of spec.md §4.D, estimating τ² by Paule-Mandel
// bisection and reporting the generalized Q statistic and I²
// heterogeneity diagnostic.
func Fit(y, v []float64, vcv *mat.SymDense, tolerance float64, maxIter int) (Result, error) {
	n := len(y)
	if n == 1 {
		// Spec.md §8: a single-taxon group has no heterogeneity to
		// estimate; β̂ is the lone observation and its variance is v1.
		return Result{Beta: y[0], BetaVar: v[0]}, nil
	}

	eval := func(tau2 float64) (beta, betaVar, q float64, err error) {
		sigma := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				val := tau2 * vcv.At(i, j)
				if i == j {
					val += v[i]
				}
				sigma.SetSym(i, j, val)
			}
		}
		var chol mat.Cholesky
		if ok := chol.Factorize(sigma); !ok {
			return 0, 0, 0, xerrors.New(xerrors.NumericFailure, "paule_mandel", errSingularSigma)
		}
		var inv mat.SymDense
		if err := chol.InverseTo(&inv); err != nil {
			return 0, 0, 0, xerrors.New(xerrors.NumericFailure, "paule_mandel", err)
		}

		ones := make([]float64, n)
		for i := range ones {
			ones[i] = 1
		}
		onesVec := mat.NewVecDense(n, ones)
		yVec := mat.NewVecDense(n, append([]float64(nil), y...))

		var w mat.VecDense
		w.MulVec(&inv, onesVec)
		denom := mat.Dot(onesVec, &w)
		numer := mat.Dot(&w, yVec)
		beta = numer / denom
		betaVar = 1 / denom

		resid := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			resid.SetVec(i, y[i]-beta)
		}
		var tmp mat.VecDense
		tmp.MulVec(&inv, resid)
		q = mat.Dot(resid, &tmp)
		return beta, betaVar, q, nil
	}

	beta0, betaVar0, q0, err := eval(0)
	if err != nil {
		return Result{}, err
	}
	df := float64(n - 1)

	var tau2 float64
	beta, betaVar, q := beta0, betaVar0, q0
	if q0 > df {
		tau2, beta, betaVar, q, err = bisectTau(eval, df, tolerance, maxIter)
		if err != nil {
			return Result{}, err
		}
	}

	i2 := 0.0
	if q > 0 {
		i2 = math.Max(0, (q-df)/q)
	}
	return Result{Tau2: tau2, Beta: beta, BetaVar: betaVar, Q: q, I2: i2}, nil
}

type evalFunc func(tau2 float64) (beta, betaVar, q float64, err error)

// bisectTau finds τ² >= 0 such that Q(τ²) = df, using bisection:
// Q is monotone non-increasing in τ² (more random-effects variance
// always shrinks the weighted residual sum of squares), per spec.md
// §4.D step 4.
func bisectTau(eval evalFunc, df, tolerance float64, maxIter int) (tau2, beta, betaVar, q float64, err error) {
	lo, hi := 0.0, 1.0
	for iter := 0; iter < maxIter; iter++ {
		_, _, qHi, err := eval(hi)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		if qHi-df < 0 {
			break
		}
		hi *= 2
	}

	for iter := 0; iter < maxIter; iter++ {
		mid := (lo + hi) / 2
		_, _, qm, err := eval(mid)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		if qm-df > 0 {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < tolerance {
			break
		}
	}

	tau2 = (lo + hi) / 2
	beta, betaVar, q, err = eval(tau2)
	return tau2, beta, betaVar, q, err
}
