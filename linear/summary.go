package linear

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/linregg/metrics"
	"github.com/YuminosukeSato/linregg/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Summary holds the per-coefficient statistics of the OLS fit for one
// response column.
type Summary struct {
	Names   []string
	Coef    []float64
	StdErr  []float64
	Scores  []float64
	PValues []float64 // two-sided

	Samples  int
	DF       int
	Variance float64
	RSS      float64
	StudentT bool

	// in-sample fit quality of the selected response column; R2 is NaN
	// for a constant response
	R2   float64
	RMSE float64
	MAE  float64

	Output int
}

// Summary computes estimates, standard errors, scores and two-sided
// p-values for every coefficient. The options select the variance, the
// reference distribution and the response column.
func (m *Model) Summary(opts ...TestOption) (sum *Summary, err error) {
	defer errors.Recover(&err, "Model.Summary")

	cfg := newTestConfig(opts)
	if err := m.checkOutput(cfg.output); err != nil {
		return nil, err
	}
	fit, err := m.fitOLS()
	if err != nil {
		return nil, err
	}
	v, err := m.testVariance(cfg)
	if err != nil {
		return nil, err
	}
	dist, err := m.scoreDistribution(cfg)
	if err != nil {
		return nil, err
	}

	sum = &Summary{
		Samples:  m.n,
		DF:       m.n - m.p - 1,
		Variance: v,
		RSS:      fit.rss,
		StudentT: cfg.studentT,
		Output:   cfg.output,
	}
	y := m.y.ColView(cfg.output)
	var fitted mat.VecDense
	fitted.SubVec(y, fit.resid.ColView(cfg.output))
	if sum.RMSE, err = metrics.RMSE(y, &fitted); err != nil {
		return nil, err
	}
	if sum.MAE, err = metrics.MAE(y, &fitted); err != nil {
		return nil, err
	}
	sum.R2 = math.NaN()
	if r2, r2Err := metrics.R2Score(y, &fitted); r2Err == nil {
		sum.R2 = r2
	}

	for j := 0; j <= m.p; j++ {
		name := fmt.Sprintf("x%d", j)
		if j == 0 {
			name = "intercept"
		}
		est := fit.coef.At(j, cfg.output)
		se := math.Sqrt(v * fit.xtxInv.At(j, j))
		z := est / se

		sum.Names = append(sum.Names, name)
		sum.Coef = append(sum.Coef, est)
		sum.StdErr = append(sum.StdErr, se)
		sum.Scores = append(sum.Scores, z)
		sum.PValues = append(sum.PValues, math.Min(1, 2*dist.Survival(math.Abs(z))))
	}
	return sum, nil
}

// String renders the summary as a fixed-width table.
func (s *Summary) String() string {
	const tw = 72
	w := []int{10, 14, 14, 14, 14}

	score := "Z-Score"
	if s.StudentT {
		score = "T-Score"
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Repeat("=", tw) + "\n")
	fmt.Fprintf(&buf, "%-22s%14d    %-18s%14d\n", "Observations:", s.Samples, "Residual DF:", s.DF)
	fmt.Fprintf(&buf, "%-22s%14.6g    %-18s%14.6g\n", "RSS:", s.RSS, "Variance:", s.Variance)
	fmt.Fprintf(&buf, "%-22s%14.6g    %-18s%14.6g\n", "R-squared:", s.R2, "RMSE:", s.RMSE)
	fmt.Fprintf(&buf, "%-22s%14.6g\n", "MAE:", s.MAE)
	buf.WriteString(strings.Repeat("-", tw) + "\n")

	fmt.Fprintf(&buf, "%-*s%*s%*s%*s%*s\n",
		w[0], "Variable", w[1], "Coefficient", w[2], "StdErr", w[3], score, w[4], "P-Value")
	buf.WriteString(strings.Repeat("-", tw) + "\n")

	for j, name := range s.Names {
		fmt.Fprintf(&buf, "%-*s%*.6f%*.6f%*.4f%*.4f\n",
			w[0], name, w[1], s.Coef[j], w[2], s.StdErr[j], w[3], s.Scores[j], w[4], s.PValues[j])
	}
	buf.WriteString(strings.Repeat("-", tw) + "\n")

	return buf.String()
}
