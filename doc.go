// Package linregg is a linear regression toolkit for Go built on gonum.
//
// A single linear.Model holds the design matrix and the response; every
// estimator reads it:
//
//   - ordinary least squares with residuals, RSS and variance estimate
//   - z/t significance tests, best subset selection and nested F-tests
//   - ridge regression
//   - regression by successive orthogonalization (Gram-Schmidt, QR)
//   - fixed-step least angle regression and its lasso variant
//   - principal component regression
//   - partial least squares
//   - incremental forward stagewise regression
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/linregg/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
//	    y := mat.NewVecDense(5, []float64{5, 8, 11, 14, 17})
//
//	    model, err := linear.New(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    coef, err := model.Solve()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(coef)) // [2; 3]
//	}
//
// # Packages
//
//   - linear: the Model and every estimator
//   - preprocessing: StandardScaler used by Model.Standardize
//   - metrics: RSS, MSE, RMSE, MAE, R²
//   - core/model: fitted-state base type and transformer interfaces
//   - core/parallel: fan-out over independent response columns
//   - pkg/errors: structured errors, warnings and panic recovery
//   - pkg/log: structured logging over zerolog or log/slog
//
// # Multiple outputs
//
// An N×K response is fitted column by column. LAR, PCR, PLS and stagewise
// accept linear.WithParallel(true) to fit the columns concurrently.
package linregg
