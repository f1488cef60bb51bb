// Package log defines standard attribute keys for regression fitting.
//
// Using these keys keeps log records from every estimator comparable:
// the same dataset shape, operation name and hyperparameters appear under
// the same field names regardless of which estimator produced the record.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the component emitting the record.
	// Examples: "Model", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the estimator or step being performed.
	// Standard values are the Operation* constants below.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "linear", "preprocessing"
	ComponentKey = "ml.component"
)

// Data Shape
const (
	// SamplesKey is the observation count N.
	SamplesKey = "data.samples"

	// FeaturesKey is the predictor count p (intercept excluded).
	FeaturesKey = "data.features"

	// TargetsKey is the response column count K.
	TargetsKey = "data.targets"
)

// Fitting progress and results
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// IterationKey records the step count of an iterative estimator.
	IterationKey = "training.iteration"

	// OutputKey identifies the response column an iterative estimator is working on.
	OutputKey = "training.output"

	// RSSKey records a residual sum of squares.
	RSSKey = "metrics.rss"

	// ActiveSizeKey records the size of the LAR active set.
	ActiveSizeKey = "lar.active_size"

	// RemovedIndexKey records a predictor dropped from the lasso active set.
	RemovedIndexKey = "lar.removed_index"
)

// Hyperparameters
const (
	// RegularizationKey records the ridge penalty.
	RegularizationKey = "hyperparams.regularization"

	// StepSizeKey records the fixed step of LAR and forward stagewise.
	StepSizeKey = "hyperparams.step"

	// ComponentsKey records the number of PCR/PLS directions used.
	ComponentsKey = "hyperparams.components"
)

// Error context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute values for the ml.operation key.
const (
	OperationConstruct    = "construct"
	OperationStandardize  = "standardize"
	OperationSolve        = "ols"
	OperationSignificance = "significance"
	OperationFTest        = "f_test"
	OperationRidge        = "ridge"
	OperationOrthogonal   = "orthogonalize"
	OperationLAR          = "lar"
	OperationLasso        = "lar_lasso"
	OperationPCR          = "pcr"
	OperationPLS          = "pls"
	OperationStagewise    = "stagewise"
	OperationPredict      = "predict"
)
