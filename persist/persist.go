// Package persist serializes an SQP driver's configuration (option values
// plus the two sparsity patterns) to and from YAML, following the
// yaml-tagged struct style of curioloop-optimizer's pack-mate
// armadaproject-armada (internal/common/logging/config.go). Struct field
// order is the wire-format order the spec requires; do not reorder fields
// without treating it as a format change.
package persist

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/curioloop/sqpcore/config"
	"github.com/curioloop/sqpcore/sparse"
)

// SchemaName and SchemaVersion identify the wire format, matching the
// spec's "Sqpmethod v1" label.
const (
	SchemaName    = "Sqpmethod"
	SchemaVersion = 1
)

// patternDoc is the serializable form of sparse.Pattern; ColPtr/RowIdx are
// omitted for dense patterns since they carry no information there.
type patternDoc struct {
	Rows   int   `yaml:"rows"`
	Cols   int   `yaml:"cols"`
	Dense  bool  `yaml:"dense"`
	ColPtr []int `yaml:"col_ptr,omitempty"`
	RowIdx []int `yaml:"row_idx,omitempty"`
}

func toDoc(p sparse.Pattern) patternDoc {
	return patternDoc{Rows: p.Rows, Cols: p.Cols, Dense: p.Dense, ColPtr: p.ColPtr, RowIdx: p.RowIdx}
}

func fromDoc(d patternDoc) sparse.Pattern {
	return sparse.Pattern{Rows: d.Rows, Cols: d.Cols, Dense: d.Dense, ColPtr: d.ColPtr, RowIdx: d.RowIdx}
}

// document is the wire format: schema identity, the QP subsolver
// descriptor, every option value, and the two sparsity patterns, in this
// exact field order.
type document struct {
	Schema  string `yaml:"schema"`
	Version int    `yaml:"version"`

	QPSol        string         `yaml:"qpsol"`
	QPSolOptions map[string]any `yaml:"qpsol_options"`

	HessianApproximation string `yaml:"hessian_approximation"`

	MaxIter   int `yaml:"max_iter"`
	MinIter   int `yaml:"min_iter"`
	MaxIterLS int `yaml:"max_iter_ls"`

	TolPr float64 `yaml:"tol_pr"`
	TolDu float64 `yaml:"tol_du"`

	C1   float64 `yaml:"c1"`
	Beta float64 `yaml:"beta"`

	MeritMemory int `yaml:"merit_memory"`
	LBFGSMemory int `yaml:"lbfgs_memory"`

	Regularize bool `yaml:"regularize"`

	PrintHeader    bool `yaml:"print_header"`
	PrintIteration bool `yaml:"print_iteration"`
	PrintStatus    bool `yaml:"print_status"`

	MinStepSize float64 `yaml:"min_step_size"`

	Hsp patternDoc `yaml:"hsp"`
	Asp patternDoc `yaml:"asp"`
}

// Marshal serializes opts and the two sparsity patterns into the
// persisted-state YAML document.
func Marshal(opts config.Options, hsp, asp sparse.Pattern) ([]byte, error) {
	doc := document{
		Schema:               SchemaName,
		Version:              SchemaVersion,
		QPSol:                opts.QPSol,
		QPSolOptions:         map[string]any(opts.QPSolOptions),
		HessianApproximation: opts.HessianApproximation.String(),
		MaxIter:              opts.MaxIter,
		MinIter:              opts.MinIter,
		MaxIterLS:            opts.MaxIterLS,
		TolPr:                opts.TolPr,
		TolDu:                opts.TolDu,
		C1:                   opts.C1,
		Beta:                 opts.Beta,
		MeritMemory:          opts.MeritMemory,
		LBFGSMemory:          opts.LBFGSMemory,
		Regularize:           opts.Regularize,
		PrintHeader:          opts.PrintHeader,
		PrintIteration:       opts.PrintIteration,
		PrintStatus:          opts.PrintStatus,
		MinStepSize:          opts.MinStepSize,
		Hsp:                  toDoc(hsp),
		Asp:                  toDoc(asp),
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "persist: marshal")
	}
	return out, nil
}

// Unmarshal parses a persisted-state YAML document back into an Options
// value and the two sparsity patterns. It rejects documents with a schema
// name or version it does not recognize.
func Unmarshal(data []byte) (config.Options, sparse.Pattern, sparse.Pattern, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return config.Options{}, sparse.Pattern{}, sparse.Pattern{}, errors.Wrap(err, "persist: unmarshal")
	}
	if doc.Schema != SchemaName {
		return config.Options{}, sparse.Pattern{}, sparse.Pattern{}, errors.Errorf("persist: unknown schema %q", doc.Schema)
	}
	if doc.Version != SchemaVersion {
		return config.Options{}, sparse.Pattern{}, sparse.Pattern{}, errors.Errorf("persist: unsupported schema version %d", doc.Version)
	}

	hessian := config.HessianExact
	if doc.HessianApproximation == "limited-memory" {
		hessian = config.HessianLimitedMemory
	}

	opts := config.Options{
		QPSol:                 doc.QPSol,
		QPSolOptions:          doc.QPSolOptions,
		HessianApproximation:  hessian,
		MaxIter:               doc.MaxIter,
		MinIter:               doc.MinIter,
		MaxIterLS:             doc.MaxIterLS,
		TolPr:                 doc.TolPr,
		TolDu:                 doc.TolDu,
		C1:                    doc.C1,
		Beta:                  doc.Beta,
		MeritMemory:           doc.MeritMemory,
		LBFGSMemory:           doc.LBFGSMemory,
		Regularize:            doc.Regularize,
		PrintHeader:           doc.PrintHeader,
		PrintIteration:        doc.PrintIteration,
		PrintStatus:           doc.PrintStatus,
		MinStepSize:           doc.MinStepSize,
	}
	return opts, fromDoc(doc.Hsp), fromDoc(doc.Asp), nil
}
