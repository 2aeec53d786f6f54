// Package archive serializes an analysis run to a snappy-compressed JSON
// snapshot and back. A snapshot carries both the raw inputs, so the run can
// be rebuilt bit-identically, and the derived report tables, so archived
// results stay readable without re-running the pipeline.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/golang/snappy"

	"github.com/chainsight-io/chainsight/pkg/pipeline"
	"github.com/chainsight-io/chainsight/pkg/recommend"
	"github.com/chainsight-io/chainsight/pkg/risk"
	"github.com/chainsight-io/chainsight/pkg/simulation"
)

// snapshotVersion guards against decoding snapshots written by an
// incompatible build.
const snapshotVersion = 1

// Snapshot is one archived run.
type Snapshot struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	Inputs pipeline.Inputs `json:"inputs"`

	Reports         []*pipeline.SupplierReport  `json:"reports"`
	Ranking         []simulation.CriticalityRow `json:"ranking"`
	SPOFImpacts     []*risk.SPOFImpact          `json:"spof_impacts"`
	Recommendations []recommend.Recommendation  `json:"recommendations"`
	Summary         recommend.ExecutiveSummary  `json:"summary"`
}

// Export writes the run plus its inputs as a compressed snapshot.
func Export(w io.Writer, run *pipeline.Run, in pipeline.Inputs) error {
	snap := Snapshot{
		Version:   snapshotVersion,
		CreatedAt: run.BuiltAt(),
		Inputs:    in,

		Reports:         run.Reports(),
		Ranking:         run.Ranking(),
		SPOFImpacts:     run.SPOFs().Impacts(),
		Recommendations: run.Recommendations(),
		Summary:         run.Summary(),
	}

	return exportSnapshot(w, &snap)
}

func exportSnapshot(w io.Writer, snap *Snapshot) error {
	zw := snappy.NewBufferedWriter(w)
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// Import decodes a compressed snapshot.
func Import(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(snappy.NewReader(r)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d not supported (want %d)", snap.Version, snapshotVersion)
	}
	return &snap, nil
}

// Rebuild re-runs the pipeline over the archived inputs. The scoring is
// deterministic, so the rebuilt run matches the archived report tables.
func Rebuild(snap *Snapshot, opts pipeline.Options) (*pipeline.Run, error) {
	return pipeline.New(snap.Inputs, opts)
}
