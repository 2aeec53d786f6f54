package server

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/chainsight-io/chainsight/pkg/archive"
	"github.com/chainsight-io/chainsight/pkg/baseline"
	"github.com/chainsight-io/chainsight/pkg/dataio"
	"github.com/chainsight-io/chainsight/pkg/logging"
	"github.com/chainsight-io/chainsight/pkg/model"
	"github.com/chainsight-io/chainsight/pkg/pipeline"
	"github.com/chainsight-io/chainsight/pkg/session"
	"github.com/chainsight-io/chainsight/pkg/simulation"
)

// handleCreateSession allocates a session and sets the cookie.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.ID,
		"created_at": sess.CreatedAt.Format(time.RFC3339),
	})
}

// handleAnalyze accepts a multipart upload of the input CSVs and runs the
// full pipeline. Form fields: suppliers, dependencies, product_bom, and
// optionally country_risk overriding the built-in baseline.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse upload: %v", err))
		return
	}

	in, err := s.readInputs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := s.sessions.Build(r.Context(), sess.ID, *in, pipeline.Options{Logger: s.log})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.log.Info("analysis uploaded",
		logging.Field{Key: "session_id", Value: sess.ID},
		logging.Field{Key: "suppliers", Value: run.Graph().NodeCount()},
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"suppliers":       run.Graph().NodeCount(),
		"dependencies":    run.Graph().EdgeCount(),
		"spofs":           run.SPOFs().Count(),
		"category_counts": run.CategoryCounts(),
	})
}

// readInputs parses the uploaded CSV files and merges country overrides over
// the embedded baseline.
func (s *Server) readInputs(r *http.Request) (*pipeline.Inputs, error) {
	suppliersFile, err := formFile(r, "suppliers")
	if err != nil {
		return nil, err
	}
	defer suppliersFile.Close()
	suppliers, err := dataio.ReadSuppliers(suppliersFile)
	if err != nil {
		return nil, err
	}

	depsFile, err := formFile(r, "dependencies")
	if err != nil {
		return nil, err
	}
	defer depsFile.Close()
	deps, err := dataio.ReadDependencies(depsFile)
	if err != nil {
		return nil, err
	}

	bomFile, err := formFile(r, "product_bom")
	if err != nil {
		return nil, err
	}
	defer bomFile.Close()
	products, err := dataio.ReadProducts(bomFile)
	if err != nil {
		return nil, err
	}

	base, err := baseline.Load()
	if err != nil {
		return nil, err
	}
	var overrides []model.CountryRisk
	if f, _, err := r.FormFile("country_risk"); err == nil {
		defer f.Close()
		if overrides, err = dataio.ReadCountryRisk(f); err != nil {
			return nil, err
		}
	}

	return &pipeline.Inputs{
		Suppliers:    suppliers,
		Dependencies: deps,
		Countries:    baseline.Merge(base, overrides),
		Products:     products,
	}, nil
}

func formFile(r *http.Request, field string) (multipart.File, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing upload field %q", field)
	}
	return f, nil
}

func (s *Server) handleSuppliers(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	writeJSON(w, http.StatusOK, run.Reports())
}

func (s *Server) handleSupplier(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	report, err := run.Report(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHidden(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	writeJSON(w, http.StatusOK, run.Propagated().HiddenVulnerabilities())
}

func (s *Server) handleIncreases(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	writeJSON(w, http.StatusOK, run.Propagated().TopIncreases(queryInt(r, "limit", 10)))
}

func (s *Server) handleSPOFs(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	writeJSON(w, http.StatusOK, run.SPOFs().Impacts())
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	writeJSON(w, http.StatusOK, run.TopCritical(queryInt(r, "limit", run.Graph().NodeCount())))
}

func (s *Server) handlePareto(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	writeJSON(w, http.StatusOK, run.Pareto())
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	writeJSON(w, http.StatusOK, run.Recommendations())
}

func (s *Server) handleRegional(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	writeJSON(w, http.StatusOK, run.Regional())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	writeJSON(w, http.StatusOK, run.Summary())
}

// handleSimulate runs one Monte Carlo simulation against the session's run.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	var params simulation.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}
	result, err := run.Simulate(params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleExport streams the run as a compressed snapshot. The inputs are not
// retained server-side, so the export carries the derived tables only.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, run *pipeline.Run) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="chainsight-run.snappy"`)
	if err := archive.Export(w, run, pipeline.Inputs{}); err != nil {
		s.log.Error("export failed", logging.Field{Key: "error", Value: err.Error()})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
