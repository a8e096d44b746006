package ui

import (
	"bytes"
	"net/http"
	"os"

	"winesense/domain/wine"
	"winesense/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"
)

// fieldView is one slider on the form: its spec plus the current value
type fieldView struct {
	wine.FieldSpec
	Value float64
}

// importanceBar is one bar of the feature-importance chart. Width is
// scaled relative to the largest score so the top bar fills the chart.
type importanceBar struct {
	Feature string
	Score   float64
	Width   float64
}

// resultView is the rendered verdict block
type resultView struct {
	Label    wine.Label
	Display  string
	IsGood   bool
	PGood    float64
	PNotGood float64
}

type indexData struct {
	Fields         []fieldView
	Preset         string
	Importances    []importanceBar
	Result         *resultView
	Error          string
	HistoryEnabled bool
}

// handleIndex renders the prediction form. An optional ?preset= query
// overwrites all eleven values with one of the literal example sets.
func (s *Server) handleIndex(c *gin.Context) {
	sample := wine.DefaultSample()
	preset := c.Query("preset")
	if p, ok := wine.Presets()[preset]; ok {
		sample = p
	} else {
		preset = "default"
	}

	s.renderTemplate(c, "index.html", indexData{
		Fields:         fieldViews(sample),
		Preset:         preset,
		Importances:    s.importanceBars(),
		HistoryEnabled: s.history != nil,
	})
}

// handlePredict handles the form submission and renders the verdict
func (s *Server) handlePredict(c *gin.Context) {
	var sample wine.Sample
	if err := c.ShouldBind(&sample); err != nil {
		c.Status(http.StatusBadRequest)
		s.renderTemplate(c, "index.html", indexData{
			Fields:         fieldViews(wine.DefaultSample()),
			Importances:    s.importanceBars(),
			Error:          "form values could not be parsed",
			HistoryEnabled: s.history != nil,
		})
		return
	}

	prediction, err := s.service.Predict(c.Request.Context(), sample)
	if err != nil {
		s.logger.Error("prediction failed: %v", err)
		status := http.StatusInternalServerError
		if errors.HasCode(err, errors.CodeScalingError) {
			status = http.StatusBadRequest
		}
		c.Status(status)
		s.renderTemplate(c, "index.html", indexData{
			Fields:         fieldViews(sample),
			Importances:    s.importanceBars(),
			Error:          err.Error(),
			HistoryEnabled: s.history != nil,
		})
		return
	}

	s.recordPrediction(c, sample, prediction)

	s.renderTemplate(c, "index.html", indexData{
		Fields:      fieldViews(sample),
		Importances: s.importanceBars(),
		Result: &resultView{
			Label:    prediction.Label,
			Display:  prediction.Label.Display(),
			IsGood:   prediction.Label == wine.LabelGood,
			PGood:    prediction.PGood,
			PNotGood: prediction.PNotGood,
		},
		HistoryEnabled: s.history != nil,
	})
}

// recordPrediction appends to history when persistence is configured.
// A storage failure is logged, never surfaced: the verdict already
// exists and history is a convenience.
func (s *Server) recordPrediction(c *gin.Context, sample wine.Sample, prediction *wine.Prediction) {
	if s.history == nil {
		return
	}
	record := &wine.PredictionRecord{
		Sample:   sample,
		Label:    prediction.Label,
		PGood:    prediction.PGood,
		PNotGood: prediction.PNotGood,
	}
	if err := s.history.Save(c.Request.Context(), record); err != nil {
		s.logger.Warn("failed to record prediction: %v", err)
	}
}

type historySummary struct {
	Total     int
	GoodCount int
	GoodShare float64
	AvgPGood  float64
}

type historyData struct {
	Enabled bool
	Records []wine.PredictionRecord
	Summary historySummary
}

// handleHistory renders recent predictions with summary statistics
func (s *Server) handleHistory(c *gin.Context) {
	if s.history == nil {
		s.renderTemplate(c, "history.html", historyData{Enabled: false})
		return
	}

	records, err := s.history.ListRecent(c.Request.Context(), 50)
	if err != nil {
		s.logger.Error("failed to load history: %v", err)
		c.String(http.StatusInternalServerError, "failed to load history")
		return
	}

	summary := historySummary{Total: len(records)}
	if len(records) > 0 {
		pGoods := make([]float64, len(records))
		for i, r := range records {
			pGoods[i] = r.PGood
			if r.Label == wine.LabelGood {
				summary.GoodCount++
			}
		}
		summary.GoodShare = float64(summary.GoodCount) / float64(len(records))
		if mean, err := stats.Mean(pGoods); err == nil {
			summary.AvgPGood = mean
		}
	}

	s.renderTemplate(c, "history.html", historyData{
		Enabled: true,
		Records: records,
		Summary: summary,
	})
}

// handleHistoryExport streams recorded predictions as a workbook
func (s *Server) handleHistoryExport(c *gin.Context) {
	if s.history == nil {
		c.String(http.StatusNotFound, "history is not enabled")
		return
	}

	records, err := s.history.ListRecent(c.Request.Context(), 1000)
	if err != nil {
		s.logger.Error("failed to load history for export: %v", err)
		c.String(http.StatusInternalServerError, "failed to load history")
		return
	}

	var buf bytes.Buffer
	if err := s.exporter.Export(records, &buf); err != nil {
		s.logger.Error("export failed: %v", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+excelFilename(len(records)))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// handleAbout renders the model card
func (s *Server) handleAbout(c *gin.Context) {
	raw, err := os.ReadFile(s.modelCardPath)
	if err != nil {
		s.logger.Warn("model card unavailable: %v", err)
		c.String(http.StatusNotFound, "model card unavailable")
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	rendered := markdown.ToHTML(raw, p, renderer)

	s.renderTemplate(c, "about.html", gin.H{
		"Content": templateHTML(rendered),
	})
}

// handleHealth reports readiness: the service only exists if both
// artifacts loaded at startup.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAPIPredict is the JSON twin of the form handler
func (s *Server) handleAPIPredict(c *gin.Context) {
	var sample wine.Sample
	if err := c.ShouldBindJSON(&sample); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": errors.CodeInvalidInput})
		return
	}

	prediction, err := s.service.Predict(c.Request.Context(), sample)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.HasCode(err, errors.CodeScalingError) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}

	s.recordPrediction(c, sample, prediction)
	c.JSON(http.StatusOK, prediction)
}

// handleAPIImportances returns the ranked feature importances
func (s *Server) handleAPIImportances(c *gin.Context) {
	ranked, err := s.service.RankedFeatureImportances()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, ranked)
}

// handleAPIPresets returns the literal preset sample sets
func (s *Server) handleAPIPresets(c *gin.Context) {
	c.JSON(http.StatusOK, wine.Presets())
}

func fieldViews(sample wine.Sample) []fieldView {
	specs := wine.FieldSpecs()
	views := make([]fieldView, len(specs))
	for i, spec := range specs {
		v, _ := sample.ValueByName(spec.Name)
		views[i] = fieldView{FieldSpec: spec, Value: v}
	}
	return views
}

// importanceBars computes the static chart data. Recomputed per render;
// the ranking is cheap and the underlying scores never change.
func (s *Server) importanceBars() []importanceBar {
	ranked, err := s.service.RankedFeatureImportances()
	if err != nil {
		s.logger.Warn("feature importances unavailable: %v", err)
		return nil
	}
	if len(ranked) == 0 {
		return nil
	}

	max := ranked[0].Score
	bars := make([]importanceBar, len(ranked))
	for i, fi := range ranked {
		width := 0.0
		if max > 0 {
			width = fi.Score / max * 100
		}
		bars[i] = importanceBar{Feature: fi.Feature, Score: fi.Score, Width: width}
	}
	return bars
}
