package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"

	"winesense/app"
	"winesense/domain/wine"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubScaler passes rows through unscaled; name order matches the form
type stubScaler struct{}

func (stubScaler) FeatureNames() []string {
	specs := wine.FieldSpecs()
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

func (stubScaler) Transform(row []float64) ([]float64, error) {
	return row, nil
}

// stubClassifier calls anything with alcohol above 10.5 good
type stubClassifier struct{}

func (stubClassifier) Classes() []string { return []string{"not_good", "good"} }

func (stubClassifier) FeatureImportances() []float64 {
	return []float64{0.04, 0.18, 0.07, 0.01, 0.05, 0.01, 0.09, 0.08, 0.04, 0.15, 0.28}
}

func (c stubClassifier) PredictProba(row []float64) ([]float64, error) {
	if row[10] > 10.5 {
		return []float64{0.25, 0.75}, nil
	}
	return []float64{0.8, 0.2}, nil
}

func (c stubClassifier) Predict(row []float64) (string, error) {
	probs, _ := c.PredictProba(row)
	if probs[1] > probs[0] {
		return "good", nil
	}
	return "not_good", nil
}

// memoryHistory is an in-memory PredictionRepository
type memoryHistory struct {
	records []wine.PredictionRecord
}

func (m *memoryHistory) Save(_ context.Context, record *wine.PredictionRecord) error {
	m.records = append([]wine.PredictionRecord{*record}, m.records...)
	return nil
}

func (m *memoryHistory) ListRecent(_ context.Context, limit int) ([]wine.PredictionRecord, error) {
	if limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[:limit], nil
}

func (m *memoryHistory) Count(_ context.Context) (int, error) {
	return len(m.records), nil
}

func newTestServer(t *testing.T, history *memoryHistory) *Server {
	t.Helper()

	server := NewServer(os.DirFS(".."))
	service := app.NewInferenceService(stubScaler{}, stubClassifier{})

	var err error
	if history != nil {
		err = server.Initialize(service, history, "../docs/model_card.md")
	} else {
		err = server.Initialize(service, nil, "../docs/model_card.md")
	}
	require.NoError(t, err)
	return server
}

func strconvFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func get(server *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	server.Router().ServeHTTP(w, req)
	return w
}

func TestIndexRendersForm(t *testing.T) {
	server := newTestServer(t, nil)

	w := get(server, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Red Wine Quality Predictor")
	assert.Contains(t, body, `name="fixed_acidity"`)
	assert.Contains(t, body, `name="alcohol"`)
	// Importance chart is on the page, biggest driver first
	assert.Contains(t, body, "alcohol")
}

func TestIndexPresetOverwritesAllValues(t *testing.T) {
	server := newTestServer(t, nil)

	w := get(server, "/?preset=good_example")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="11.4"`, "good example alcohol")
	assert.Contains(t, body, `value="6.6"`, "good example fixed acidity")
}

func TestPredictFormFlow(t *testing.T) {
	history := &memoryHistory{}
	server := newTestServer(t, history)

	form := url.Values{}
	for _, spec := range wine.FieldSpecs() {
		v, _ := wine.GoodExampleSample().ValueByName(spec.Name)
		form.Set(spec.Param, strconvFloat(v))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Prediction Result")
	assert.Contains(t, body, "GOOD")
	assert.Contains(t, body, "75.00%")

	require.Len(t, history.records, 1, "prediction should be recorded")
	assert.Equal(t, wine.LabelGood, history.records[0].Label)
}

func TestAPIPredict(t *testing.T) {
	server := newTestServer(t, nil)

	payload, err := json.Marshal(wine.DefaultSample())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var prediction wine.Prediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prediction))
	assert.Equal(t, wine.LabelNotGood, prediction.Label)
	assert.InDelta(t, 1.0, prediction.PGood+prediction.PNotGood, 1e-9)
}

func TestAPIPredictRejectsGarbage(t *testing.T) {
	server := newTestServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIImportancesSorted(t *testing.T) {
	server := newTestServer(t, nil)

	w := get(server, "/api/importances")
	require.Equal(t, http.StatusOK, w.Code)

	var ranked []wine.FeatureImportance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranked))
	require.Len(t, ranked, wine.FeatureCount)
	assert.Equal(t, wine.Alcohol, ranked[0].Feature)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestAPIPresets(t *testing.T) {
	server := newTestServer(t, nil)

	w := get(server, "/api/presets")
	require.Equal(t, http.StatusOK, w.Code)

	var presets map[string]wine.Sample
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &presets))
	assert.Equal(t, wine.GoodExampleSample(), presets["good_example"])
	assert.Equal(t, wine.DefaultSample(), presets["default"])
}

func TestHistoryPageDisabledWithoutRepository(t *testing.T) {
	server := newTestServer(t, nil)

	w := get(server, "/history")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "History is not enabled")
}

func TestHistoryPageListsRecords(t *testing.T) {
	history := &memoryHistory{}
	require.NoError(t, history.Save(context.Background(), &wine.PredictionRecord{
		Sample: wine.GoodExampleSample(),
		Label:  wine.LabelGood,
		PGood:  0.69, PNotGood: 0.31,
	}))
	server := newTestServer(t, history)

	w := get(server, "/history")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "GOOD")
	assert.Contains(t, body, "69.00%")
}

func TestHistoryExportIsWorkbook(t *testing.T) {
	history := &memoryHistory{}
	require.NoError(t, history.Save(context.Background(), &wine.PredictionRecord{
		Sample: wine.DefaultSample(),
		Label:  wine.LabelNotGood,
		PGood:  0.2, PNotGood: 0.8,
	}))
	server := newTestServer(t, history)

	w := get(server, "/history/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Predictions")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, nil)

	w := get(server, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
