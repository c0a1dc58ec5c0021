package configs

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	viper.Reset()
	t.Setenv("APP_PREDICTION_SERVICE_ADDR", "http://predictor:5000")

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://predictor:5000", cfg.PredictionServiceAddr)
	assert.Equal(t, time.Duration(0), cfg.PredictionTimeout)
	assert.Equal(t, time.Duration(0), cfg.PredictionHeaderTimeout)
	assert.Equal(t, 0, cfg.MaxSubmissionsPerSec)
	assert.Equal(t, 1, cfg.SubmissionBurst)
	assert.Equal(t, 4, cfg.BatchConcurrency)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

func TestLoad_Overrides(t *testing.T) {
	gin.SetMode(gin.TestMode)
	viper.Reset()
	t.Setenv("APP_PREDICTION_SERVICE_ADDR", "http://predictor:5000")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_PREDICTION_TIMEOUT", "1500ms")
	t.Setenv("APP_PREDICTION_HEADER_TIMEOUT", "750ms")
	t.Setenv("APP_MAX_SUBMISSIONS_PER_SEC", "5")

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.PredictionTimeout)
	assert.Equal(t, 750*time.Millisecond, cfg.PredictionHeaderTimeout)
	assert.Equal(t, 5, cfg.MaxSubmissionsPerSec)
}

func TestLoad_MissingPredictionService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	viper.Reset()
	t.Setenv("APP_PREDICTION_SERVICE_ADDR", "")

	_, err := Load(zap.NewNop())
	assert.ErrorContains(t, err, "PREDICTION_SERVICE_ADDR")
}
