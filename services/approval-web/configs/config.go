package configs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nimeshabuddhika/credit-approval-web/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port                  string `mapstructure:"PORT" validate:"required"`
	PredictionServiceAddr string `mapstructure:"PREDICTION_SERVICE_ADDR" validate:"required,url"`
	// 0: wait as long as the inbound request lives
	PredictionTimeout time.Duration `mapstructure:"PREDICTION_TIMEOUT"`
	// 0: no limit on time to the first response byte
	PredictionHeaderTimeout time.Duration `mapstructure:"PREDICTION_HEADER_TIMEOUT"`
	// 0: unlimited
	MaxSubmissionsPerSec int `mapstructure:"MAX_SUBMISSIONS_PER_SEC" validate:"min=0"`
	SubmissionBurst      int `mapstructure:"SUBMISSION_BURST" validate:"min=1"`
	// optional, shares the submission budget across replicas
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	BatchConcurrency int    `mapstructure:"BATCH_CONCURRENCY" validate:"min=1,max=64"`
	MaxUploadBytes   int64  `mapstructure:"MAX_UPLOAD_BYTES" validate:"min=1"`
}

func Load(logger *zap.Logger) (*Config, error) {
	viper.SetEnvPrefix("app") // Prefix for env vars
	viper.AutomaticEnv()

	// Default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("PREDICTION_TIMEOUT", "0s")
	viper.SetDefault("PREDICTION_HEADER_TIMEOUT", "0s")
	viper.SetDefault("MAX_SUBMISSIONS_PER_SEC", "0")
	viper.SetDefault("SUBMISSION_BURST", "1")
	viper.SetDefault("BATCH_CONCURRENCY", "4")
	viper.SetDefault("MAX_UPLOAD_BYTES", "10485760")

	// Optional: Read from config.yaml if exists
	if gin.ReleaseMode == gin.Mode() {
		viper.SetConfigName("config.prod")
	} else if gin.TestMode == gin.Mode() {
		logger.Warn("running in test mode")
		viper.SetConfigName("config.test")
	} else {
		logger.Warn("running in development mode")
		viper.SetConfigName("config.dev")
	}
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./services/approval-web/configs")
	_ = viper.ReadInConfig() // Ignore if no file

	var cfg Config
	if err := utils.ParseStructEnv(&cfg); err != nil {
		return nil, err
	}
	// Validate after unmarshal
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, utils.FormatConfigErrors(logger, err, cfg)
	}
	return &cfg, nil
}
