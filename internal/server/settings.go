package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/guidechat/backend/internal/util"
	"github.com/guidechat/backend/pkg/knowledge"
	"github.com/guidechat/backend/pkg/loader/s3"

	"github.com/go-playground/validator"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Port           string `validate:"required,numeric"`
	RequestTimeout time.Duration

	AIAdapter          string `validate:"oneof=openai ollama"`
	AIModel            string
	AIURL              string
	AIKey              string
	AIParallelRequests int64

	KnowledgeSource string `validate:"oneof=file s3"`
	KnowledgeCache  bool
	DataDir         string
	S3              s3.NewObjectSourceParams
	PriceColumns    []string
	Matcher         string `validate:"oneof=contains word"`
}

// LoadSettings reads and validates the environment.
func LoadSettings() (Settings, error) {
	settings := Settings{
		Port:           util.GetEnvString("PORT", "3000"),
		RequestTimeout: time.Duration(util.GetEnvNumeric("REQUEST_TIMEOUT", 90) * float64(time.Second)),

		AIAdapter:          util.GetEnvString("AI_ADAPTER", "openai"),
		AIModel:            util.GetEnv("AI_CHAT_MODEL"),
		AIURL:              util.GetEnv("AI_CHAT_URL"),
		AIKey:              util.GetEnvFirst("GEMINI_API_KEY", "AI_CHAT_KEY"),
		AIParallelRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),

		KnowledgeSource: util.GetEnvString("KNOWLEDGE_SOURCE", "file"),
		KnowledgeCache:  util.GetEnvBool("KNOWLEDGE_CACHE", false),
		DataDir:         util.GetEnvString("DATA_DIR", "./data"),
		S3: s3.NewObjectSourceParams{
			Bucket:    util.GetEnv("AWS_BUCKET"),
			Prefix:    util.GetEnv("AWS_PREFIX"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			Region:    util.GetEnv("AWS_REGION"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
		},
		PriceColumns: util.GetEnvList("PRICE_COLUMNS", knowledge.DefaultPriceColumns),
		Matcher:      util.GetEnvString("MATCHER", "contains"),
	}

	return settings, settings.Validate()
}

// Validate reports every invalid setting at once.
func (s Settings) Validate() error {
	var errs []error

	if err := validator.New().Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				errs = append(errs, fmt.Errorf("invalid %s: %q", fieldErr.Field(), fieldErr.Value()))
			}
		} else {
			errs = append(errs, err)
		}
	}
	if s.AIAdapter == "openai" && s.AIKey == "" {
		errs = append(errs, errors.New("missing GEMINI_API_KEY"))
	}
	if s.AIAdapter == "ollama" && s.AIModel == "" {
		errs = append(errs, errors.New("missing AI_CHAT_MODEL"))
	}
	if s.KnowledgeSource == "s3" && s.S3.Bucket == "" {
		errs = append(errs, errors.New("missing AWS_BUCKET"))
	}
	if s.RequestTimeout < 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must not be negative"))
	}

	return errors.Join(errs...)
}
