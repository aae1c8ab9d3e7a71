package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	AppKey       ContextKey = "app"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	LoggerKey    ContextKey = "logger"
	ParamsKey    ContextKey = "params"
	UserKey      ContextKey = "user"
	TenantIDKey  ContextKey = "tenantID"
	LocalizerKey ContextKey = "localizer"
	RequestStart ContextKey = "requestStart"
)

// Validate is the shared validator instance used by DTO validation.
var Validate = validator.New(validator.WithRequiredStructEnabled())
