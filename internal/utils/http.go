package utils

import (
	"net/http"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// leveledZap adapts a zap logger to retryablehttp's LeveledLogger
type leveledZap struct {
	log *zap.SugaredLogger
}

func (l leveledZap) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, keysAndValues...)
}

func (l leveledZap) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}

func (l leveledZap) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infow(msg, keysAndValues...)
}

func (l leveledZap) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

// RobustHTTPClient returns an HTTP client with retries and an overall timeout,
// for avatar downloads and inference API calls
func RobustHTTPClient(timeout time.Duration, logger *zap.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(leveledZap{logger.Sugar()})
	client := retryClient.StandardClient()
	client.Timeout = timeout
	return client
}

// DefaultUserAgent identifies this tool to instances and avatar hosts
func DefaultUserAgent() string {
	return "avatar-blocker/" + versioninfo.Short()
}
