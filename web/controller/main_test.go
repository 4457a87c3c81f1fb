package controller

import (
	"os"
	"testing"

	"github.com/secureauth/secureauth/logger"

	"github.com/op/go-logging"
)

func TestMain(m *testing.M) {
	os.Setenv("SA_LOG_FOLDER", os.TempDir())
	logger.InitLogger(logging.DEBUG)
	os.Exit(m.Run())
}
