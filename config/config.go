package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("SA_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("SA_DEBUG") == "true"
}

func GetListen() string {
	listen := os.Getenv("SA_LISTEN")
	if listen == "" {
		listen = ":5000"
	}
	return listen
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("SA_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/secureauth"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("SA_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetJWTSecret returns the token signing secret. Empty means the caller
// must decide between failing hard (production) or generating a
// throwaway secret (debug mode).
func GetJWTSecret() string {
	return os.Getenv("SA_JWT_SECRET")
}

func GetTokenTTL() time.Duration {
	return getDuration("SA_TOKEN_TTL", 24*time.Hour)
}

// GetLockoutThreshold returns the number of consecutive failed logins
// after which an account is locked.
func GetLockoutThreshold() int {
	return getInt("SA_LOCKOUT_THRESHOLD", 5)
}

func GetLockoutDuration() time.Duration {
	return getDuration("SA_LOCKOUT_DURATION", 15*time.Minute)
}

func GetBcryptCost() int {
	return getInt("SA_BCRYPT_COST", 12)
}

// GetSessionMaxAge returns the remember-me session lifetime.
func GetSessionMaxAge() time.Duration {
	return getDuration("SA_SESSION_MAX_AGE", 24*time.Hour)
}

// GetSessionIdleTimeout returns the inactivity timeout for sessions
// created without remember-me.
func GetSessionIdleTimeout() time.Duration {
	return getDuration("SA_SESSION_IDLE_TIMEOUT", 30*time.Minute)
}

func getInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
