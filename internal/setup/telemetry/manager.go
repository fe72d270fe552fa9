package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/socialfolio/folio/internal/setup/config"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceType represents the type of service being initialized.
type ServiceType int

const (
	ServiceREST ServiceType = iota
	ServiceCLI
)

// String returns the component name used for log sessions and traces.
func (s ServiceType) String() string {
	switch s {
	case ServiceREST:
		return "rest"
	case ServiceCLI:
		return "cli"
	default:
		return "unknown"
	}
}

// sessionLayout names session directories so that they sort chronologically.
const sessionLayout = "2006-01-02_15-04-05"

// Manager handles the creation and management of log files and directories,
// and the OpenTelemetry exporter when one is configured.
type Manager struct {
	instanceID        string // Unique identifier for this program instance
	serviceType       ServiceType
	currentSessionDir string // Path to the current session's log directory
	logDir            string // Base directory for all logs
	debug             *config.Debug
	telemetry         *config.Telemetry
	version           string
	tracing           bool
}

// NewManager creates a new Manager instance.
func NewManager(
	serviceType ServiceType, logDir string, debugCfg *config.Debug, telemetryCfg *config.Telemetry, version string,
) *Manager {
	return &Manager{
		instanceID:  uuid.New().String(),
		serviceType: serviceType,
		logDir:      logDir,
		debug:       debugCfg,
		telemetry:   telemetryCfg,
		version:     version,
	}
}

// Start configures the Uptrace exporter. Tracing stays disabled when no DSN
// is configured.
func (lm *Manager) Start() {
	if lm.telemetry.UptraceDSN == "" {
		return
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(lm.telemetry.UptraceDSN),
		uptrace.WithServiceName(lm.telemetry.ServiceName+"-"+lm.serviceType.String()),
		uptrace.WithServiceVersion(lm.version),
		uptrace.WithDeploymentEnvironment(lm.telemetry.Environment),
	)
	lm.tracing = true
}

// Stop flushes pending spans. It should be called on application shutdown.
func (lm *Manager) Stop(ctx context.Context) error {
	if !lm.tracing {
		return nil
	}
	return uptrace.Shutdown(ctx)
}

// TracingEnabled reports whether spans are exported.
func (lm *Manager) TracingEnabled() bool {
	return lm.tracing
}

// InstanceID returns the unique identifier of this program run.
func (lm *Manager) InstanceID() string {
	return lm.instanceID
}

// SessionDir returns the directory holding this run's log files.
func (lm *Manager) SessionDir() string {
	return lm.currentSessionDir
}

// GetLoggers initializes the main and database loggers.
// Returns separate loggers for main application and database logging.
func (lm *Manager) GetLoggers() (*zap.Logger, *zap.Logger, error) {
	if err := lm.setupLogDirectories(); err != nil {
		return nil, nil, err
	}

	mainLogger, err := lm.initLogger(filepath.Join(lm.currentSessionDir, "main.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize main logger: %w", err)
	}

	dbLogger, err := lm.initLogger(filepath.Join(lm.currentSessionDir, "database.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database logger: %w", err)
	}

	fields := []zap.Field{
		zap.String("component", lm.serviceType.String()),
		zap.String("instanceID", lm.instanceID),
	}

	return mainLogger.With(fields...), dbLogger.With(fields...), nil
}

// setupLogDirectories ensures the base directory exists, removes old sessions
// and creates a new session directory.
func (lm *Manager) setupLogDirectories() error {
	if err := os.MkdirAll(lm.logDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	if err := lm.rotateLogSessions(); err != nil {
		return fmt.Errorf("failed to rotate log sessions: %w", err)
	}

	name := time.Now().Format(sessionLayout) + "_" + lm.serviceType.String()
	lm.currentSessionDir = filepath.Join(lm.logDir, name)
	if err := os.MkdirAll(lm.currentSessionDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	return nil
}

// initLogger creates a zap logger writing to path, and to stdout and the
// tracing exporter when those are enabled.
func (lm *Manager) initLogger(path string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(lm.debug.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(NewLineLimiter(file, lm.debug.MaxLogLines, path)),
			zapLevel,
		),
	}

	if lm.debug.Console {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.Lock(os.Stdout),
			zapLevel,
		))
	}

	if lm.tracing {
		cores = append(cores, NewCore(zapcore.ErrorLevel))
	}

	return zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// rotateLogSessions removes the oldest sessions so that a new one fits within
// maxLogsToKeep.
func (lm *Manager) rotateLogSessions() error {
	sessions, err := filepath.Glob(filepath.Join(lm.logDir, "*"))
	if err != nil {
		return err
	}

	keep := max(lm.debug.MaxLogsToKeep-1, 0)
	if len(sessions) <= keep {
		return nil
	}

	// Session names start with their creation time.
	slices.Sort(sessions)

	for _, session := range sessions[:len(sessions)-keep] {
		if err := os.RemoveAll(session); err != nil {
			return err
		}
	}

	return nil
}
