package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，未初始化时为 nil
var Log *zap.Logger

// InitLogger 根据运行环境初始化 zap
// prod 使用 JSON 输出，其余环境使用彩色控制台输出
func InitLogger(env string, debug bool) error {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// L 返回全局日志，未初始化时返回 Nop，方便测试中直接调用
func L() *zap.Logger {
	if Log == nil {
		return zap.NewNop()
	}
	return Log
}

// Sync 刷新缓冲
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
