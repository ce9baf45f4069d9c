package database

import (
	"os"
	"sync"
	"time"

	"intranet-portal-backend/pkg/logger"
)

// DatabasePool 进程内共享的数据库连接（无服务器实例会复用同一个 *sql.DB）
type DatabasePool struct {
	instance DatabaseInterface
	config   DatabaseConfig
	mu       sync.RWMutex
	lastUsed time.Time
}

var (
	globalPool *DatabasePool
	poolMutex  sync.Mutex
)

// idleExpiry 超过该时长未使用的连接会在下次获取时重建
const idleExpiry = 30 * time.Minute

// GetDatabase 获取数据库连接（单例 + 健康检查）
func GetDatabase(config DatabaseConfig) (DatabaseInterface, error) {
	poolMutex.Lock()
	defer poolMutex.Unlock()

	log := logger.L()
	if globalPool != nil && !shouldRecreateConnection(globalPool, config) {
		globalPool.mu.Lock()
		globalPool.lastUsed = time.Now()
		globalPool.mu.Unlock()
		log.Debug().Msg("♻️  Reusing existing database connection")
		return globalPool.instance, nil
	}

	log.Info().Str("driver", config.Driver).Msg("🔄 Creating new database connection pool")
	if globalPool != nil && globalPool.instance != nil {
		globalPool.instance.Close()
		globalPool = nil
	}

	instance, err := NewDatabase(config)
	if err != nil {
		return nil, err
	}
	globalPool = &DatabasePool{
		instance: instance,
		config:   config,
		lastUsed: time.Now(),
	}
	return instance, nil
}

// shouldRecreateConnection 判断是否需要重新创建连接
func shouldRecreateConnection(pool *DatabasePool, newConfig DatabaseConfig) bool {
	if pool == nil || pool.instance == nil {
		return true
	}
	log := logger.L()

	if pool.config != newConfig {
		log.Info().Msg("🔄 Database configuration changed, recreating connection")
		return true
	}

	pool.mu.RLock()
	expired := time.Since(pool.lastUsed) > idleExpiry
	pool.mu.RUnlock()
	// in-memory SQLite loses its data on close, so it never expires
	if expired && !isMemorySQLite(pool.config) {
		log.Info().Msg("⏰ Database connection expired, recreating")
		return true
	}

	if err := pool.instance.HealthCheck(); err != nil {
		log.Warn().Err(err).Msg("❌ Database health check failed, recreating")
		return true
	}
	return false
}

func isMemorySQLite(c DatabaseConfig) bool {
	return (c.Driver == "sqlite" || c.Driver == "") && (c.SQLitePath == "" || c.SQLitePath == ":memory:")
}

// ResetPool 关闭并丢弃共享连接（测试与优雅退出使用）
func ResetPool() {
	poolMutex.Lock()
	defer poolMutex.Unlock()
	if globalPool != nil && globalPool.instance != nil {
		globalPool.instance.Close()
	}
	globalPool = nil
}

// GetConnectionStats 获取连接池统计信息（健康检查接口返回）
func GetConnectionStats() map[string]interface{} {
	poolMutex.Lock()
	defer poolMutex.Unlock()

	if globalPool == nil {
		return map[string]interface{}{
			"status":    "no_connection",
			"last_used": nil,
		}
	}

	globalPool.mu.RLock()
	lastUsed := globalPool.lastUsed
	globalPool.mu.RUnlock()

	return map[string]interface{}{
		"status":     "connected",
		"driver":     globalPool.instance.Driver(),
		"last_used":  lastUsed.Format(time.RFC3339),
		"age":        time.Since(lastUsed).String(),
		"serverless": IsServerlessEnvironment(),
	}
}

// IsServerlessEnvironment 检测是否运行在无服务器平台（Vercel / Lambda）
func IsServerlessEnvironment() bool {
	return os.Getenv("VERCEL") == "1" || os.Getenv("VERCEL_ENV") != "" || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}
