package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总两个进程运行所需的基础配置。
// SharedDataDir + StoreFilename 对应移动端的 App Group 容器与固定存储文件名：
// 主应用与小组件必须解析出同一路径。
type AppConfig struct {
	ListenAddr       string
	WidgetListenAddr string
	SharedDataDir    string
	StoreFilename    string
	GinMode          string
}

// Load 读取 .env（如存在）与环境变量，为缺失项提供安全的默认值。
func Load() AppConfig {
	// .env 不存在是常态，忽略加载错误
	_ = godotenv.Load()

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	widgetListenAddr := strings.TrimSpace(os.Getenv("WIDGET_LISTEN_ADDR"))
	if widgetListenAddr == "" {
		widgetListenAddr = ":8081"
	}

	sharedDataDir := strings.TrimSpace(os.Getenv("SHARED_DATA_DIR"))
	if sharedDataDir == "" {
		sharedDataDir = "data"
	}

	storeFilename := strings.TrimSpace(os.Getenv("STORE_FILENAME"))
	if storeFilename == "" {
		storeFilename = "ActivityTracker.sqlite"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		WidgetListenAddr: widgetListenAddr,
		SharedDataDir:    sharedDataDir,
		StoreFilename:    storeFilename,
		GinMode:          ginMode,
	}
}

// StorePath 返回两个进程共用的数据库文件完整路径。
func (c AppConfig) StorePath() string {
	return filepath.Join(c.SharedDataDir, c.StoreFilename)
}
