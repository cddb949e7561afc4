package ioc

import (
	"os"

	"inbatch/internal/app"
)

const defaultConfigPath = "configs/config.yaml"

// InitConfig 读取应用配置，INBATCH_CONFIG 可覆盖默认路径。
func InitConfig() (app.Config, error) {
	path := defaultConfigPath
	if p := os.Getenv("INBATCH_CONFIG"); p != "" {
		path = p
	}
	return app.LoadConfig(path)
}
