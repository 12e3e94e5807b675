package config

import "os"

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（:8080）

	JWTSecret string // JWT署名シークレット

	UploadDir string // 表紙画像の保存先
}

// Loadは環境変数から設定を読む。
// DB接続はinfra/dbが環境変数を直接見るのでここには持たない。
func Load() Config {
	cfg := Config{
		Port:      getenv("PORT", "8080"),
		JWTSecret: getenv("JWT_SECRET", "dev_secret_change_me"),
		UploadDir: getenv("UPLOAD_DIR", "static/uploads"),
	}

	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
