package config

import "os"

func IsDebug() bool {
	return os.Getenv("NANOBRIDGE_DEBUG") == "1"
}
