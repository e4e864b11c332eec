package config

import (
	"flag"

	"github.com/caarlos0/env/v6"
)

/*
адрес и порт запуска сервиса: переменная окружения ОС RUN_ADDRESS или флаг -a;
адрес подключения к базе данных: переменная окружения ОС DATABASE_URI или флаг -d;
секрет для проверки токенов: переменная окружения ОС SECRET или флаг -s;
размер пачки строк при загрузке: переменная окружения ОС UPLOAD_BATCH_SIZE или флаг -b;
максимальный размер загружаемого файла: переменная окружения ОС MAX_UPLOAD_BYTES или флаг -m.
*/

type ServerConfig struct {
	RunAddress     string `env:"RUN_ADDRESS"`
	DatabaseDSN    string `env:"DATABASE_URI"`
	SecretKey      string `env:"SECRET"`
	BatchSize      int    `env:"UPLOAD_BATCH_SIZE"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES"`

	Secret []byte `env:"-"`
}

func NewConfig() (*ServerConfig, error) {
	var params ServerConfig
	err := env.Parse(&params)
	if err != nil {
		return nil, err
	}

	var commandLineParams ServerConfig

	flag.StringVar(&commandLineParams.RunAddress, "a", "localhost:8080", "Base address to listen on")
	flag.StringVar(&commandLineParams.DatabaseDSN, "d", "postgres://postgres@localhost:5432/orderhub?sslmode=disable", "Database DSN")
	flag.StringVar(&commandLineParams.SecretKey, "s", "secret", "Secret to verify auth tokens")
	flag.IntVar(&commandLineParams.BatchSize, "b", 1000, "Rows per upsert batch")
	flag.Int64Var(&commandLineParams.MaxUploadBytes, "m", 100*1024*1024, "Max upload size in bytes")
	flag.Parse()

	if params.RunAddress == "" {
		params.RunAddress = commandLineParams.RunAddress
	}
	if params.DatabaseDSN == "" {
		params.DatabaseDSN = commandLineParams.DatabaseDSN
	}
	if params.SecretKey == "" {
		params.SecretKey = commandLineParams.SecretKey
	}
	params.Secret = []byte(params.SecretKey)
	if params.BatchSize == 0 {
		params.BatchSize = commandLineParams.BatchSize
	}
	if params.MaxUploadBytes == 0 {
		params.MaxUploadBytes = commandLineParams.MaxUploadBytes
	}

	return &params, nil
}
