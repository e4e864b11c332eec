package main

import (
	"github.com/wellywell/orderhub/internal/config"
	"github.com/wellywell/orderhub/internal/db"
	"github.com/wellywell/orderhub/internal/handlers"
	"github.com/wellywell/orderhub/internal/router"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	database, err := db.NewDatabase(conf.DatabaseDSN)
	if err != nil {
		panic(err)
	}
	defer database.Close()

	handlerSet := handlers.NewHandlerSet(database, conf.BatchSize, conf.MaxUploadBytes)

	r := router.NewRouter(conf, handlerSet)

	err = r.ListenAndServe()
	if err != nil {
		panic(err)
	}

}
