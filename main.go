// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/LilVoxy/srag_etl/ETL/config"
	"github.com/LilVoxy/srag_etl/database"
	"github.com/LilVoxy/srag_etl/routes"
)

func serve(c *cli.Context) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load(afero.NewOsFs(), c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	sugar.Infow("Запуск сервера аналитики", "addr", cfg.Server.Addr, "driver", cfg.Store.Driver)

	// Подключение к хранилищу
	db, err := database.Open(c.Context, cfg.Store)
	if err != nil {
		sugar.Errorw("Не удалось подключиться к хранилищу", "error", err)
		return cli.Exit("", 1)
	}
	defer db.Close()

	// Кэш представлений: первое чтение сразу, далее по расписанию
	cache := database.NewViewCache(database.NewRepository(db, cfg.Store), sugar)
	if err := cache.Refresh(c.Context); err != nil {
		sugar.Warnw("Часть представлений недоступна до следующего обновления", "error", err)
	}
	if err := cache.Start(cfg.Server.CacheTTL); err != nil {
		sugar.Errorw("Ошибка при настройке планировщика", "error", err)
		return cli.Exit("", 1)
	}
	defer cache.Stop()

	// Создаем маршрутизатор
	router := mux.NewRouter()
	routes.SetupRoutes(router, cache, sugar)

	// Настраиваем сервер
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в отдельной горутине
	serverErr := make(chan error, 1)
	go func() {
		sugar.Infow("Сервер запущен", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Канал для сигналов завершения
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		sugar.Errorw("Ошибка запуска сервера", "error", err)
		return cli.Exit("", 1)
	case <-stop:
		sugar.Info("Получен сигнал завершения, закрываем соединения...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		sugar.Errorw("Ошибка остановки сервера", "error", err)
	}

	sugar.Info("Сервер остановлен")
	return nil
}

func main() {
	app := &cli.App{
		Name:  "srag-dashboard",
		Usage: "сервер аналитики по представлениям звездной схемы SRAG",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "путь к YAML-файлу конфигурации",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "адрес HTTP-сервера (переопределяет server.addr)",
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
