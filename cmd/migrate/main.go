package main

import (
	"bizassist/internal/config"
	"bizassist/internal/database"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Путь к файлу конфигурации")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.NewConnection(cfg.Database, zap.NewNop())
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	fmt.Println("Успешное подключение к базе данных")

	// Выполняем миграцию
	if _, err := db.Exec(database.Schema); err != nil {
		log.Fatalf("Ошибка выполнения миграции: %v", err)
	}

	fmt.Println("Миграция успешно выполнена")
	os.Exit(0)
}
