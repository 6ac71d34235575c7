package main

import (
	"bizassist/internal/app"
	"flag"
	"log"
	"os"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Путь к файлу конфигурации")
	verbose := flag.Bool("verbose", false, "Включить подробное логирование")
	flag.Parse()

	// Проверка существования файла конфигурации
	_, err := os.Stat(*configPath)
	if os.IsNotExist(err) {
		log.Fatalf("Конфигурационный файл не найден: %s", *configPath)
	}

	log.Printf("Запуск приложения с параметрами:\n")
	log.Printf("- Конфигурационный файл: %s\n", *configPath)
	log.Printf("- Подробное логирование: %v\n", *verbose)

	if err := app.Run(*configPath, *verbose); err != nil {
		log.Fatal(err)
	}
}
